package definition

import (
	"fmt"

	"github.com/macropower/netsense/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -kind network -src ../.. -o network.v1beta1.json

// SchemaURL identifies the network definition schema.
const SchemaURL = "/network.v1beta1.json"

// DefaultValidator validates network definition files against the schema
// generated from [NetworkDefinition].
var DefaultValidator = mustValidator()

// Schema returns the JSON schema for network definition files.
func Schema() ([]byte, error) {
	b, err := yaml.NewSchemaGenerator(New()).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate network definition schema: %w", err)
	}

	return b, nil
}

func mustValidator() *yaml.Validator {
	schema, err := Schema()
	if err != nil {
		panic(err)
	}

	return yaml.MustNewValidator(SchemaURL, schema)
}
