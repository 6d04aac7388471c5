package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks decoded YAML documents against a compiled JSON schema
// ([github.com/santhosh-tekuri/jsonschema/v6]).
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles schemaData, registered under url.
func NewValidator(url string, schemaData []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()

	err = c.AddResource(url, doc)
	if err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// MustNewValidator is like [NewValidator] but panics on error.
func MustNewValidator(url string, schemaData []byte) *Validator {
	v, err := NewValidator(url, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate validates a decoded document. Schema violations are returned as
// an [*Error] whose Path points at the deepest offending value, so that it
// can be annotated in the source.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &Error{
		Err:  ve,
		Path: instancePath(deepestLocation(ve)),
	}
}

// deepestLocation returns the longest instance location among err and its
// causes.
func deepestLocation(err *jsonschema.ValidationError) []string {
	loc := err.InstanceLocation

	for _, cause := range err.Causes {
		if c := deepestLocation(cause); len(c) > len(loc) {
			loc = c
		}
	}

	return loc
}

// instancePath converts a JSON schema instance location to a [*yaml.Path].
// Numeric segments are treated as sequence indexes.
func instancePath(location []string) *yaml.Path {
	b := NewPathBuilder().Root()

	for _, seg := range location {
		idx, err := strconv.ParseUint(seg, 10, 0)
		if err == nil {
			b = b.Index(uint(idx))

			continue
		}

		b = b.Child(seg)
	}

	return b.Build()
}
