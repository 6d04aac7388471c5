package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator generates a JSON schema from a Go value using
// [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	v            any
	commentsBase string
	commentsDir  string
}

// SchemaOpt configures a [SchemaGenerator].
type SchemaOpt func(*SchemaGenerator)

// WithGoComments uses Go doc comments found under dir as schema
// descriptions. The base is the import path corresponding to dir.
func WithGoComments(base, dir string) SchemaOpt {
	return func(g *SchemaGenerator) {
		g.commentsBase = base
		g.commentsDir = dir
	}
}

// NewSchemaGenerator creates a [SchemaGenerator] for v.
func NewSchemaGenerator(v any, opts ...SchemaOpt) *SchemaGenerator {
	g := &SchemaGenerator{v: v}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Reflect builds the [*jsonschema.Schema] for the value.
func (g *SchemaGenerator) Reflect() (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}

	if g.commentsBase != "" {
		err := r.AddGoComments(g.commentsBase, g.commentsDir)
		if err != nil {
			return nil, fmt.Errorf("read go comments: %w", err)
		}
	}

	return r.Reflect(g.v), nil
}

// Generate returns the indented JSON encoding of the schema.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	jss, err := g.Reflect()
	if err != nil {
		return nil, err
	}

	b, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// NewValidatorFor generates a schema for v and compiles it into a
// [Validator].
func NewValidatorFor(url string, v any) (*Validator, error) {
	data, err := NewSchemaGenerator(v).Generate()
	if err != nil {
		return nil, err
	}

	return NewValidator(url, data)
}
