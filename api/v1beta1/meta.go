// Package v1beta1 contains the v1beta1 API types for netsense configuration.
package v1beta1

import (
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all netsense configuration kinds.
const APIVersion = "netsense.macropower.dev/v1beta1"

// ValidAPIVersions lists the API versions this package can read.
var ValidAPIVersions = []string{APIVersion}

// TypeMeta identifies the kind of a configuration document.
type TypeMeta struct {
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// NewTypeMeta returns a [TypeMeta] of the given kind at the current
// [APIVersion].
func NewTypeMeta(kind string) TypeMeta {
	return TypeMeta{APIVersion: APIVersion, Kind: kind}
}

func (tm TypeMeta) GetAPIVersion() string { return tm.APIVersion }

func (tm TypeMeta) GetKind() string { return tm.Kind }

// Supported reports whether the API version is one of [ValidAPIVersions].
func (tm TypeMeta) Supported() bool {
	return slices.Contains(ValidAPIVersions, tm.APIVersion)
}

// Object is implemented by every configuration kind.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// ExtendSchemaWithEnums limits the apiVersion and kind properties of jss to
// the given values. It panics if jss lacks either property.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	for prop, values := range map[string][]string{
		"apiVersion": apiVersions,
		"kind":       kinds,
	} {
		s, ok := jss.Properties.Get(prop)
		if !ok {
			panic(prop + " property not found in schema")
		}

		for _, v := range values {
			s.Enum = append(s.Enum, v)
		}
	}
}
