// Package configs provides the netsense Configuration type.
package configs

import (
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/netsense/api"
	"github.com/macropower/netsense/api/v1beta1"
	"github.com/macropower/netsense/pkg/definition"
	"github.com/macropower/netsense/pkg/probe"
	"github.com/macropower/netsense/pkg/render"
	"github.com/macropower/netsense/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -kind config -src ../../.. -o configs.v1beta1.json

const (
	// SchemaURL identifies the configuration schema.
	SchemaURL = "/configs.v1beta1.json"

	kind = "Configuration"
)

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// ValidKinds contains the valid kind values for configurations.
	ValidKinds = []string{kind}

	// DefaultValidator validates configuration files against the schema
	// generated from [Config].
	DefaultValidator = mustValidator()

	_ v1beta1.Object = (*Config)(nil)
)

// Config is the netsense configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Networks selects the network definition files.
	Networks *definition.Config `json:"networks,omitempty" jsonschema:"title=Networks"`
	// Probe configures how the network is observed.
	Probe *probe.Config `json:"probe,omitempty" jsonschema:"title=Probe"`
	// Output configures how matching definitions are printed.
	Output           *render.Config `json:"output,omitempty" jsonschema:"title=Output"`
	v1beta1.TypeMeta `json:",inline"`
}

// New creates a [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.NewTypeMeta(kind),
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Networks == nil {
		c.Networks = definition.NewConfig()
	} else {
		c.Networks.EnsureDefaults()
	}

	if c.Probe == nil {
		c.Probe = probe.NewConfig()
	} else {
		c.Probe.EnsureDefaults()
	}

	if c.Output == nil {
		c.Output = render.NewConfig()
	} else {
		c.Output.EnsureDefaults()
	}
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	if !c.Supported() {
		return fmt.Errorf("unsupported apiVersion %q", c.APIVersion)
	}

	if c.Probe != nil {
		err := c.Probe.Validate()
		if err != nil {
			return fmt.Errorf("validate probe config: %w", err)
		}
	}

	if c.Output != nil && c.Output.Format != "" {
		_, err := render.ParseFormat(c.Output.Format)
		if err != nil {
			return fmt.Errorf("validate output config: %w", err)
		}
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to path if no file exists there.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Schema returns the JSON schema for configuration files.
func Schema() ([]byte, error) {
	b, err := yaml.NewSchemaGenerator(New()).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate config schema: %w", err)
	}

	return b, nil
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultConfigYAML
}

// WriteDefault writes the embedded default config.yaml to path.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// GetPath returns the path to the user configuration file.
func GetPath() string {
	return api.GetConfigPath("config.yaml")
}

func mustValidator() *yaml.Validator {
	schema, err := Schema()
	if err != nil {
		panic(err)
	}

	return yaml.MustNewValidator(SchemaURL, schema)
}
