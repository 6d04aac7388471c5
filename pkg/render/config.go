package render

import "fmt"

// Format is an output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported [Format].
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// DefaultStyle is the chroma style used to highlight text output.
const DefaultStyle = "monokai"

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}

	return "", fmt.Errorf("unknown output format %q (want one of %v)", s, Formats)
}

// Config configures rendering.
type Config struct {
	// Format is the output format: text, json or yaml.
	Format string `json:"format,omitempty" jsonschema:"title=Format,enum=text,enum=json,enum=yaml"`
	// Style is the chroma style used to highlight text output on a terminal.
	Style string `json:"style,omitempty" jsonschema:"title=Style"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes empty fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Format == "" {
		c.Format = string(FormatText)
	}

	if c.Style == "" {
		c.Style = DefaultStyle
	}
}
