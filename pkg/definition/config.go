package definition

// DefaultPattern is the rule file pattern used when none is configured.
const DefaultPattern = "networks/*.yml"

// Config configures where network definitions are loaded from.
type Config struct {
	// Pattern is a glob matching rule files. "**" matches across
	// directories and a leading "~" expands to the home directory.
	Pattern *string `json:"pattern,omitempty" jsonschema:"title=Pattern,default=networks/*.yml"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Pattern == nil || *c.Pattern == "" {
		p := DefaultPattern
		c.Pattern = &p
	}
}

// GetPattern returns the configured pattern.
func (c *Config) GetPattern() string {
	if c.Pattern == nil {
		return DefaultPattern
	}

	return *c.Pattern
}
