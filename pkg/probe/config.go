package probe

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// External IP lookup methods.
const (
	MethodHTTP = "http"
	MethodDNS  = "dns"
)

// Defaults.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultCacheTTL  = 30 * time.Second
	DefaultURL       = "https://api.ipify.org"
	DefaultDNSName   = "myip.opendns.com"
	DefaultDNSServer = "resolver1.opendns.com:53"
)

// Config configures the system prober.
type Config struct {
	// ExternalIP configures the external IP lookup.
	ExternalIP *ExternalIPConfig `json:"externalIP,omitempty" jsonschema:"title=External IP"`
	// Timeout bounds each individual probe.
	Timeout *Duration `json:"timeout,omitempty" jsonschema:"title=Timeout"`
	// CacheTTL is how long observed values are reused across runs in watch
	// and MCP server modes.
	CacheTTL *Duration `json:"cacheTTL,omitempty" jsonschema:"title=Cache TTL"`
	// ARPWarmup sends a single UDP datagram to the gateway when its MAC
	// address is missing from the neighbor table, then looks again.
	ARPWarmup *bool `json:"arpWarmup,omitempty" jsonschema:"title=ARP Warmup"`
}

// ExternalIPConfig configures how the external IP is discovered.
type ExternalIPConfig struct {
	// Method is either "http" or "dns".
	Method string `json:"method,omitempty" jsonschema:"title=Method,enum=http,enum=dns"`
	// URL is fetched by the http method. The response body is the address.
	URL string `json:"url,omitempty" jsonschema:"title=URL"`
	// DNSName is queried for an A record by the dns method.
	DNSName string `json:"dnsName,omitempty" jsonschema:"title=DNS Name"`
	// DNSServer is the resolver used by the dns method, as host:port.
	DNSServer string `json:"dnsServer,omitempty" jsonschema:"title=DNS Server"`
}

// NewConfig returns a [Config] with default values.
func NewConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes unset fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.ExternalIP == nil {
		c.ExternalIP = &ExternalIPConfig{}
	}

	c.ExternalIP.EnsureDefaults()

	if c.Timeout == nil {
		c.Timeout = &Duration{DefaultTimeout}
	}

	if c.CacheTTL == nil {
		c.CacheTTL = &Duration{DefaultCacheTTL}
	}

	if c.ARPWarmup == nil {
		warmup := true
		c.ARPWarmup = &warmup
	}
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	if c.Timeout != nil && c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	if c.CacheTTL != nil && c.CacheTTL.Duration <= 0 {
		return fmt.Errorf("cacheTTL must be positive, got %s", c.CacheTTL)
	}

	if c.ExternalIP != nil {
		switch c.ExternalIP.Method {
		case "", MethodHTTP, MethodDNS:
		default:
			return fmt.Errorf("unknown external IP method %q", c.ExternalIP.Method)
		}
	}

	return nil
}

// EnsureDefaults initializes empty fields to their default values.
func (c *ExternalIPConfig) EnsureDefaults() {
	if c.Method == "" {
		c.Method = MethodHTTP
	}

	if c.URL == "" {
		c.URL = DefaultURL
	}

	if c.DNSName == "" {
		c.DNSName = DefaultDNSName
	}

	if c.DNSServer == "" {
		c.DNSServer = DefaultDNSServer
	}
}

// Duration is a [time.Duration] written as a Go duration string, e.g.
// "10s" or "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}

	d.Duration = v

	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// JSONSchema describes [Duration] as a duration string.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "string",
		Pattern:  `^(\d+(\.\d+)?(ns|us|µs|ms|s|m|h))+$`,
		Examples: []any{"10s", "1m30s"},
	}
}
