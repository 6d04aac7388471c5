package definition

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/macropower/netsense/pkg/match"
)

// NetworkDefinition is a single parsed rule file.
//
// A nil criterion is not configured and never contributes to a match
// decision. A YAML null is treated the same as an absent key.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type NetworkDefinition struct {
	// Name is a human-readable name used in rendered output.
	Name *string `json:"name,omitempty" jsonschema:"title=Name"`
	// RequireAllMatches selects the policy. When true or absent, every
	// configured criterion must match. When false, any one match suffices.
	RequireAllMatches *bool `json:"require_all_matches,omitempty" jsonschema:"title=Require All Matches"`
	// ExternalIPAddress is a CIDR network or bare address that the external
	// IP must fall within.
	ExternalIPAddress *string `json:"external_ip_address,omitempty" jsonschema:"title=External IP Address"`
	// GatewayIPAddress is a CIDR network or bare address that the default
	// gateway's IP must fall within.
	GatewayIPAddress *string `json:"gateway_ip_address,omitempty" jsonschema:"title=Gateway IP Address"`
	// GatewayMACAddress is the expected MAC address of the default gateway.
	GatewayMACAddress *string `json:"gateway_mac_address,omitempty" jsonschema:"title=Gateway MAC Address"`
	// ConnectCommands are emitted when the definition matches.
	ConnectCommands Commands `json:"connect_commands,omitempty" jsonschema:"title=Connect Commands"`

	// Source is the path of the file the definition was loaded from.
	Source string `json:"-"`
}

// New returns an empty [NetworkDefinition].
func New() *NetworkDefinition {
	return &NetworkDefinition{}
}

// EnsureDefaults is a no-op. Absent keys keep their meaning of "not
// configured" and are never filled in.
func (d *NetworkDefinition) EnsureDefaults() {}

// Criteria returns the match criteria of the definition.
func (d *NetworkDefinition) Criteria() match.Criteria {
	return match.Criteria{
		ExternalIPAddress: d.ExternalIPAddress,
		GatewayIPAddress:  d.GatewayIPAddress,
		GatewayMACAddress: d.GatewayMACAddress,
		Policy:            match.PolicyFor(d.RequireAllMatches),
	}
}

// GetName returns the configured name, or an empty string.
func (d *NetworkDefinition) GetName() string {
	if d.Name == nil {
		return ""
	}

	return *d.Name
}

// DisplayName returns the configured name, falling back to the source file
// name without its extension.
func (d *NetworkDefinition) DisplayName() string {
	if name := d.GetName(); name != "" {
		return name
	}

	base := filepath.Base(d.Source)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *NetworkDefinition) String() string {
	return fmt.Sprintf("%s (%s)", d.DisplayName(), d.Source)
}

// JSONSchemaExtend allows every property to be null.
func (NetworkDefinition) JSONSchemaExtend(jss *jsonschema.Schema) {
	keys := make([]string, 0, jss.Properties.Len())
	for pair := jss.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	for _, key := range keys {
		prop, _ := jss.Properties.Get(key)

		_, _ = jss.Properties.Set(key, &jsonschema.Schema{
			Title:       prop.Title,
			Description: prop.Description,
			AnyOf: []*jsonschema.Schema{
				{Type: "null"},
				prop,
			},
		})
	}
}

// Commands is the connect_commands payload: either a single string or an
// ordered list of strings. A single string is stored as a one-element list.
type Commands []string

// UnmarshalYAML implements the goccy/go-yaml InterfaceUnmarshaler.
func (c *Commands) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any

	err := unmarshal(&raw)
	if err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*c = nil
	case string:
		*c = Commands{v}
	case []any:
		cmds := make(Commands, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("connect_commands[%d]: expected string, got %T", i, item)
			}

			cmds = append(cmds, s)
		}

		*c = cmds
	default:
		return fmt.Errorf("connect_commands: expected string or list of strings, got %T", raw)
	}

	return nil
}

// JSONSchema describes [Commands] as a string or a list of strings.
func (Commands) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}
