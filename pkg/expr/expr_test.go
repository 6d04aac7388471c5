package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/pkg/expr"
)

func vars() map[string]any {
	return map[string]any{
		expr.VarName:   "office",
		expr.VarSource: "/home/me/networks/work/office.yml",
		expr.VarCriteria: map[string]string{
			"gateway_ip_address":  "10.1.0.1",
			"gateway_mac_address": "AA:BB:CC:DD:EE:FF",
		},
		expr.VarPolicy:   "require all",
		expr.VarCommands: []string{"nmcli c up office", "ssh-add -D"},
	}
}

func TestSelector_Match(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expression string
		want       bool
	}{
		"name equality": {
			expression: `name == "office"`,
			want:       true,
		},
		"path base": {
			expression: `pathBase(source) == "office.yml"`,
			want:       true,
		},
		"path dir": {
			expression: `pathDir(source).endsWith("/work")`,
			want:       true,
		},
		"path ext": {
			expression: `pathExt(source) == ".yaml"`,
			want:       false,
		},
		"criteria key present": {
			expression: `"gateway_mac_address" in criteria`,
			want:       true,
		},
		"criteria key absent": {
			expression: `has(criteria.external_ip_address)`,
			want:       false,
		},
		"in cidr": {
			expression: `inCIDR(criteria.gateway_ip_address, "10.0.0.0/8")`,
			want:       true,
		},
		"not in cidr": {
			expression: `inCIDR(criteria.gateway_ip_address, "192.168.0.0/16")`,
			want:       false,
		},
		"mac equal": {
			expression: `macEqual(criteria.gateway_mac_address, "aa:bb:cc:dd:ee:ff")`,
			want:       true,
		},
		"commands exist": {
			expression: `commands.exists(c, c.startsWith("ssh-add"))`,
			want:       true,
		},
		"policy": {
			expression: `policy == "require any"`,
			want:       false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s, err := expr.NewSelector(tc.expression)
			require.NoError(t, err)
			assert.Equal(t, tc.expression, s.String())

			got, err := s.Match(vars())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewSelector_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"syntax error":     `name ==`,
		"unknown variable": `network == "x"`,
		"not boolean":      `name + "x"`,
		"unknown function": `cidrContains(name, "x")`,
	}

	for name, expression := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := expr.NewSelector(expression)
			require.Error(t, err)
		})
	}
}

func TestSelector_MatchErrors(t *testing.T) {
	t.Parallel()

	s, err := expr.NewSelector(`inCIDR(criteria.gateway_mac_address, "10.0.0.0/8")`)
	require.NoError(t, err)

	_, err = s.Match(vars())
	require.ErrorContains(t, err, "not an IP address")

	s, err = expr.NewSelector(`macEqual(name, "aa:bb:cc:dd:ee:ff")`)
	require.NoError(t, err)

	_, err = s.Match(vars())
	require.ErrorContains(t, err, "invalid MAC address")
}
