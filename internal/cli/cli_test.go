package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/internal/cli"
	"github.com/macropower/netsense/pkg/engine"
)

var observed = []string{
	"--external-ip", "198.51.100.9",
	"--gateway-ip", "192.168.1.5",
	"--gateway-mac", "aa:bb:cc:dd:ee:ff",
}

var networks = map[string]string{
	"anywhere.yml": "connect_commands: echo anywhere\n",
	"home.yml": `name: home
gateway_ip_address: 192.168.1.0/24
connect_commands:
  - nmcli c up home
`,
	"office.yml": `name: office
gateway_mac_address: 11:22:33:44:55:66
connect_commands: vpn up office
`,
}

// workspace writes the network definitions to a temp directory and returns
// the flags selecting them together with a private config file.
func workspace(t *testing.T, extra map[string]string) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	netDir := filepath.Join(dir, "networks")
	require.NoError(t, os.MkdirAll(netDir, 0o750))

	for _, files := range []map[string]string{networks, extra} {
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(netDir, name), []byte(content), 0o600))
		}
	}

	return dir, []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--networks", filepath.ToSlash(filepath.Join(netDir, "*.yml")),
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestMatch(t *testing.T) {
	tcs := map[string]struct {
		want string
		args []string
	}{
		"default command": {
			want: "# connect commands\necho anywhere\n# connect commands for 'home'\nnmcli c up home\n",
		},
		"explicit match command": {
			args: []string{"match"},
			want: "# connect commands\necho anywhere\n# connect commands for 'home'\nnmcli c up home\n",
		},
		"selector": {
			args: []string{"--select", `name == "home"`},
			want: "# connect commands for 'home'\nnmcli c up home\n",
		},
		"no matches": {
			args: []string{"--select", `name == "office"`},
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, args := workspace(t, nil)

			args = append(append(tc.args, args...), observed...)

			stdout, _, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stdout)
		})
	}
}

func TestMatch_JSON(t *testing.T) {
	dir, args := workspace(t, nil)

	stdout, _, err := execute(t, append(append(args, observed...), "--output", "json", "--select", `name == "home"`)...)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, []map[string]any{{
		"name":     "home",
		"source":   filepath.Join(dir, "networks", "home.yml"),
		"commands": []any{"nmcli c up home"},
	}}, got)
}

func TestMatch_InvalidDefinitions(t *testing.T) {
	_, args := workspace(t, map[string]string{
		"broken.yml": "gateway_ip_address: not-an-ip\n",
	})

	args = append(args, observed...)

	stdout, _, err := execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 network definitions could not be evaluated")
	assert.Contains(t, err.Error(), `invalid configured value "not-an-ip"`)
	assert.Empty(t, stdout)

	stdout, _, err = execute(t, append(args, "--keep-going")...)
	require.Error(t, err)
	assert.Equal(t, "# connect commands\necho anywhere\n# connect commands for 'home'\nnmcli c up home\n", stdout)
}

func TestMatch_Errors(t *testing.T) {
	tcs := map[string]struct {
		wantErr string
		args    []string
	}{
		"unknown output format": {
			args:    []string{"--output", "toml"},
			wantErr: "unknown output format",
		},
		"invalid selector": {
			args:    []string{"--select", "name =="},
			wantErr: "invalid --select",
		},
		"non-boolean selector": {
			args:    []string{"--select", "name"},
			wantErr: "must return bool",
		},
		"selector evaluation error": {
			args:    []string{"--select", `criteria["gateway_ip_address"].startsWith("192")`},
			wantErr: "2 network definitions could not be evaluated",
		},
		"unexpected argument": {
			args:    []string{"match", "home"},
			wantErr: "unknown command",
		},
		"watch and serve-mcp": {
			args:    []string{"--watch", "--serve-mcp"},
			wantErr: "none of the others can be",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, args := workspace(t, nil)

			_, _, err := execute(t, append(append(tc.args, args...), observed...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestMatch_Config(t *testing.T) {
	dir, _ := workspace(t, nil)
	configPath := filepath.Join(dir, "config.yaml")

	_, _, err := execute(t, "--config", configPath, "--write-config")
	require.NoError(t, err)
	require.FileExists(t, configPath)

	stdout, _, err := execute(t, "--config", configPath, "--show-config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "kind: Configuration")
	assert.Contains(t, stdout, "networks:")

	config := `apiVersion: netsense.macropower.dev/v1beta1
kind: Configuration
networks:
  pattern: ` + filepath.ToSlash(filepath.Join(dir, "networks", "home.yml")) + `
output:
  format: yaml
`
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0o600))

	stdout, _, err = execute(t, append([]string{"--config", configPath}, observed...)...)
	require.NoError(t, err)
	assert.Equal(t, `- name: home
  source: `+filepath.Join(dir, "networks", "home.yml")+`
  commands:
    - nmcli c up home
`, stdout)

	// The legacy variable outranks the config file.
	t.Setenv("CONFIG_FILE_PATTERN", filepath.ToSlash(filepath.Join(dir, "networks", "anywhere.yml")))

	stdout, _, err = execute(t, append([]string{"--config", configPath, "-o", "text"}, observed...)...)
	require.NoError(t, err)
	assert.Equal(t, "# connect commands\necho anywhere\n", stdout)

	// The flag outranks both.
	stdout, _, err = execute(t, append([]string{
		"--config", configPath, "-o", "text",
		"--networks", filepath.ToSlash(filepath.Join(dir, "networks", "home.yml")),
	}, observed...)...)
	require.NoError(t, err)
	assert.Equal(t, "# connect commands for 'home'\nnmcli c up home\n", stdout)
}

func TestMatch_InvalidConfig(t *testing.T) {
	dir, args := workspace(t, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("probe:\n  nope: true\n"), 0o600))

	_, _, err := execute(t, append(args, observed...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestExplain(t *testing.T) {
	_, args := workspace(t, map[string]string{
		"broken.yml": "name: broken\ngateway_ip_address: not-an-ip\n",
	})

	args = append(args, observed...)

	stdout, _, err := execute(t, append([]string{"explain", "home"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "home")
	assert.Contains(t, stdout, "match (require all)")
	assert.Contains(t, stdout, "want 192.168.1.0/24, have 192.168.1.5")
	assert.Contains(t, stdout, "nmcli c up home")
	assert.Contains(t, stdout, "signals observed")
	assert.NotContains(t, stdout, "office")

	stdout, _, err = execute(t, append([]string{"explain"}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "office")
	assert.Contains(t, stdout, "want 11:22:33:44:55:66, have aa:bb:cc:dd:ee:ff")
	assert.Contains(t, stdout, "invalid")
	assert.Contains(t, stdout, `invalid configured value "not-an-ip"`)

	_, _, err = execute(t, append([]string{"explain", "nowhere-near"}, args...)...)
	require.ErrorIs(t, err, engine.ErrNotFound)
}

func TestObserve(t *testing.T) {
	tcs := map[string]struct {
		want   string
		format string
	}{
		"text": {
			format: "text",
			want:   "external IP  198.51.100.9\ngateway IP   192.168.1.5\ngateway MAC  aa:bb:cc:dd:ee:ff\n",
		},
		"json": {
			format: "json",
			want: `{
  "external_ip": "198.51.100.9",
  "gateway_ip": "192.168.1.5",
  "gateway_mac": "aa:bb:cc:dd:ee:ff"
}
`,
		},
		"yaml": {
			format: "yaml",
			want:   "external_ip: 198.51.100.9\ngateway_ip: 192.168.1.5\ngateway_mac: aa:bb:cc:dd:ee:ff\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, args := workspace(t, nil)

			stdout, _, err := execute(t, append(append([]string{"observe", "-o", tc.format}, args...), observed...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, stdout)
		})
	}
}

func TestSchema(t *testing.T) {
	tcs := map[string]struct {
		wantKey string
		args    []string
	}{
		"default": {
			wantKey: "connect_commands",
		},
		"network": {
			args:    []string{"network"},
			wantKey: "gateway_mac_address",
		},
		"config": {
			args:    []string{"config"},
			wantKey: "networks",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := execute(t, append([]string{"schema"}, tc.args...)...)
			require.NoError(t, err)

			var schema map[string]any
			require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
			assert.Contains(t, stdout, tc.wantKey)
		})
	}

	_, _, err := execute(t, "schema", "profile")
	require.Error(t, err)
}
