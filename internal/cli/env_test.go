package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		env  map[string]string
		want map[string]string
		args []string
	}{
		"environment only": {
			env: map[string]string{
				"NETSENSE_LOG_LEVEL":  "debug",
				"NETSENSE_LOG_FORMAT": "json",
				"NETSENSE_GATEWAY_IP": "10.0.0.1",
			},
			want: map[string]string{"log-level": "debug", "log-format": "json", "gateway-ip": "10.0.0.1"},
		},
		"arguments win": {
			env: map[string]string{
				"NETSENSE_LOG_LEVEL":  "debug",
				"NETSENSE_GATEWAY_IP": "10.0.0.1",
			},
			args: []string{"--log-level", "error", "--gateway-ip", "10.0.0.2"},
			want: map[string]string{"log-level": "error", "gateway-ip": "10.0.0.2"},
		},
		"mixed": {
			env:  map[string]string{"NETSENSE_LOG_LEVEL": "warn"},
			args: []string{"--log-format", "json"},
			want: map[string]string{"log-level": "warn", "log-format": "json", "gateway-ip": ""},
		},
		"defaults": {
			want: map[string]string{"log-level": "info", "log-format": "text", "output": ""},
		},
		"invalid value keeps default": {
			env:  map[string]string{"NETSENSE_KEEP_GOING": "sometimes"},
			want: map[string]string{"keep-going": "false"},
		},
		"shorthand flag": {
			env:  map[string]string{"NETSENSE_SELECT": `name == "home"`},
			want: map[string]string{"select": `name == "home"`},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cmd := cli.NewRootCmd()
			require.NoError(t, cmd.ParseFlags(tc.args))

			for flag, want := range tc.want {
				f := cmd.Flags().Lookup(flag)
				require.NotNil(t, f, flag)
				assert.Equal(t, want, f.Value.String(), flag)
			}
		})
	}
}

func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$NETSENSE_LOG_LEVEL")

	networksFlag := cmd.Flags().Lookup("networks")
	require.NotNil(t, networksFlag)
	assert.Contains(t, networksFlag.Usage, "$NETSENSE_NETWORKS")

	explainCmd, _, err := cmd.Find([]string{"explain"})
	require.NoError(t, err)

	gatewayFlag := explainCmd.Flags().Lookup("gateway-mac")
	require.NotNil(t, gatewayFlag)
	assert.Contains(t, gatewayFlag.Usage, "$NETSENSE_GATEWAY_MAC")
}

func TestServeMCPFlag(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	require.NoError(t, cmd.ParseFlags([]string{"--serve-mcp"}))

	addr, err := cmd.Flags().GetString("serve-mcp")
	require.NoError(t, err)
	assert.Equal(t, "stdio", addr)
}
