package configs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/api/v1beta1/configs"
	"github.com/macropower/netsense/pkg/config"
	"github.com/macropower/netsense/pkg/probe"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := configs.New()

	assert.Equal(t, "netsense.macropower.dev/v1beta1", cfg.GetAPIVersion())
	assert.Equal(t, "Configuration", cfg.GetKind())
	assert.Equal(t, "networks/*.yml", cfg.Networks.GetPattern())
	assert.Equal(t, 10*time.Second, cfg.Probe.Timeout.Duration)
	assert.Equal(t, probe.MethodHTTP, cfg.Probe.ExternalIP.Method)
	assert.Equal(t, "text", cfg.Output.Format)
	require.NoError(t, cfg.Validate())
}

func TestDefaultYAML(t *testing.T) {
	t.Parallel()

	cl := config.NewLoaderFromBytes(configs.DefaultYAML(), configs.New, configs.DefaultValidator)
	require.NoError(t, cl.Validate())

	cfg, err := cl.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	// The embedded file spells out every default.
	assert.Equal(t, configs.New(), cfg)
}

func TestConfig_Schema(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		wantErr bool
	}{
		"minimal": {
			input: "apiVersion: netsense.macropower.dev/v1beta1\nkind: Configuration\n",
		},
		"partial probe": {
			input: `apiVersion: netsense.macropower.dev/v1beta1
kind: Configuration
probe:
  timeout: 3s
  externalIP:
    method: dns
`,
		},
		"wrong kind": {
			input:   "apiVersion: netsense.macropower.dev/v1beta1\nkind: Policy\n",
			wantErr: true,
		},
		"wrong api version": {
			input:   "apiVersion: v1\nkind: Configuration\n",
			wantErr: true,
		},
		"unknown key": {
			input:   "apiVersion: netsense.macropower.dev/v1beta1\nkind: Configuration\nui: {}\n",
			wantErr: true,
		},
		"bad method": {
			input: `apiVersion: netsense.macropower.dev/v1beta1
kind: Configuration
probe:
  externalIP:
    method: stun
`,
			wantErr: true,
		},
		"bad duration": {
			input: `apiVersion: netsense.macropower.dev/v1beta1
kind: Configuration
probe:
  timeout: soon
`,
			wantErr: true,
		},
		"bad format": {
			input: `apiVersion: netsense.macropower.dev/v1beta1
kind: Configuration
output:
  format: xml
`,
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := config.NewLoaderFromBytes([]byte(tc.input), configs.New, configs.DefaultValidator).Validate()
			if tc.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestConfig_Load(t *testing.T) {
	t.Parallel()

	cl := config.NewLoaderFromBytes([]byte(`apiVersion: netsense.macropower.dev/v1beta1
kind: Configuration
networks:
  pattern: ~/networks/**/*.yml
probe:
  timeout: 1m30s
  arpWarmup: false
`), configs.New, configs.DefaultValidator)

	cfg, err := cl.Load()
	require.NoError(t, err)

	assert.Equal(t, "~/networks/**/*.yml", cfg.Networks.GetPattern())
	assert.Equal(t, 90*time.Second, cfg.Probe.Timeout.Duration)
	assert.False(t, *cfg.Probe.ARPWarmup)
	// Unset values take their defaults.
	assert.Equal(t, probe.DefaultCacheTTL, cfg.Probe.CacheTTL.Duration)
	assert.Equal(t, "monokai", cfg.Output.Style)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	cfg := configs.New()
	cfg.Probe.Timeout = &probe.Duration{}
	require.ErrorContains(t, cfg.Validate(), "timeout must be positive")

	cfg = configs.New()
	cfg.Probe.CacheTTL = &probe.Duration{}
	require.ErrorContains(t, cfg.Validate(), "cacheTTL must be positive")

	cfg = configs.New()
	cfg.Output.Format = "xml"
	require.ErrorContains(t, cfg.Validate(), "unknown output format")

	cfg = configs.New()
	cfg.APIVersion = "v1"
	require.ErrorContains(t, cfg.Validate(), `unsupported apiVersion "v1"`)
}

func TestConfig_Write(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, configs.New().Write(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)

	cl := config.NewLoaderFromBytes(b, configs.New, configs.DefaultValidator)
	require.NoError(t, cl.Validate())

	cfg, err := cl.Load()
	require.NoError(t, err)
	assert.Equal(t, configs.New(), cfg)

	// Existing files are left alone.
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o600))
	require.NoError(t, configs.New().Write(path))

	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(b))

	require.ErrorContains(t, configs.New().Write(t.TempDir()), "path is a directory")
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, configs.WriteDefault(path, false))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configs.DefaultYAML(), b)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	b, err := configs.Schema()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"additionalProperties": false`)
	assert.Contains(t, string(b), `"netsense.macropower.dev/v1beta1"`)
}

//nolint:paralleltest // Sets environment variables.
func TestGetPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/netsense/config.yaml", configs.GetPath())
}
