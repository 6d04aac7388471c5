package api_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/api"
)

//nolint:paralleltest // We need to set environment variables, so run tests sequentially.
func TestGetConfigPath(t *testing.T) {
	tcs := map[string]struct {
		env  map[string]string
		want string
	}{
		"xdg config home": {
			env:  map[string]string{"XDG_CONFIG_HOME": "/custom/config"},
			want: "/custom/config/netsense/config.yaml",
		},
		"home fallback": {
			env:  map[string]string{"XDG_CONFIG_HOME": "", "HOME": "/test/home"},
			want: "/test/home/.config/netsense/config.yaml",
		},
		"temp fallback": {
			env:  map[string]string{"XDG_CONFIG_HOME": "", "HOME": ""},
			want: filepath.Join(os.TempDir(), "netsense", "config.yaml"), //nolint:usetesting // Needs to equal host.
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			assert.Equal(t, tc.want, api.GetConfigPath("config.yaml"))
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "home.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: home\n"), 0o600))

	got, err := api.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: home\n", string(got))

	_, err = api.ReadFile(dir)
	require.ErrorIs(t, err, api.ErrIsDirectory)

	_, err = api.ReadFile(filepath.Join(dir, "missing.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalYAML(t *testing.T) {
	t.Parallel()

	data, err := api.MarshalYAML(map[string]any{"pattern": "networks/*.yml"})
	require.NoError(t, err)
	assert.Equal(t, "pattern: networks/*.yml\n", string(data))
}

func TestWriteIfNotExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, api.WriteIfNotExists(path, []byte("first")))
	require.NoError(t, api.WriteIfNotExists(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	err = api.WriteIfNotExists(dir, []byte("x"))
	require.ErrorIs(t, err, api.ErrIsDirectory)
}

func TestWriteDefaultFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		existing   string
		want       string
		force      bool
		wantBackup bool
	}{
		"new file": {
			want: "default",
		},
		"existing file kept": {
			existing: "custom",
			want:     "custom",
		},
		"existing file replaced with backup": {
			existing:   "custom",
			force:      true,
			want:       "default",
			wantBackup: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")

			if tc.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tc.existing), 0o600))
			}

			require.NoError(t, api.WriteDefaultFile(path, []byte("default"), tc.force, "configuration"))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))

			backups, err := filepath.Glob(filepath.Join(dir, "*.old"))
			require.NoError(t, err)

			if !tc.wantBackup {
				assert.Empty(t, backups)

				return
			}

			require.Len(t, backups, 1)
			assert.True(t, strings.HasPrefix(filepath.Base(backups[0]), "config.yaml."))

			backup, err := os.ReadFile(backups[0])
			require.NoError(t, err)
			assert.Equal(t, tc.existing, string(backup))
		})
	}
}

func TestWriteDefaultFile_Directory(t *testing.T) {
	t.Parallel()

	err := api.WriteDefaultFile(t.TempDir(), []byte("default"), true, "configuration")
	require.ErrorIs(t, err, api.ErrIsDirectory)
}
