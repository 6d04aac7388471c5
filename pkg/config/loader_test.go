package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/pkg/config"
	"github.com/macropower/netsense/pkg/yaml"
)

type sample struct {
	Name  string   `json:"name,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Count int      `json:"count,omitempty"`
}

func newSample() *sample {
	return &sample{}
}

func (s *sample) EnsureDefaults() {
	if s.Name == "" {
		s.Name = "default"
	}
}

const sampleSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "count": {"type": "integer", "minimum": 0}
  },
  "additionalProperties": false
}`

func validator(t *testing.T) *yaml.Validator {
	t.Helper()

	v, err := yaml.NewValidator("/sample.json", []byte(sampleSchema))
	require.NoError(t, err)

	return v
}

func TestLoader_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		wantErr  error
		wantText string
	}{
		"valid": {
			input: "name: a\ntags: [x, y]\ncount: 2\n",
		},
		"empty": {
			input:   "",
			wantErr: config.ErrEmpty,
		},
		"comments only": {
			input:   "# nothing here\n",
			wantErr: config.ErrEmpty,
		},
		"null": {
			input:   "null\n",
			wantErr: config.ErrEmpty,
		},
		"schema violation": {
			input:    "count: -1\n",
			wantText: "count",
		},
		"unknown key": {
			input:    "name: a\nextra: true\n",
			wantText: "extra",
		},
		"syntax error": {
			input:    "name: [a\n",
			wantText: "name",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := config.NewLoaderFromBytes([]byte(tc.input), newSample, validator(t)).Validate()

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.wantText != "":
				require.ErrorContains(t, err, tc.wantText)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewLoaderFromBytes([]byte("tags: [x]\ncount: 3\n"), newSample, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, &sample{Name: "default", Tags: []string{"x"}, Count: 3}, cfg)

	// An empty document loads the defaults.
	cfg, err = config.NewLoaderFromBytes(nil, newSample, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, &sample{Name: "default"}, cfg)

	// Load only parses; schema checks are done by Validate.
	cfg, err = config.NewLoaderFromBytes([]byte("count: -1\n"), newSample, validator(t)).Load()
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Count)

	_, err = config.NewLoaderFromBytes([]byte("count: [1\n"), newSample, nil).Load()
	require.Error(t, err)
}

func TestLoader_WithValidator(t *testing.T) {
	t.Parallel()

	// The option overrides the default validator.
	cl := config.NewLoaderFromBytes([]byte("extra: 1\n"), newSample, nil,
		config.WithValidator(validator(t)),
	)
	require.Error(t, cl.Validate())
}

func TestLoader_WithColor(t *testing.T) {
	t.Parallel()

	input := []byte("name: a\nextra: true\n")

	plain := config.NewLoaderFromBytes(input, newSample, validator(t)).Validate()
	colored := config.NewLoaderFromBytes(input, newSample, validator(t), config.WithColor(true)).Validate()

	require.ErrorContains(t, plain, "extra")
	require.ErrorContains(t, colored, "extra")
	assert.NotContains(t, plain.Error(), "\x1b[")
}

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\n"), 0o600))

	cl, err := config.NewLoaderFromFile(path, newSample, validator(t))
	require.NoError(t, err)
	require.NoError(t, cl.Validate())

	cfg, err := cl.Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Name)

	_, err = config.NewLoaderFromFile(filepath.Join(t.TempDir(), "missing.yaml"), newSample, nil)
	require.Error(t, err)
}
