package yaml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/pkg/yaml"
)

var testSchema = []byte(`{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"require_all_matches": {"type": "boolean"},
		"gateway_ip_address": {"type": "string"},
		"connect_commands": {
			"oneOf": [
				{"type": "string"},
				{"type": "array", "items": {"type": "string"}}
			]
		}
	},
	"additionalProperties": false
}`)

func TestNewValidator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg     string
		schemaData []byte
		wantErr    bool
	}{
		"valid schema": {
			schemaData: testSchema,
		},
		"empty schema": {
			schemaData: []byte(`{}`),
		},
		"invalid json": {
			schemaData: []byte(`{"invalid": json}`),
			wantErr:    true,
			errMsg:     "unmarshal schema",
		},
		"invalid schema": {
			schemaData: []byte(`{"type": "invalid_type"}`),
			wantErr:    true,
			errMsg:     "compile schema",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			validator, err := yaml.NewValidator("test.json", tc.schemaData)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, validator)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, validator)
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	validator := yaml.MustNewValidator("test.json", testSchema)

	tcs := map[string]struct {
		data     any
		wantPath string
		wantErr  bool
	}{
		"empty definition": {
			data: map[string]any{},
		},
		"string commands": {
			data: map[string]any{
				"name":             "home",
				"connect_commands": "nmcli c up home",
			},
		},
		"list commands": {
			data: map[string]any{
				"connect_commands": []any{"a", "b"},
			},
		},
		"wrong selector type": {
			data: map[string]any{
				"require_all_matches": "yes",
			},
			wantErr:  true,
			wantPath: "$.require_all_matches",
		},
		"non-string command in list": {
			data: map[string]any{
				"connect_commands": []any{"a", 42},
			},
			wantErr:  true,
			wantPath: "$.connect_commands[1]",
		},
		"unknown key": {
			data: map[string]any{
				"gateway_ip_adress": "10.0.0.1",
			},
			wantErr:  true,
			wantPath: "$",
		},
		"not a mapping": {
			data:     []any{"a"},
			wantErr:  true,
			wantPath: "$",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validator.Validate(tc.data)
			if !tc.wantErr {
				require.NoError(t, err)

				return
			}

			var yamlErr *yaml.Error
			require.ErrorAs(t, err, &yamlErr)
			require.NotNil(t, yamlErr.Path)
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}
