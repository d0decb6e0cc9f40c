package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marbl-settings/internal/ports"
	"marbl-settings/internal/types"
)

const fixtureSchema = "../../fixtures/settings_schema.yaml"

func TestResolveWritesOutputFile(t *testing.T) {
	svc := NewService()
	outPath := filepath.Join(t.TempDir(), "nested", "marbl_in")

	result, err := svc.Resolve(t.Context(), ResolveRequest{
		SchemaPath: fixtureSchema,
		InputFile:  "../../fixtures/input_sample.nml",
		Grid:       "CESM_x3",
		OutputPath: outPath,
		Format:     ports.OutputFormatText,
	})
	require.NoError(t, err)
	assert.Equal(t, 46, result.TracerCount)
	assert.Equal(t, outPath, result.OutputPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dt_count = 4\n")
	assert.Contains(t, string(data), "! PFT_derived_types\n")
}

func TestResolveUsesGridWithoutInput(t *testing.T) {
	svc := NewService()
	result, err := svc.Resolve(t.Context(), ResolveRequest{
		SchemaPath: fixtureSchema,
		Grid:       "CESM_x3",
	})
	require.NoError(t, err)
	dt, ok := result.Settings.Get("dt_count")
	require.True(t, ok)
	assert.Equal(t, int64(2), dt.Value)
	assert.Empty(t, result.OutputPath)
}

func TestResolveExtraKeysOverrideGrid(t *testing.T) {
	svc := NewService()
	result, err := svc.Resolve(t.Context(), ResolveRequest{
		SchemaPath: fixtureSchema,
		Grid:       "CESM_x1",
		Keys:       []string{"grid=CESM_x3"},
	})
	require.NoError(t, err)
	dt, _ := result.Settings.Get("dt_count")
	assert.Equal(t, int64(2), dt.Value)
}

func TestResolveWriteToYAML(t *testing.T) {
	svc := NewService()
	req := ResolveRequest{SchemaPath: fixtureSchema, Format: ports.OutputFormatYAML}
	result, err := svc.Resolve(t.Context(), req)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteTo(&buf, req, result))
	assert.Contains(t, buf.String(), "dt_count: 1\n")
	assert.Contains(t, buf.String(), "autotroph_settings(2)%sname: diat\n")
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		req  ResolveRequest
		kind types.ErrorKind
	}{
		{
			name: "missing schema file",
			req:  ResolveRequest{SchemaPath: "../../fixtures/nope.yaml"},
			kind: types.ErrorKindInputFile,
		},
		{
			name: "missing input file",
			req:  ResolveRequest{SchemaPath: fixtureSchema, InputFile: "../../fixtures/nope.nml"},
			kind: types.ErrorKindInputFile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService().Resolve(t.Context(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, types.KindOf(err))
		})
	}
}

func TestResolveRequiresSchemaPath(t *testing.T) {
	_, err := NewService().Resolve(t.Context(), ResolveRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file path is required")
}

func TestResolveRejectsMalformedKey(t *testing.T) {
	_, err := NewService().Resolve(t.Context(), ResolveRequest{
		SchemaPath: fixtureSchema,
		Keys:       []string{"no-equals-sign"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name = value")
}

func TestResolveUnconsumedInput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input.nml")
	require.NoError(t, os.WriteFile(input, []byte("typo_variable = 1\n"), 0o644))

	_, err := NewService().Resolve(t.Context(), ResolveRequest{SchemaPath: fixtureSchema, InputFile: input})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindUnconsumedOverride))
	assert.Contains(t, err.Error(), "typo_variable")
}
