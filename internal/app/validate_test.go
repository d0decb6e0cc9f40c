package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marbl-settings/internal/types"
)

func TestValidateFixture(t *testing.T) {
	result, err := NewService().Validate(t.Context(), ValidateRequest{SchemaPath: fixtureSchema, Strict: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"general_parms", "PFT_derived_types", "tracer_parms"}, result.Categories)
	assert.Equal(t, 10, result.Variables)
}

func TestValidateRejectsBadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("general:\n  a:\n    longname: A\n    datatype: integer\n    default_value: 1\n"), 0o644))

	_, err := NewService().Validate(t.Context(), ValidateRequest{SchemaPath: path})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindSchema))
}

func TestCategoriesListsVariablesInResolutionOrder(t *testing.T) {
	result, err := NewService().Categories(t.Context(), CategoriesRequest{SchemaPath: fixtureSchema})
	require.NoError(t, err)
	require.Len(t, result.Categories, 3)
	assert.Equal(t, "general_parms", result.Categories[0].Name)
	assert.Equal(t, []string{
		"autotroph_cnt",
		"caco3_bury_thres_depth",
		"ciso_on",
		"dt_count",
		"parm_Fe_bioavail",
		"PFT_defaults",
		"zooplankton_cnt",
	}, result.Categories[0].Variables)

	again, err := NewService().Categories(t.Context(), CategoriesRequest{SchemaPath: fixtureSchema})
	require.NoError(t, err)
	assert.Equal(t, result, again)
}
