package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marbl-settings/internal/types"
)

func TestParseOverrides(t *testing.T) {
	input := strings.Join([]string{
		"! leading comment",
		"",
		"dt_count = 4   ! trailing comment",
		"PFT_defaults = 'user-specified'",
		`tracer_restore_vars = 'PO4', "NO3", SiO3`,
		"ciso_on=.true.",
		`label = "a, b ! not a comment"`,
	}, "\n")

	store, err := ParseOverrides(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"dt_count",
		"PFT_defaults",
		"tracer_restore_vars(1)",
		"tracer_restore_vars(2)",
		"tracer_restore_vars(3)",
		"ciso_on",
		"label",
	}, store.Remaining())

	expected := map[string]string{
		"dt_count":               "4",
		"PFT_defaults":           "user-specified",
		"tracer_restore_vars(1)": "PO4",
		"tracer_restore_vars(2)": "NO3",
		"tracer_restore_vars(3)": "SiO3",
		"ciso_on":                ".true.",
		"label":                  "a, b ! not a comment",
	}
	for name, want := range expected {
		got, ok := store.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestParseOverridesRejectsMalformedLine(t *testing.T) {
	_, err := ParseOverrides(strings.NewReader("dt_count = 4\njust some words\n"))
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindInputFile))
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadOverridesEmptyPath(t *testing.T) {
	store, err := NewOverrideFileAdapter().LoadOverrides("")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestLoadOverridesMissingFile(t *testing.T) {
	_, err := NewOverrideFileAdapter().LoadOverrides(filepath.Join(t.TempDir(), "missing.nml"))
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrorKindInputFile))
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_nl_marbl")
	require.NoError(t, os.WriteFile(path, []byte("foo = 1, 2, 3\n"), 0o644))

	store, err := NewOverrideFileAdapter().LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo(1)", "foo(2)", "foo(3)"}, store.Remaining())
}
