package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"marbl-settings/internal/adapters"
	"marbl-settings/internal/core"
	"marbl-settings/internal/ports"
	"marbl-settings/internal/types"
)

// TestGoldenResolve resolves the sample fixtures and compares the settings
// file against the committed golden copy. To update it after an intentional
// change, delete testdata/golden/settings_sample.out and re-run the test.
func TestGoldenResolve(t *testing.T) {
	root := repoRoot(t)
	schemaPath := filepath.Join(root, "fixtures", "settings_schema.yaml")
	inputPath := filepath.Join(root, "fixtures", "input_sample.nml")
	goldenPath := filepath.Join("testdata", "golden", "settings_sample.out")

	schema, err := adapters.NewSchemaFileAdapter().LoadSchema(schemaPath)
	require.NoError(t, err)
	require.NoError(t, core.NewSchemaValidator(true).ValidateSchema(t.Context(), schema))
	overrides, err := adapters.NewOverrideFileAdapter().LoadOverrides(inputPath)
	require.NoError(t, err)

	result, err := core.NewEngine(schema).Resolve(t.Context(), types.NewScope("grid = CESM_x3"), overrides)
	require.NoError(t, err)
	require.Equal(t, 46, result.TracerCount)

	outPath := filepath.Join(t.TempDir(), "settings.out")
	file, err := os.Create(outPath)
	require.NoError(t, err)
	require.NoError(t, adapters.NewSettingsWriterAdapter().WriteSettings(file, schema, result.Settings, ports.OutputFormatText))
	require.NoError(t, file.Close())

	actual, err := os.ReadFile(outPath)
	require.NoError(t, err)

	if _, statErr := os.Stat(goldenPath); os.IsNotExist(statErr) {
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o755))
		require.NoError(t, os.WriteFile(goldenPath, actual, 0o644))
		t.Logf("golden file written: %s (commit it)", goldenPath)
		return
	}
	expected, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	if diff := cmp.Diff(string(expected), string(actual)); diff != "" {
		t.Fatalf("settings output mismatch (-golden +actual):\n%s", diff)
	}
}

// TestResolvedOutputIsValidInput feeds a written settings file back in as
// the input file and expects an identical resolution.
func TestResolvedOutputIsValidInput(t *testing.T) {
	root := repoRoot(t)
	schema, err := adapters.NewSchemaFileAdapter().LoadSchema(filepath.Join(root, "fixtures", "settings_schema.yaml"))
	require.NoError(t, err)
	engine := core.NewEngine(schema)

	overrides, err := adapters.NewOverrideFileAdapter().LoadOverrides(filepath.Join(root, "fixtures", "input_sample.nml"))
	require.NoError(t, err)
	first, err := engine.Resolve(t.Context(), types.NewScope("grid = CESM_x3"), overrides)
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "settings.out")
	file, err := os.Create(outPath)
	require.NoError(t, err)
	require.NoError(t, adapters.NewSettingsWriterAdapter().WriteSettings(file, schema, first.Settings, ports.OutputFormatText))
	require.NoError(t, file.Close())

	reread, err := adapters.NewOverrideFileAdapter().LoadOverrides(outPath)
	require.NoError(t, err)
	second, err := engine.Resolve(t.Context(), types.NewScope("grid = CESM_x1"), reread)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Settings.Entries(), second.Settings.Entries()); diff != "" {
		t.Fatalf("round trip mismatch (-first +second):\n%s", diff)
	}
	require.Equal(t, first.TracerCount, second.TracerCount)
}

func repoRoot(t *testing.T) string {
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}
