package adapters

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marbl-settings/internal/ports"
	"marbl-settings/internal/types"
)

func sampleSettings(t *testing.T) (*types.Schema, *types.Settings) {
	t.Helper()
	schema := &types.Schema{Order: []string{"general_parms", "tracer_parms"}}
	settings := types.NewSettings()
	for _, setting := range []types.Setting{
		{Name: "ciso_on", Category: "general_parms", Datatype: types.DatatypeLogical, Value: true},
		{Name: "dt_count", Category: "general_parms", Datatype: types.DatatypeInteger, Value: int64(4)},
		{Name: "parm_Fe_bioavail", Category: "general_parms", Datatype: types.DatatypeReal, Value: types.FormatReal(0.25)},
		{Name: "tracer_restore_vars(1)", Category: "tracer_parms", Datatype: types.DatatypeString, Value: `"PO4"`},
	} {
		require.NoError(t, settings.Add(setting))
	}
	return schema, settings
}

func TestWriteSettingsText(t *testing.T) {
	schema, settings := sampleSettings(t)
	var buf bytes.Buffer
	require.NoError(t, NewSettingsWriterAdapter().WriteSettings(&buf, schema, settings, ports.OutputFormatText))

	expected := strings.Join([]string{
		"! -------------",
		"! general_parms",
		"! -------------",
		"",
		"ciso_on = .true.",
		"dt_count = 4",
		"parm_Fe_bioavail = 2.5000000000000000e-01",
		"",
		"! ------------",
		"! tracer_parms",
		"! ------------",
		"",
		`tracer_restore_vars(1) = "PO4"`,
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestWriteSettingsTextReadsBackAsInput(t *testing.T) {
	schema, settings := sampleSettings(t)
	var buf bytes.Buffer
	require.NoError(t, NewSettingsWriterAdapter().WriteSettings(&buf, schema, settings, ports.OutputFormatText))

	store, err := ParseOverrides(&buf)
	require.NoError(t, err)
	assert.Equal(t, settings.Names(), store.Remaining())
	value, _ := store.Lookup("tracer_restore_vars(1)")
	assert.Equal(t, "PO4", value)
}

func TestWriteSettingsYAML(t *testing.T) {
	schema, settings := sampleSettings(t)
	var buf bytes.Buffer
	require.NoError(t, NewSettingsWriterAdapter().WriteSettings(&buf, schema, settings, ports.OutputFormatYAML))

	expected := strings.Join([]string{
		"ciso_on: true",
		"dt_count: 4",
		"parm_Fe_bioavail: 0.25",
		"tracer_restore_vars(1): PO4",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestWriteSettingsUnknownFormat(t *testing.T) {
	schema, settings := sampleSettings(t)
	err := NewSettingsWriterAdapter().WriteSettings(&bytes.Buffer{}, schema, settings, ports.OutputFormat("json"))
	require.Error(t, err)
}
