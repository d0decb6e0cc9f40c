package ports

import (
	"io"

	"marbl-settings/internal/types"
)

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatYAML OutputFormat = "yaml"
)

// SettingsWriterPort renders a Resolved Parameter Set.
type SettingsWriterPort interface {
	WriteSettings(w io.Writer, schema *types.Schema, settings *types.Settings, format OutputFormat) error
}
