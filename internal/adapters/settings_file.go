package adapters

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"marbl-settings/internal/ports"
	"marbl-settings/internal/shared"
	"marbl-settings/internal/types"
)

// SettingsWriterAdapter renders resolved settings either as a settings
// file grouped by category (readable back as an input file) or as YAML.
type SettingsWriterAdapter struct{}

func NewSettingsWriterAdapter() SettingsWriterAdapter {
	return SettingsWriterAdapter{}
}

func (a SettingsWriterAdapter) WriteSettings(w io.Writer, schema *types.Schema, settings *types.Settings, format ports.OutputFormat) error {
	switch format {
	case ports.OutputFormatText, "":
		return writeText(w, schema, settings)
	case ports.OutputFormatYAML:
		return writeYAML(w, settings)
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format: %s", format))
	}
}

func writeText(w io.Writer, schema *types.Schema, settings *types.Settings) error {
	byCategory := make(map[string][]types.Setting)
	for _, setting := range settings.Entries() {
		byCategory[setting.Category] = append(byCategory[setting.Category], setting)
	}
	out := bufio.NewWriter(w)
	for i, category := range schema.CategoryNames() {
		if i > 0 {
			fmt.Fprintln(out)
		}
		bars := strings.Repeat("-", len(category))
		fmt.Fprintf(out, "! %s\n! %s\n! %s\n\n", bars, category, bars)
		for _, setting := range byCategory[category] {
			fmt.Fprintf(out, "%s = %s\n", setting.Name, types.FormatValue(setting.Value))
		}
	}
	if err := out.Flush(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write settings").
			WithCause(err)
	}
	return nil
}

func writeYAML(w io.Writer, settings *types.Settings) error {
	values := orderedmap.New[string, any]()
	for _, setting := range settings.Entries() {
		values.Set(setting.Name, yamlValue(setting))
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(values); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode settings yaml").
			WithCause(err)
	}
	return encoder.Close()
}

func yamlValue(setting types.Setting) any {
	text, ok := setting.Value.(string)
	if !ok {
		return setting.Value
	}
	switch setting.Datatype {
	case types.DatatypeString:
		return shared.Unquote(text)
	case types.DatatypeReal:
		if value, err := strconv.ParseFloat(text, 64); err == nil {
			return value
		}
	}
	return text
}

var _ ports.SettingsWriterPort = SettingsWriterAdapter{}
