package adapters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"marbl-settings/internal/ports"
	"marbl-settings/internal/shared"
	"marbl-settings/internal/types"
)

// OverrideFileAdapter reads user settings files: one "name = value" per
// line, '!' comments, comma-separated values expanding to name(1), name(2)...
type OverrideFileAdapter struct{}

func NewOverrideFileAdapter() OverrideFileAdapter {
	return OverrideFileAdapter{}
}

func (a OverrideFileAdapter) LoadOverrides(path string) (*types.OverrideStore, error) {
	if strings.TrimSpace(path) == "" {
		return types.NewOverrideStore(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, types.InputFileError("failed to open input file: "+path, err)
	}
	defer file.Close()

	store, err := ParseOverrides(file)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("path", path).
		Int("entries", store.Len()).
		Msg("input file parsed")
	return store, nil
}

// ParseOverrides builds an OverrideStore from settings-file text.
func ParseOverrides(r io.Reader) (*types.OverrideStore, error) {
	store := types.NewOverrideStore()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(shared.StripComment(scanner.Text()))
		if line == "" {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, types.InputFileError(fmt.Sprintf("line %d: expected 'name = value', got %q", lineNo, line), nil)
		}
		value = strings.TrimSpace(value)
		if shared.HasTopLevel(value, ',') {
			for i, item := range shared.SplitTopLevel(value, ',') {
				store.Set(fmt.Sprintf("%s(%d)", name, i+1), shared.Unquote(item))
			}
			continue
		}
		store.Set(name, shared.Unquote(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, types.InputFileError("failed to read input file", err)
	}
	return store, nil
}

var _ ports.OverrideSourcePort = OverrideFileAdapter{}
