package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"marbl-settings/internal/core"
	"marbl-settings/internal/types"
)

// GridKey is the context name under which the grid is provided.
const GridKey = "grid"

func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	ctx = log.Logger.WithContext(ctx)
	schema, err := s.loadSchema(ctx, req.SchemaPath, req.Strict)
	if err != nil {
		return ResolveResult{}, err
	}
	overrides, err := s.OverrideSource.LoadOverrides(req.InputFile)
	if err != nil {
		return ResolveResult{}, err
	}
	scope, err := buildScope(req.Grid, req.Keys)
	if err != nil {
		return ResolveResult{}, err
	}

	resolution, err := core.NewEngine(schema).Resolve(ctx, scope, overrides)
	if err != nil {
		return ResolveResult{}, err
	}
	log.Ctx(ctx).Info().
		Int("settings", resolution.Settings.Len()).
		Int("tracers", resolution.TracerCount).
		Msg("settings resolved")

	result := ResolveResult{
		Schema:      schema,
		Settings:    resolution.Settings,
		TracerCount: resolution.TracerCount,
		OutputPath:  strings.TrimSpace(req.OutputPath),
	}
	if result.OutputPath == "" {
		return result, nil
	}
	if err := s.writeOutput(result.OutputPath, schema, resolution.Settings, req); err != nil {
		return ResolveResult{}, err
	}
	return result, nil
}

// WriteTo renders a resolved set to w using the request's format.
func (s Service) WriteTo(w io.Writer, req ResolveRequest, result ResolveResult) error {
	return s.SettingsWriter.WriteSettings(w, result.Schema, result.Settings, req.Format)
}

func (s Service) writeOutput(path string, schema *types.Schema, settings *types.Settings, req ResolveRequest) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create output directory").
				WithCause(err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output file: " + path).
			WithCause(err)
	}
	defer file.Close()
	return s.SettingsWriter.WriteSettings(file, schema, settings, req.Format)
}

// buildScope turns the grid and extra "name = value" keys into the initial
// provided keys. Extra keys come after the grid and so take precedence.
func buildScope(grid string, keys []string) (types.Scope, error) {
	var provided []string
	if grid = strings.TrimSpace(grid); grid != "" {
		provided = append(provided, types.ProvidedKey(GridKey, grid))
	}
	for _, key := range keys {
		name, value, ok := types.SplitProvidedKey(key)
		if !ok {
			return types.Scope{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("provided key must be of the form 'name = value': " + key)
		}
		provided = append(provided, types.ProvidedKey(name, value))
	}
	return types.NewScope(provided...), nil
}
