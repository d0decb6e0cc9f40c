package app

import (
	"marbl-settings/internal/ports"
	"marbl-settings/internal/types"
)

type ValidateRequest struct {
	SchemaPath string
	Strict     bool
}

type ValidateResult struct {
	Categories []string
	Variables  int
}

type ResolveRequest struct {
	SchemaPath string
	InputFile  string
	Grid       string
	Keys       []string
	OutputPath string
	Format     ports.OutputFormat
	Strict     bool
}

type ResolveResult struct {
	Schema      *types.Schema
	Settings    *types.Settings
	TracerCount int
	OutputPath  string
}

type CategoriesRequest struct {
	SchemaPath string
}

type CategorySummary struct {
	Name      string
	Variables []string
}

type CategoriesResult struct {
	Categories []CategorySummary
}
