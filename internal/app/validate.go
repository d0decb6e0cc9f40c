package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"marbl-settings/internal/core"
	"marbl-settings/internal/types"
)

func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	schema, err := s.loadSchema(ctx, req.SchemaPath, req.Strict)
	if err != nil {
		return ValidateResult{}, err
	}
	variables := 0
	for _, name := range schema.CategoryNames() {
		category, _ := schema.Category(name)
		variables += len(category.Variables)
	}
	return ValidateResult{Categories: schema.CategoryNames(), Variables: variables}, nil
}

func (s Service) Categories(ctx context.Context, req CategoriesRequest) (CategoriesResult, error) {
	schema, err := s.loadSchema(ctx, req.SchemaPath, false)
	if err != nil {
		return CategoriesResult{}, err
	}
	result := CategoriesResult{}
	for _, name := range schema.CategoryNames() {
		category, _ := schema.Category(name)
		result.Categories = append(result.Categories, CategorySummary{
			Name:      name,
			Variables: category.VariableNames(),
		})
	}
	return result, nil
}

// loadSchema reads and validates a schema; no resolution may start on a
// schema that failed validation.
func (s Service) loadSchema(ctx context.Context, path string, strict bool) (*types.Schema, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema file path is required")
	}
	schema, err := s.SchemaSource.LoadSchema(path)
	if err != nil {
		return nil, err
	}
	if err := core.NewSchemaValidator(strict).ValidateSchema(ctx, schema); err != nil {
		return nil, err
	}
	return schema, nil
}
