package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/rs/zerolog/log"

	"marbl-settings/internal/types"
)

// SchemaValidator checks a loaded schema before any resolution starts. In
// strict mode missing subcategory/units are errors instead of warnings.
type SchemaValidator struct {
	Strict bool
}

func NewSchemaValidator(strict bool) SchemaValidator {
	return SchemaValidator{Strict: strict}
}

func (v SchemaValidator) ValidateSchema(ctx context.Context, schema *types.Schema) error {
	if schema == nil {
		return types.SchemaError("schema is empty")
	}
	if err := validateOrder(schema); err != nil {
		return err
	}
	for _, categoryName := range schema.Order {
		category := schema.Categories[categoryName]
		for _, variable := range category.Variables {
			if err := v.validateVariable(ctx, variable.Name, variable); err != nil {
				return err
			}
		}
	}
	if err := validateDependencies(schema); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("schema", schema.Source).Int("categories", len(schema.Order)).Msg("schema validated")
	return nil
}

func validateOrder(schema *types.Schema) error {
	if len(schema.Order) == 0 {
		return types.SchemaError("can not find _order key")
	}
	seen := make(map[string]struct{}, len(schema.Order))
	for _, name := range schema.Order {
		if _, ok := schema.Categories[name]; !ok {
			return types.SchemaErrorf("can not find %s category listed in _order", name)
		}
		if _, dup := seen[name]; dup {
			return types.SchemaErrorf("%s appears in _order multiple times", name)
		}
		seen[name] = struct{}{}
	}
	for name := range schema.Categories {
		if _, ok := seen[name]; !ok {
			return types.SchemaErrorf("%s is not listed in _order and would not be processed", name)
		}
	}
	return nil
}

func (v SchemaValidator) validateVariable(ctx context.Context, path string, variable *types.Variable) error {
	if strings.TrimSpace(variable.Name) == "" {
		return types.SchemaErrorf("%s: variable with empty name", path)
	}
	if len(variable.Shape) > 2 {
		return types.UnsupportedShapeError(path, len(variable.Shape))
	}
	if variable.Kind == types.KindStruct {
		if len(variable.Fields) == 0 {
			return types.SchemaErrorf("derived type %s has no fields", path)
		}
		for _, field := range variable.Fields {
			if err := v.validateVariable(ctx, path+"%"+field.Name, field); err != nil {
				return err
			}
		}
		return nil
	}
	if !variable.Datatype.Valid() {
		return types.SchemaErrorf("%s has invalid datatype %q", path, variable.Datatype)
	}
	if strings.TrimSpace(variable.Longname) == "" {
		return types.SchemaErrorf("%s is not a well-defined variable: missing longname", path)
	}
	if variable.Default.Conditional && !variable.Default.HasFallback {
		return types.SchemaErrorf("%s does not have %q key in default_value", path, types.DefaultKey)
	}
	var missing []string
	if strings.TrimSpace(variable.Subcategory) == "" {
		missing = append(missing, "subcategory")
	}
	if strings.TrimSpace(variable.Units) == "" {
		missing = append(missing, "units")
	}
	if len(missing) > 0 {
		if v.Strict {
			return types.SchemaErrorf("%s is not a well-defined variable: missing %s", path, strings.Join(missing, ", "))
		}
		log.Ctx(ctx).Warn().Str("variable", path).Strs("missing", missing).Msg("variable descriptor incomplete")
	}
	return nil
}

// validateDependencies checks that every array size or increment condition
// refers to a variable resolved earlier in category/variable order, and
// that the references do not form a cycle.
func validateDependencies(schema *types.Schema) error {
	position := make(map[string]int)
	var ordered []*types.Variable
	for _, categoryName := range schema.Order {
		for _, variable := range schema.Categories[categoryName].OrderedVariables() {
			if _, dup := position[variable.Name]; !dup {
				position[variable.Name] = len(ordered)
			}
			ordered = append(ordered, variable)
		}
	}

	deps := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles())
	addEdge := func(from, to string) error {
		for _, vertex := range []string{from, to} {
			if err := deps.AddVertex(vertex); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
				return err
			}
		}
		err := deps.AddEdge(from, to)
		switch {
		case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			return nil
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return types.SchemaErrorf("array sizes of %s and %s depend on each other", from, to)
		default:
			return err
		}
	}

	for index, variable := range ordered {
		check := func(path string, ref string, siblings map[string]int, fieldIndex int) error {
			if fieldPos, ok := siblings[ref]; ok {
				if fieldPos >= fieldIndex {
					return types.SchemaErrorf("array size of %s references %s, which is resolved later in the same derived type", path, ref)
				}
				return addEdge(variable.Name+"%"+ref, path)
			}
			refPos, ok := position[ref]
			if !ok {
				return types.SchemaErrorf("array size of %s references unknown variable %s", path, ref)
			}
			if err := addEdge(ref, variable.Name); err != nil {
				return err
			}
			if refPos >= index {
				return types.SchemaErrorf("array size of %s references %s, which is resolved later; reorder _order or rename variables", path, ref)
			}
			return nil
		}
		if err := walkShapes(variable.Name, variable, nil, -1, check); err != nil {
			return err
		}
	}

	if schema.TracerCount != nil {
		for _, ref := range schema.TracerCount.References() {
			if _, ok := position[ref]; !ok {
				return types.SchemaErrorf("%s references unknown variable %s", TracerCountName, ref)
			}
		}
	}
	return nil
}

type shapeCheck func(path string, ref string, siblings map[string]int, fieldIndex int) error

// walkShapes visits every size reference of a variable and, for structs,
// of its fields. siblings maps field names of the enclosing struct to their
// resolution position.
func walkShapes(path string, variable *types.Variable, siblings map[string]int, fieldIndex int, check shapeCheck) error {
	for _, spec := range variable.Shape {
		for _, ref := range spec.References() {
			if err := check(path, ref, siblings, fieldIndex); err != nil {
				return err
			}
		}
	}
	if variable.Kind != types.KindStruct {
		return nil
	}
	fields := variable.OrderedFields()
	fieldPos := make(map[string]int, len(fields))
	for i, field := range fields {
		fieldPos[field.Name] = i
	}
	for i, field := range fields {
		if err := walkShapes(fmt.Sprintf("%s%%%s", path, field.Name), field, fieldPos, i, check); err != nil {
			return err
		}
	}
	return nil
}
