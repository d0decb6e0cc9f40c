package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"marbl-settings/internal/shared"
	"marbl-settings/internal/types"
)

// DefaultContextVariables are used when a schema does not list its own
// _context_variables.
var DefaultContextVariables = []string{"PFT_defaults"}

// TracerCountName labels the schema-level derived count in errors.
const TracerCountName = "_tracer_count"

// Engine expands a validated schema into a Resolved Parameter Set. An
// Engine holds only the read-only schema, so one Engine may serve many
// concurrent runs.
type Engine struct {
	Schema *types.Schema
}

func NewEngine(schema *types.Schema) Engine {
	return Engine{Schema: schema}
}

// Resolution is the output of one run.
type Resolution struct {
	Settings    *types.Settings
	TracerCount int
}

// run carries the state owned by a single resolution.
type run struct {
	ctx         context.Context
	schema      *types.Schema
	settings    *types.Settings
	overrides   *types.OverrideStore
	contextVars map[string]struct{}
}

// Resolve walks categories in _order and variables in case-insensitive
// order, applying overrides first and conditional defaults otherwise. The
// override store is consumed; anything left afterwards is an error.
func (e Engine) Resolve(ctx context.Context, scope types.Scope, overrides *types.OverrideStore) (Resolution, error) {
	if e.Schema == nil {
		return Resolution{}, types.SchemaError("engine has no schema")
	}
	if overrides == nil {
		overrides = types.NewOverrideStore()
	}
	r := &run{
		ctx:         ctx,
		schema:      e.Schema,
		settings:    types.NewSettings(),
		overrides:   overrides,
		contextVars: contextVariableSet(e.Schema),
	}

	for _, categoryName := range e.Schema.CategoryNames() {
		category, ok := e.Schema.Category(categoryName)
		if !ok {
			return Resolution{}, types.SchemaErrorf("can not find %s category listed in _order", categoryName)
		}
		for _, variable := range category.OrderedVariables() {
			if err := r.resolveVariable(category.Name, variable, variable.Name, scope, r.settings); err != nil {
				return Resolution{}, err
			}
			if key, ok := r.contextKey(variable); ok {
				scope = scope.With(key)
				log.Ctx(ctx).Debug().Str("key", key).Msg("provided key added")
			}
		}
		log.Ctx(ctx).Debug().Str("category", categoryName).Int("resolved", r.settings.Len()).Msg("category resolved")
	}

	if remaining := overrides.Remaining(); len(remaining) > 0 {
		return Resolution{}, types.UnconsumedOverrideError(remaining)
	}

	count, err := DerivedCount(TracerCountName, e.Schema.TracerCount, r.settings)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Settings: r.settings, TracerCount: count}, nil
}

func (r *run) resolveVariable(category string, variable *types.Variable, name string, scope types.Scope, lookup Lookup) error {
	assert.NotEmpty(r.ctx, name, "variable name must be set")
	switch variable.Kind {
	case types.KindScalar:
		return r.resolveLeaf(category, variable, name, scope, name)
	case types.KindArray:
		labels, err := ResolveShape(name, variable.Shape, lookup)
		if err != nil {
			return err
		}
		for _, label := range labels {
			candidates := []string{name + label}
			if label == "(1)" {
				candidates = append(candidates, name)
			}
			if err := r.resolveLeaf(category, variable, name+label, scope, candidates...); err != nil {
				return err
			}
		}
		return nil
	case types.KindStruct:
		return r.resolveStruct(category, variable, name, scope, lookup)
	default:
		return types.SchemaErrorf("variable %s has unknown kind %s", name, variable.Kind)
	}
}

func (r *run) resolveStruct(category string, variable *types.Variable, name string, scope types.Scope, lookup Lookup) error {
	labels := []string{""}
	if variable.IsArray() {
		var err error
		labels, err = ResolveShape(name, variable.Shape, lookup)
		if err != nil {
			return err
		}
	}
	tags, tagged := SelectElementTags(variable.ElementTags, scope)
	if tagged && len(tags) < len(labels) {
		return types.SchemaErrorf("variable %s has %d elements but only %d element tags", name, len(labels), len(tags))
	}
	fields := variable.OrderedFields()
	for n, label := range labels {
		elementScope := scope
		if tagged {
			elementScope = scope.With(ElementKey(variable.Name, tags[n]))
		}
		element := name + label
		elementLookup := elementLookup{parent: lookup, prefix: element}
		for _, field := range fields {
			if err := r.resolveVariable(category, field, element+"%"+field.Name, elementScope, elementLookup); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveLeaf stores one value under name. Override candidates are tried in
// order; the first present is consumed.
func (r *run) resolveLeaf(category string, variable *types.Variable, name string, scope types.Scope, candidates ...string) error {
	var (
		raw    any
		source = "default"
		found  bool
	)
	for _, candidate := range candidates {
		if value, ok := r.overrides.Take(candidate); ok {
			raw, found, source = value, true, "input file"
			break
		}
	}
	if !found {
		selected, err := SelectDefault(name, variable.Default, scope)
		if err != nil {
			return err
		}
		raw = selected
	}
	value, err := CoerceValue(name, variable.Datatype, raw)
	if err != nil {
		return err
	}
	if err := r.settings.Add(types.Setting{
		Name:     name,
		Category: category,
		Datatype: variable.Datatype,
		Value:    value,
	}); err != nil {
		return err
	}
	log.Ctx(r.ctx).Debug().
		Str("variable", name).
		Str("source", source).
		Str("value", types.FormatValue(value)).
		Msg("variable resolved")
	return nil
}

// contextKey returns the provided key contributed by a context variable
// once it has been resolved. String values are unquoted: "PFT_defaults = CESM2".
func (r *run) contextKey(variable *types.Variable) (string, bool) {
	if _, ok := r.contextVars[variable.Name]; !ok || variable.Kind != types.KindScalar {
		return "", false
	}
	setting, ok := r.settings.Get(variable.Name)
	if !ok {
		return "", false
	}
	value := types.FormatValue(setting.Value)
	if setting.Datatype == types.DatatypeString {
		value = shared.Unquote(value)
	}
	return types.ProvidedKey(variable.Name, value), true
}

// ElementKey is the provided key naming the element of a derived-type
// array currently being expanded, e.g. "((autotroph_settings)) = diat".
func ElementKey(variable string, tag string) string {
	return types.ProvidedKey(fmt.Sprintf("((%s))", variable), tag)
}

func contextVariableSet(schema *types.Schema) map[string]struct{} {
	names := schema.ContextVariables
	if names == nil {
		names = DefaultContextVariables
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
