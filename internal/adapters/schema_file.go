package adapters

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"marbl-settings/internal/ports"
	"marbl-settings/internal/types"
)

const (
	keyOrder            = "_order"
	keyTracerCount      = "_tracer_count"
	keyContextVariables = "_context_variables"
	keyArraySize        = "_array_size"
	keyArrayIncrement   = "_array_size_increment"
	keyElementTags      = "_element_tags"
	keyIncrements       = "increments"
)

// SchemaFileAdapter loads YAML parameter schemas. Decoding goes through
// yaml.Node so category and variable declaration order survive, which the
// engine needs to break sorting ties deterministically.
type SchemaFileAdapter struct{}

func NewSchemaFileAdapter() SchemaFileAdapter {
	return SchemaFileAdapter{}
}

func (a SchemaFileAdapter) LoadSchema(path string) (*types.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.InputFileError("failed to read schema file: "+path, err)
	}
	schema, err := ParseSchema(data)
	if err != nil {
		return nil, err
	}
	schema.Source = path
	log.Debug().
		Str("path", path).
		Int("categories", len(schema.Categories)).
		Msg("schema loaded")
	return schema, nil
}

// ParseSchema decodes a schema document held in memory.
func ParseSchema(data []byte) (*types.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, types.SchemaErrorf("failed to parse schema yaml: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, types.SchemaError("schema document is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, types.SchemaErrorf("line %d: schema root must be a mapping", root.Line)
	}

	schema := &types.Schema{Categories: make(map[string]*types.Category)}
	for _, entry := range mappingEntries(root) {
		switch {
		case entry.key == keyOrder:
			order, err := decodeStringList(entry.value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", keyOrder, err)
			}
			schema.Order = order
		case entry.key == keyTracerCount:
			size, err := decodeSize(keyTracerCount, entry.value)
			if err != nil {
				return nil, err
			}
			schema.TracerCount = &size
		case entry.key == keyContextVariables:
			names, err := decodeStringList(entry.value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", keyContextVariables, err)
			}
			schema.ContextVariables = names
		case strings.HasPrefix(entry.key, "_"):
			continue
		default:
			category, err := decodeCategory(entry.key, entry.value)
			if err != nil {
				return nil, err
			}
			schema.Categories[entry.key] = category
		}
	}
	return schema, nil
}

func decodeCategory(name string, node *yaml.Node) (*types.Category, error) {
	if node.Kind != yaml.MappingNode {
		return nil, types.SchemaErrorf("line %d: category %s must be a mapping of variables", node.Line, name)
	}
	category := &types.Category{Name: name}
	for _, entry := range mappingEntries(node) {
		variable, err := decodeVariable(entry.key, entry.value)
		if err != nil {
			return nil, err
		}
		category.Variables = append(category.Variables, variable)
	}
	return category, nil
}

func decodeVariable(name string, node *yaml.Node) (*types.Variable, error) {
	if node.Kind != yaml.MappingNode {
		return nil, types.SchemaErrorf("line %d: variable %s must be a mapping", node.Line, name)
	}
	variable := &types.Variable{Name: name, Line: node.Line}
	var (
		datatype  *yaml.Node
		defaults  *yaml.Node
		arraySize *yaml.Node
		increment *yaml.Node
	)
	for _, entry := range mappingEntries(node) {
		switch entry.key {
		case "longname":
			variable.Longname = entry.value.Value
		case "subcategory":
			variable.Subcategory = entry.value.Value
		case "units":
			variable.Units = entry.value.Value
		case "datatype":
			datatype = entry.value
		case "default_value":
			defaults = entry.value
		case keyArraySize:
			arraySize = entry.value
		case keyArrayIncrement:
			increment = entry.value
		case keyElementTags:
			tags, err := decodeElementTags(name, entry.value)
			if err != nil {
				return nil, err
			}
			variable.ElementTags = tags
		}
	}

	if datatype == nil {
		return nil, types.SchemaErrorf("line %d: variable %s is missing datatype", node.Line, name)
	}
	switch datatype.Kind {
	case yaml.MappingNode:
		variable.Kind = types.KindStruct
		for _, entry := range mappingEntries(datatype) {
			if strings.HasPrefix(entry.key, "_") {
				continue
			}
			field, err := decodeVariable(entry.key, entry.value)
			if err != nil {
				return nil, fmt.Errorf("derived type %s: %w", name, err)
			}
			variable.Fields = append(variable.Fields, field)
		}
	case yaml.ScalarNode:
		variable.Datatype = types.Datatype(datatype.Value)
		if !variable.Datatype.Valid() {
			return nil, types.SchemaErrorf("line %d: variable %s has invalid datatype %q", datatype.Line, name, datatype.Value)
		}
		if defaults == nil {
			return nil, types.SchemaErrorf("line %d: variable %s is missing default_value", node.Line, name)
		}
		rule, err := decodeDefault(name, defaults)
		if err != nil {
			return nil, err
		}
		variable.Default = rule
		variable.Kind = types.KindScalar
	default:
		return nil, types.SchemaErrorf("line %d: variable %s has a datatype that is neither a name nor a mapping", datatype.Line, name)
	}

	if arraySize != nil {
		shape, err := decodeShape(name, arraySize)
		if err != nil {
			return nil, err
		}
		variable.Shape = shape
		if variable.Kind == types.KindScalar {
			variable.Kind = types.KindArray
		}
	}
	if increment != nil {
		if len(variable.Shape) != 1 {
			return nil, types.SchemaErrorf("line %d: variable %s sets %s without a one-dimensional %s", increment.Line, name, keyArrayIncrement, keyArraySize)
		}
		increments, err := decodeIncrements(name, increment)
		if err != nil {
			return nil, err
		}
		variable.Shape[0].Increments = append(variable.Shape[0].Increments, increments...)
	}
	return variable, nil
}

func decodeDefault(name string, node *yaml.Node) (types.DefaultRule, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		value, err := decodeScalar(node)
		if err != nil {
			return types.DefaultRule{}, types.SchemaErrorf("line %d: variable %s: %v", node.Line, name, err)
		}
		return types.LiteralDefault(value), nil
	case yaml.MappingNode:
		var entries []types.DefaultEntry
		for _, entry := range mappingEntries(node) {
			if entry.value.Kind != yaml.ScalarNode {
				return types.DefaultRule{}, types.SchemaErrorf("line %d: variable %s: default for %q must be a scalar", entry.value.Line, name, entry.key)
			}
			value, err := decodeScalar(entry.value)
			if err != nil {
				return types.DefaultRule{}, types.SchemaErrorf("line %d: variable %s: %v", entry.value.Line, name, err)
			}
			entries = append(entries, types.DefaultEntry{Key: entry.key, Value: value})
		}
		return types.ConditionalDefault(entries...), nil
	default:
		return types.DefaultRule{}, types.SchemaErrorf("line %d: variable %s: default_value must be a scalar or a mapping", node.Line, name)
	}
}

func decodeShape(name string, node *yaml.Node) (types.Shape, error) {
	if node.Kind != yaml.SequenceNode {
		size, err := decodeSize(name, node)
		if err != nil {
			return nil, err
		}
		return types.Shape{size}, nil
	}
	if len(node.Content) == 0 {
		return nil, types.SchemaErrorf("line %d: variable %s has an empty %s", node.Line, name, keyArraySize)
	}
	if len(node.Content) > 2 {
		return nil, types.UnsupportedShapeError(name, len(node.Content))
	}
	shape := make(types.Shape, 0, len(node.Content))
	for _, dim := range node.Content {
		size, err := decodeSize(name, dim)
		if err != nil {
			return nil, err
		}
		shape = append(shape, size)
	}
	return shape, nil
}

func decodeSize(name string, node *yaml.Node) (types.SizeSpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!int" {
			n, err := strconv.Atoi(node.Value)
			if err != nil {
				return types.SizeSpec{}, types.SchemaErrorf("line %d: variable %s: invalid array size %q", node.Line, name, node.Value)
			}
			return types.LiteralSize(n), nil
		}
		if strings.TrimSpace(node.Value) == "" {
			return types.SizeSpec{}, types.SchemaErrorf("line %d: variable %s: empty array size", node.Line, name)
		}
		return types.ReferenceSize(strings.TrimSpace(node.Value)), nil
	case yaml.MappingNode:
		size := types.SizeSpec{Kind: types.SizeConditional}
		hasDefault := false
		for _, entry := range mappingEntries(node) {
			switch entry.key {
			case types.DefaultKey:
				base, err := decodeSize(name, entry.value)
				if err != nil {
					return types.SizeSpec{}, err
				}
				if base.Kind == types.SizeReference {
					size.Kind = types.SizeReference
					size.Ref = base.Ref
				} else {
					size.Value = base.Value
				}
				hasDefault = true
			case keyIncrements:
				increments, err := decodeIncrements(name, entry.value)
				if err != nil {
					return types.SizeSpec{}, err
				}
				size.Increments = increments
			default:
				return types.SizeSpec{}, types.SchemaErrorf("line %d: variable %s: unexpected key %q in array size", entry.value.Line, name, entry.key)
			}
		}
		if !hasDefault {
			return types.SizeSpec{}, types.SchemaErrorf("line %d: variable %s: conditional array size needs a %q entry", node.Line, name, types.DefaultKey)
		}
		return size, nil
	case yaml.SequenceNode:
		return types.SizeSpec{}, types.UnsupportedShapeError(name, len(node.Content)+1)
	default:
		return types.SizeSpec{}, types.SchemaErrorf("line %d: variable %s: unsupported array size", node.Line, name)
	}
}

func decodeIncrements(name string, node *yaml.Node) ([]types.Increment, error) {
	if node.Kind != yaml.MappingNode {
		return nil, types.SchemaErrorf("line %d: variable %s: increments must be a mapping", node.Line, name)
	}
	var increments []types.Increment
	for _, entry := range mappingEntries(node) {
		if _, _, ok := types.SplitProvidedKey(entry.key); !ok {
			return nil, types.SchemaErrorf("line %d: variable %s: increment condition %q is not of the form 'name = value'", entry.value.Line, name, entry.key)
		}
		delta, err := strconv.Atoi(entry.value.Value)
		if err != nil || entry.value.Kind != yaml.ScalarNode {
			return nil, types.SchemaErrorf("line %d: variable %s: increment for %q must be an integer", entry.value.Line, name, entry.key)
		}
		increments = append(increments, types.Increment{Condition: entry.key, Delta: delta})
	}
	return increments, nil
}

func decodeElementTags(name string, node *yaml.Node) ([]types.TagSet, error) {
	if node.Kind != yaml.MappingNode {
		return nil, types.SchemaErrorf("line %d: variable %s: %s must be a mapping", node.Line, name, keyElementTags)
	}
	var sets []types.TagSet
	for _, entry := range mappingEntries(node) {
		tags, err := decodeStringList(entry.value)
		if err != nil {
			return nil, types.SchemaErrorf("line %d: variable %s: %s[%q]: %v", entry.value.Line, name, keyElementTags, entry.key, err)
		}
		sets = append(sets, types.TagSet{Key: entry.key, Tags: tags})
	}
	return sets, nil
}

func decodeScalar(node *yaml.Node) (any, error) {
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func decodeStringList(node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, types.SchemaErrorf("line %d: expected a list", node.Line)
	}
	values := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, types.SchemaErrorf("line %d: expected a list of names", item.Line)
		}
		values = append(values, item.Value)
	}
	return values, nil
}

type nodeEntry struct {
	key   string
	value *yaml.Node
}

func mappingEntries(node *yaml.Node) []nodeEntry {
	entries := make([]nodeEntry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		entries = append(entries, nodeEntry{key: node.Content[i].Value, value: node.Content[i+1]})
	}
	return entries
}

var _ ports.SchemaSourcePort = SchemaFileAdapter{}
