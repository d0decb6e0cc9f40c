package core

import (
	"fmt"

	"marbl-settings/internal/types"
)

// Lookup gives read access to settings resolved so far.
type Lookup interface {
	Get(name string) (types.Setting, bool)
}

// elementLookup resolves names relative to one derived-type element first
// ("elem(2)%count"), then falls back to its parent lookup.
type elementLookup struct {
	parent Lookup
	prefix string
}

func (l elementLookup) Get(name string) (types.Setting, bool) {
	if setting, ok := l.parent.Get(l.prefix + "%" + name); ok {
		return setting, true
	}
	return l.parent.Get(name)
}

// ResolveDimension computes the length of one array axis: the base size
// (literal or the value of a resolved integer variable) plus every
// increment whose condition holds.
func ResolveDimension(variable string, spec types.SizeSpec, resolved Lookup) (int, error) {
	size := spec.Value
	if spec.Kind == types.SizeReference {
		setting, ok := resolved.Get(spec.Ref)
		if !ok {
			return 0, types.SchemaErrorf("array size of %s references %s, which is not resolved yet", variable, spec.Ref)
		}
		n, ok := integerValue(setting.Value)
		if !ok {
			return 0, types.SchemaErrorf("array size of %s references %s, which is not an integer (%v)", variable, spec.Ref, setting.Value)
		}
		size = n
	}
	for _, inc := range spec.Increments {
		holds, err := ConditionHolds(variable, inc.Condition, resolved)
		if err != nil {
			return 0, err
		}
		if holds {
			size += inc.Delta
		}
	}
	if size < 0 {
		return 0, types.SchemaErrorf("array size of %s is negative (%d)", variable, size)
	}
	return size, nil
}

// ResolveShape expands a shape into index labels. For two dimensions the
// first axis varies fastest: (1,1), (2,1), (1,2), ...
func ResolveShape(variable string, shape types.Shape, resolved Lookup) ([]string, error) {
	switch len(shape) {
	case 0:
		return nil, types.SchemaErrorf("variable %s is not an array", variable)
	case 1, 2:
	default:
		return nil, types.UnsupportedShapeError(variable, len(shape))
	}
	dims := make([]int, len(shape))
	for i, spec := range shape {
		n, err := ResolveDimension(variable, spec, resolved)
		if err != nil {
			return nil, err
		}
		dims[i] = n
	}
	if len(dims) == 1 {
		labels := make([]string, 0, dims[0])
		for i := 1; i <= dims[0]; i++ {
			labels = append(labels, fmt.Sprintf("(%d)", i))
		}
		return labels, nil
	}
	labels := make([]string, 0, dims[0]*dims[1])
	for j := 1; j <= dims[1]; j++ {
		for i := 1; i <= dims[0]; i++ {
			labels = append(labels, fmt.Sprintf("(%d,%d)", i, j))
		}
	}
	return labels, nil
}

// ConditionHolds evaluates "name = value" against a resolved variable. The
// value is coerced with the variable's datatype so ".true." matches a
// logical and "1.0" matches a real written as "1.".
func ConditionHolds(variable string, condition string, resolved Lookup) (bool, error) {
	name, text, ok := types.SplitProvidedKey(condition)
	if !ok {
		return false, types.SchemaErrorf("variable %s: condition %q is not of the form 'name = value'", variable, condition)
	}
	setting, ok := resolved.Get(name)
	if !ok {
		return false, types.SchemaErrorf("variable %s: condition %q references %s, which is not resolved yet", variable, condition, name)
	}
	expected, err := CoerceValue(name, setting.Datatype, text)
	if err != nil {
		return false, nil
	}
	return expected == setting.Value, nil
}

// DerivedCount evaluates a schema-level count (base plus increments) after
// resolution has finished.
func DerivedCount(name string, spec *types.SizeSpec, resolved Lookup) (int, error) {
	if spec == nil {
		return 0, nil
	}
	return ResolveDimension(name, *spec, resolved)
}

func integerValue(value any) (int, bool) {
	switch v := value.(type) {
	case int64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
