package types

import (
	"sort"
	"strings"
)

// Datatype is the declared type of a leaf variable.
type Datatype string

const (
	DatatypeString  Datatype = "string"
	DatatypeInteger Datatype = "integer"
	DatatypeLogical Datatype = "logical"
	DatatypeReal    Datatype = "real"
)

func (d Datatype) Valid() bool {
	switch d {
	case DatatypeString, DatatypeInteger, DatatypeLogical, DatatypeReal:
		return true
	default:
		return false
	}
}

// VariableKind is the shape of a schema entry after loading. The loader
// decides it once so the engine never inspects raw YAML again.
type VariableKind int

const (
	KindScalar VariableKind = iota
	KindArray
	KindStruct
)

func (k VariableKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// DefaultKey is the mandatory fallback key of a conditional default.
const DefaultKey = "default"

// CountSuffix marks derived-type fields that are resolved before their
// siblings because other fields size their arrays from them.
const CountSuffix = "_cnt"

// DefaultEntry is one condition-key/value row of a conditional default.
type DefaultEntry struct {
	Key   string
	Value any
}

// DefaultRule holds either a literal default or a table of conditional
// defaults. For a conditional rule, Value is the "default" fallback and is
// only meaningful when HasFallback is set.
type DefaultRule struct {
	Conditional bool
	Value       any
	HasFallback bool
	Entries     []DefaultEntry
}

func LiteralDefault(value any) DefaultRule {
	return DefaultRule{Value: value, HasFallback: true}
}

// ConditionalDefault builds a conditional rule; an entry keyed "default"
// becomes the fallback.
func ConditionalDefault(entries ...DefaultEntry) DefaultRule {
	rule := DefaultRule{Conditional: true}
	for _, entry := range entries {
		if entry.Key == DefaultKey {
			rule.Value = entry.Value
			rule.HasFallback = true
			continue
		}
		rule.Entries = append(rule.Entries, entry)
	}
	return rule
}

// SizeKind selects which field of a SizeSpec is meaningful.
type SizeKind int

const (
	SizeLiteral SizeKind = iota
	SizeReference
	SizeConditional
)

// Increment adds Delta to a dimension when Condition ("name = value")
// holds against already-resolved settings.
type Increment struct {
	Condition string
	Delta     int
}

// SizeSpec describes one array dimension.
type SizeSpec struct {
	Kind       SizeKind
	Value      int
	Ref        string
	Increments []Increment
}

func LiteralSize(n int) SizeSpec {
	return SizeSpec{Kind: SizeLiteral, Value: n}
}

func ReferenceSize(name string) SizeSpec {
	return SizeSpec{Kind: SizeReference, Ref: name}
}

func ConditionalSize(base int, increments ...Increment) SizeSpec {
	return SizeSpec{Kind: SizeConditional, Value: base, Increments: increments}
}

// References lists the variable names this dimension depends on.
func (s SizeSpec) References() []string {
	var refs []string
	if s.Kind == SizeReference {
		refs = append(refs, s.Ref)
	}
	for _, inc := range s.Increments {
		if name, _, ok := SplitProvidedKey(inc.Condition); ok {
			refs = append(refs, name)
		}
	}
	return refs
}

// Shape is the list of dimensions of an array; its length is the rank.
type Shape []SizeSpec

// TagSet lists per-element tags of a derived-type array that apply when
// Key is among the provided keys.
type TagSet struct {
	Key  string
	Tags []string
}

// Variable is one loaded schema descriptor. Scalars and arrays carry a
// Datatype and Default; structs carry Fields instead.
type Variable struct {
	Name        string
	Kind        VariableKind
	Longname    string
	Subcategory string
	Units       string
	Datatype    Datatype
	Default     DefaultRule
	Shape       Shape
	Fields      []*Variable
	ElementTags []TagSet
	Line        int
}

func (v *Variable) IsArray() bool {
	return len(v.Shape) > 0
}

// Field returns the named field of a struct variable.
func (v *Variable) Field(name string) (*Variable, bool) {
	for _, field := range v.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return nil, false
}

// OrderedFields returns struct fields with count fields first, each group
// sorted case-insensitively.
func (v *Variable) OrderedFields() []*Variable {
	var counts, rest []*Variable
	for _, field := range v.Fields {
		if strings.HasSuffix(field.Name, CountSuffix) {
			counts = append(counts, field)
			continue
		}
		rest = append(rest, field)
	}
	sortVariables(counts)
	sortVariables(rest)
	return append(counts, rest...)
}

// Category is a named group of variables in declaration order.
type Category struct {
	Name      string
	Variables []*Variable
}

func (c *Category) Variable(name string) (*Variable, bool) {
	for _, variable := range c.Variables {
		if variable.Name == name {
			return variable, true
		}
	}
	return nil, false
}

// VariableNames returns names sorted case-insensitively; ties keep
// declaration order.
func (c *Category) VariableNames() []string {
	ordered := c.OrderedVariables()
	names := make([]string, 0, len(ordered))
	for _, variable := range ordered {
		names = append(names, variable.Name)
	}
	return names
}

func (c *Category) OrderedVariables() []*Variable {
	ordered := append([]*Variable(nil), c.Variables...)
	sortVariables(ordered)
	return ordered
}

// Schema is the validated, read-only parameter schema. It is safe to share
// between concurrent resolution runs.
type Schema struct {
	Source           string
	Order            []string
	Categories       map[string]*Category
	TracerCount      *SizeSpec
	ContextVariables []string
}

// CategoryNames returns a copy of the declared category order.
func (s *Schema) CategoryNames() []string {
	return append([]string(nil), s.Order...)
}

func (s *Schema) Category(name string) (*Category, bool) {
	category, ok := s.Categories[name]
	return category, ok
}

func sortVariables(vars []*Variable) {
	sort.SliceStable(vars, func(i, j int) bool {
		return strings.ToLower(vars[i].Name) < strings.ToLower(vars[j].Name)
	})
}
