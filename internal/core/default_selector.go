package core

import (
	"marbl-settings/internal/types"
)

// Rule pairs a provided key with the value it selects.
type Rule[T any] struct {
	Key   string
	Value T
}

// PriorityList selects among keyed rules using the provided keys of a
// scope. Provided keys are scanned in order and the last one that names a
// rule wins; the order of the rules themselves is irrelevant.
type PriorityList[T any] struct {
	rules       map[string]T
	fallback    T
	hasFallback bool
}

func NewPriorityList[T any](rules ...Rule[T]) PriorityList[T] {
	list := PriorityList[T]{rules: make(map[string]T, len(rules))}
	for _, rule := range rules {
		list.rules[normalizeKey(rule.Key)] = rule.Value
	}
	return list
}

// normalizeKey respaces "name=value" as "name = value" so schema keys match
// provided keys regardless of spacing.
func normalizeKey(key string) string {
	if name, value, ok := types.SplitProvidedKey(key); ok {
		return types.ProvidedKey(name, value)
	}
	return key
}

// WithFallback sets the value used when no provided key matches.
func (p PriorityList[T]) WithFallback(value T) PriorityList[T] {
	p.fallback = value
	p.hasFallback = true
	return p
}

// Match returns the value of the last matching provided key.
func (p PriorityList[T]) Match(scope types.Scope) (T, string, bool) {
	var (
		value   T
		matched string
		found   bool
	)
	for _, key := range scope.Keys() {
		if candidate, ok := p.rules[normalizeKey(key)]; ok {
			value, matched, found = candidate, key, true
		}
	}
	return value, matched, found
}

// Select returns the matching value, or the fallback. ok is false only when
// nothing matched and no fallback was set.
func (p PriorityList[T]) Select(scope types.Scope) (T, bool) {
	if value, _, ok := p.Match(scope); ok {
		return value, true
	}
	return p.fallback, p.hasFallback
}

// SelectDefault picks the raw default of a variable for the given scope.
func SelectDefault(name string, rule types.DefaultRule, scope types.Scope) (any, error) {
	if !rule.Conditional {
		return rule.Value, nil
	}
	if !rule.HasFallback {
		return nil, types.SchemaErrorf("variable %s does not have %q key in default_value", name, types.DefaultKey)
	}
	rules := make([]Rule[any], 0, len(rule.Entries))
	for _, entry := range rule.Entries {
		rules = append(rules, Rule[any]{Key: entry.Key, Value: entry.Value})
	}
	value, _ := NewPriorityList(rules...).WithFallback(rule.Value).Select(scope)
	return value, nil
}

// SelectElementTags returns the per-element tags that apply in scope.
func SelectElementTags(sets []types.TagSet, scope types.Scope) ([]string, bool) {
	if len(sets) == 0 {
		return nil, false
	}
	rules := make([]Rule[[]string], 0, len(sets))
	for _, set := range sets {
		rules = append(rules, Rule[[]string]{Key: set.Key, Value: set.Tags})
	}
	tags, _, ok := NewPriorityList(rules...).Match(scope)
	return tags, ok
}
