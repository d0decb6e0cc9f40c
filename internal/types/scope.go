package types

import "strings"

// Scope is the ordered list of provided keys ("grid = CESM_x1") active while
// a variable is resolved. Later keys take precedence. A Scope is never
// mutated; With returns an extended copy, so nested expansion cannot leak
// keys into its caller.
type Scope struct {
	keys []string
}

func NewScope(keys ...string) Scope {
	return Scope{keys: append([]string(nil), keys...)}
}

func (s Scope) With(key string) Scope {
	keys := make([]string, len(s.keys), len(s.keys)+1)
	copy(keys, s.keys)
	return Scope{keys: append(keys, key)}
}

func (s Scope) Keys() []string {
	return append([]string(nil), s.keys...)
}

func (s Scope) Len() int {
	return len(s.keys)
}

// ProvidedKey renders a context entry the way schema files spell it.
func ProvidedKey(name string, value string) string {
	return name + " = " + value
}

// SplitProvidedKey splits "name = value" on the first '='.
func SplitProvidedKey(key string) (string, string, bool) {
	name, value, ok := strings.Cut(key, "=")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}
