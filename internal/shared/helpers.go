// Package shared provides quote-aware text helpers used by the settings
// file parser and by value coercion.
package shared

import "strings"

// StripComment removes a Fortran-style '!' comment. A '!' inside single or
// double quotes is kept.
func StripComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '!':
			return line[:i]
		}
	}
	return line
}

// SplitTopLevel splits value on sep, ignoring separators inside quotes.
// Parts are trimmed.
func SplitTopLevel(value string, sep rune) []string {
	var parts []string
	var quote rune
	start := 0
	for i, r := range value {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == sep:
			parts = append(parts, strings.TrimSpace(value[start:i]))
			start = i + len(string(r))
		}
	}
	return append(parts, strings.TrimSpace(value[start:]))
}

// HasTopLevel reports whether sep occurs outside quotes.
func HasTopLevel(value string, sep rune) bool {
	return len(SplitTopLevel(value, sep)) > 1
}

// Unquote strips one layer of matching single or double quotes.
func Unquote(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) >= 2 {
		first, last := trimmed[0], trimmed[len(trimmed)-1]
		if first == last && (first == '"' || first == '\'') {
			return trimmed[1 : len(trimmed)-1]
		}
	}
	return trimmed
}

// Quote wraps value in double quotes.
func Quote(value string) string {
	return `"` + value + `"`
}
