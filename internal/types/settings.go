package types

import (
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Setting is one fully-qualified resolved value.
type Setting struct {
	Name     string
	Category string
	Datatype Datatype
	Value    any
}

// Settings is the Resolved Parameter Set: append-only, ordered by the
// sequence in which the engine produced each entry.
type Settings struct {
	entries *orderedmap.OrderedMap[string, Setting]
}

func NewSettings() *Settings {
	return &Settings{entries: orderedmap.New[string, Setting]()}
}

// Add appends a setting. Names are unique for the lifetime of the set.
func (s *Settings) Add(setting Setting) error {
	if _, exists := s.entries.Get(setting.Name); exists {
		return SchemaErrorf("variable %s is defined more than once", setting.Name)
	}
	s.entries.Set(setting.Name, setting)
	return nil
}

func (s *Settings) Get(name string) (Setting, bool) {
	return s.entries.Get(name)
}

func (s *Settings) Len() int {
	return s.entries.Len()
}

func (s *Settings) Names() []string {
	names := make([]string, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (s *Settings) Entries() []Setting {
	entries := make([]Setting, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, pair.Value)
	}
	return entries
}

// Values returns an ordered name -> value view, suitable for marshalling.
func (s *Settings) Values() *orderedmap.OrderedMap[string, any] {
	values := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](s.entries.Len()))
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		values.Set(pair.Key, pair.Value.Value)
	}
	return values
}

// FormatValue renders a resolved value as it appears in a settings file.
func FormatValue(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return ".true."
		}
		return ".false."
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return FormatReal(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// FormatReal uses a fixed scientific layout so equal reals always render
// identically regardless of how they were written.
func FormatReal(v float64) string {
	return strconv.FormatFloat(v, 'e', 16, 64)
}
