package types

import orderedmap "github.com/wk8/go-ordered-map/v2"

// OverrideStore holds raw user settings keyed by variable name ("foo",
// "foo(2)", "bar(1)%baz"). Entries are taken out as they are applied; what
// is left after a run was never matched by any variable.
type OverrideStore struct {
	entries *orderedmap.OrderedMap[string, string]
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{entries: orderedmap.New[string, string]()}
}

// Set records a raw value; a repeated name keeps its first position and
// takes the last value.
func (s *OverrideStore) Set(name string, value string) {
	s.entries.Set(name, value)
}

func (s *OverrideStore) Lookup(name string) (string, bool) {
	return s.entries.Get(name)
}

// Take returns and removes the value for name.
func (s *OverrideStore) Take(name string) (string, bool) {
	return s.entries.Delete(name)
}

func (s *OverrideStore) Len() int {
	return s.entries.Len()
}

// Remaining lists unconsumed names in file order.
func (s *OverrideStore) Remaining() []string {
	names := make([]string, 0, s.entries.Len())
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Clone returns an independent copy, so one parsed file can seed several
// runs.
func (s *OverrideStore) Clone() *OverrideStore {
	clone := NewOverrideStore()
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		clone.entries.Set(pair.Key, pair.Value)
	}
	return clone
}
