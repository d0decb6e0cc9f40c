package ports

import "marbl-settings/internal/types"

// OverrideSourcePort parses a user settings file into an OverrideStore.
// An empty path yields an empty store.
type OverrideSourcePort interface {
	LoadOverrides(path string) (*types.OverrideStore, error)
}
