package ports

import "marbl-settings/internal/types"

// SchemaSourcePort loads a parameter schema and converts it into the typed
// variable model. Implementations reject documents whose shape cannot be
// represented (unknown datatype, rank > 2, conditional default without
// "default"); cross-variable checks belong to the schema validator.
type SchemaSourcePort interface {
	LoadSchema(path string) (*types.Schema, error)
}
