package app

import (
	"marbl-settings/internal/adapters"
	"marbl-settings/internal/ports"
)

type Service struct {
	SchemaSource   ports.SchemaSourcePort
	OverrideSource ports.OverrideSourcePort
	SettingsWriter ports.SettingsWriterPort
}

func NewService() Service {
	return Service{
		SchemaSource:   adapters.NewSchemaFileAdapter(),
		OverrideSource: adapters.NewOverrideFileAdapter(),
		SettingsWriter: adapters.NewSettingsWriterAdapter(),
	}
}
