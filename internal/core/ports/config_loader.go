// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/basesweep/internal/core/domain"

// SettingsLoader defines the interface for loading the tool settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings file at path and merges it over the defaults.
	// A missing file is only an error when explicit is true.
	Load(path string, explicit bool) (domain.Settings, error)
}

// NovaConfigReader reads path settings from a Nova configuration file.
type NovaConfigReader interface {
	// Read returns the path values present in the file.
	Read(path string) (domain.NovaPaths, error)
}
