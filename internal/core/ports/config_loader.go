package ports

import "go.trai.ch/vellum/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration starting from the given working directory
	// and returns the settings with defaults applied. A missing config file
	// is not an error; defaults rooted at cwd are returned instead.
	Load(cwd string) (domain.Settings, error)
}
