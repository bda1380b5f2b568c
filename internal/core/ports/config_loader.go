package ports

import "go.trai.ch/gild/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds gild.yaml starting at cwd and walking up, and returns the resolved configuration.
	Load(cwd string) (*domain.ProjectConfig, error)
}
