package ports

import "go.trai.ch/rebuild/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load walks up from cwd to the nearest project file and returns the resolved project.
	Load(cwd string) (*domain.Project, error)
}
