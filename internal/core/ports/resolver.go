package ports

import "go.trai.ch/rebuild/internal/core/domain"

// SourceResolver discovers the source units of a project.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type SourceResolver interface {
	// ResolveSources returns every unit under the project's roots, sorted, as paths relative
	// to the project root.
	ResolveSources(project *domain.Project) ([]domain.Unit, error)
}
