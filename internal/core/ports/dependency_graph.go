package ports

import "go.trai.ch/rebuild/internal/core/domain"

// DependencyGraph answers which units depend on a set of units.
//
//go:generate go run go.uber.org/mock/mockgen -source=dependency_graph.go -destination=mocks/mock_dependency_graph.go -package=mocks
type DependencyGraph interface {
	// DependentsAtDepth returns the units reaching any of units within depth hops.
	// A depth below 1 means transitive.
	DependentsAtDepth(depth int, units []domain.Unit) []domain.Unit
}

// GraphRecorder is notified of every successfully compiled unit so the dependency graph can be
// rebuilt from the frontend's output.
type GraphRecorder interface {
	// Record stores the latest definitions and references of a unit.
	Record(unit domain.Unit, out domain.UnitOutput)
	// Forget drops everything known about a unit.
	Forget(unit domain.Unit)
}
