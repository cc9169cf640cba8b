package ports

import (
	"context"

	"go.trai.ch/rebuild/internal/core/domain"
)

// GraphStore persists the dependency graph between sessions.
// Only the graph is persisted; definition snapshots are always rebuilt by compiling.
//
//go:generate go run go.uber.org/mock/mockgen -source=graph_store.go -destination=mocks/mock_graph_store.go -package=mocks
type GraphStore interface {
	// Load reads a graph from source. A missing source yields an empty graph.
	Load(ctx context.Context, source string) (*domain.DepGraph, error)
	// Save writes g to destination, replacing any previous content.
	Save(ctx context.Context, destination string, g *domain.DepGraph) error
}
