package graphstore

import (
	"context"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
)

var _ ports.GraphStore = (*Store)(nil)

// Store picks a backend from the file extension: ".db", ".sqlite" and ".sqlite3" use SQLite, everything
// else JSON.
type Store struct {
	json   *JSONStore
	sqlite *SQLiteStore
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{json: NewJSONStore(), sqlite: NewSQLiteStore()}
}

// Load reads the graph at source.
func (s *Store) Load(ctx context.Context, source string) (*domain.DepGraph, error) {
	return s.backend(source).Load(ctx, source)
}

// Save writes g to destination.
func (s *Store) Save(ctx context.Context, destination string, g *domain.DepGraph) error {
	return s.backend(destination).Save(ctx, destination, g)
}

func (s *Store) backend(path string) ports.GraphStore {
	if IsSQLitePath(path) {
		return s.sqlite
	}
	return s.json
}

// IsSQLitePath reports whether path names a SQLite database.
func IsSQLitePath(path string) bool {
	return domain.GraphBackendForPath(path) == domain.GraphBackendSQLite
}
