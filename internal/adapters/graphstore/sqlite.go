package graphstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS units (
	path TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS edges (
	from_unit TEXT NOT NULL REFERENCES units(path) ON DELETE CASCADE,
	to_unit   TEXT NOT NULL REFERENCES units(path) ON DELETE CASCADE,
	PRIMARY KEY (from_unit, to_unit)
);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_unit);
`

// SQLiteStore keeps the graph in a SQLite database, replacing its contents on every save.
type SQLiteStore struct{}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Load reads the graph stored at path. A missing database yields an empty graph.
func (s *SQLiteStore) Load(ctx context.Context, path string) (*domain.DepGraph, error) {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return domain.NewDepGraph(), nil
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreReadFailed.Error()), "path", path)
	}
	defer db.Close() //nolint:errcheck // Best effort close in defer

	g := domain.NewDepGraph()

	units, err := db.QueryContext(ctx, `SELECT path FROM units ORDER BY path`)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreReadFailed.Error()), "path", path)
	}
	defer units.Close() //nolint:errcheck // Best effort close in defer
	for units.Next() {
		var p string
		if err := units.Scan(&p); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreDecodeFailed.Error()), "path", path)
		}
		g.AddUnit(domain.NewUnit(p))
	}
	if err := units.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreReadFailed.Error()), "path", path)
	}

	edges, err := db.QueryContext(ctx, `SELECT from_unit, to_unit FROM edges ORDER BY from_unit, to_unit`)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreReadFailed.Error()), "path", path)
	}
	defer edges.Close() //nolint:errcheck // Best effort close in defer
	for edges.Next() {
		var from, to string
		if err := edges.Scan(&from, &to); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreDecodeFailed.Error()), "path", path)
		}
		g.AddDependency(domain.NewUnit(from), domain.NewUnit(to))
	}
	if err := edges.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreReadFailed.Error()), "path", path)
	}

	return g, nil
}

// Save replaces the graph stored at path with g in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, path string, g *domain.DepGraph) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory for dependency graph")
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphStoreWriteFailed.Error()), "path", path)
	}
	defer db.Close() //nolint:errcheck // Best effort close in defer

	if err := withTx(ctx, db, func(tx *sql.Tx) error {
		return writeGraph(ctx, tx, g)
	}); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphStoreWriteFailed.Error()), "path", path)
	}
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func writeGraph(ctx context.Context, tx *sql.Tx, g *domain.DepGraph) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM edges`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM units`); err != nil {
		return err
	}

	insertUnit, err := tx.PrepareContext(ctx, `INSERT INTO units (path) VALUES (?)`)
	if err != nil {
		return err
	}
	defer insertUnit.Close() //nolint:errcheck // Best effort close in defer
	for _, u := range g.Units() {
		if _, err := insertUnit.ExecContext(ctx, u.String()); err != nil {
			return err
		}
	}

	insertEdge, err := tx.PrepareContext(ctx, `INSERT INTO edges (from_unit, to_unit) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer insertEdge.Close() //nolint:errcheck // Best effort close in defer
	for _, e := range g.Edges() {
		if _, err := insertEdge.ExecContext(ctx, e.From.String(), e.To.String()); err != nil {
			return err
		}
	}
	return nil
}
