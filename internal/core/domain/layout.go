package domain

import "path/filepath"

const (
	// RebuildDirName is the name of the internal workspace directory.
	RebuildDirName = ".rebuild"

	// GraphFileName is the default file name of the persisted dependency graph.
	GraphFileName = "graph.json"

	// GraphDBFileName is the default file name of the SQLite graph store.
	GraphDBFileName = "graph.db"

	// YAMLFileName is the name of the YAML project file.
	YAMLFileName = "rebuild.yaml"

	// TOMLFileName is the name of the TOML project file.
	TOMLFileName = "rebuild.toml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultGraphPath returns the default location of the persisted graph for a backend.
func DefaultGraphPath(backend string) string {
	if backend == GraphBackendSQLite {
		return filepath.Join(RebuildDirName, GraphDBFileName)
	}
	return filepath.Join(RebuildDirName, GraphFileName)
}

// GraphBackendForPath returns the backend that stores a graph at path: SQLite for ".db",
// ".sqlite" and ".sqlite3" files, JSON otherwise.
func GraphBackendForPath(path string) string {
	switch filepath.Ext(path) {
	case ".db", ".sqlite", ".sqlite3":
		return GraphBackendSQLite
	}
	return GraphBackendJSON
}
