package domain

import "time"

const (
	// GraphBackendJSON persists the dependency graph as a JSON document, zstd-compressed when the
	// path ends in ".zst".
	GraphBackendJSON = "json"
	// GraphBackendSQLite persists the dependency graph in a SQLite database.
	GraphBackendSQLite = "sqlite"

	// DefaultMaxRounds bounds the number of compile rounds of a single update.
	DefaultMaxRounds = 64

	// DefaultDebounce is the quiet period the watcher waits for before triggering an update.
	DefaultDebounce = 50 * time.Millisecond
)

// Project is the resolved configuration of a source tree managed by rebuild.
type Project struct {
	// Root is the absolute directory containing the project file.
	Root string
	// Roots are the directories, relative to Root, that are scanned for source units.
	Roots []string
	// Include holds file name globs a unit must match.
	Include []string
	// Exclude holds file or directory name globs that are skipped.
	Exclude []string

	Engine EngineSettings
	Graph  GraphSettings
	Log    LogSettings
	Watch  WatchSettings
}

// EngineSettings tunes the invalidation loop.
type EngineSettings struct {
	MaxRounds              int
	ConservativeReferences bool
}

// GraphSettings selects where the dependency graph is persisted.
type GraphSettings struct {
	Backend string
	Path    string
}

// LogSettings selects the log output.
type LogSettings struct {
	JSON  bool
	Level LogLevel
}

// WatchSettings tunes watch mode.
type WatchSettings struct {
	Debounce time.Duration
}
