package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrCompileFailed is returned when the frontend reports errors for a batch.
	// The batch leaves no trace: snapshots are untouched and nothing is invalidated.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrRoundLimitExceeded is returned when an update does not reach a fixpoint within the configured rounds.
	ErrRoundLimitExceeded = zerr.New("invalidation did not converge within the round limit")

	// ErrNoCompileResult is returned when the frontend reports neither a result nor an error.
	ErrNoCompileResult = zerr.New("frontend returned no compile result")

	// ErrUnitNotManaged is used when an update names a unit that was never added.
	ErrUnitNotManaged = zerr.New("unit is not managed")

	// ErrCycleDetected is returned when a cycle is detected in the dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrUnsupportedLanguage is returned when no frontend grammar handles a unit's extension.
	ErrUnsupportedLanguage = zerr.New("unsupported source language")

	// ErrSourceReadFailed is returned when a unit's source cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read source unit")

	// ErrSourceParseFailed is returned when the parser cannot produce a syntax tree.
	ErrSourceParseFailed = zerr.New("failed to parse source unit")

	// ErrGraphStoreReadFailed is returned when a persisted dependency graph cannot be read.
	ErrGraphStoreReadFailed = zerr.New("failed to read dependency graph")

	// ErrGraphStoreWriteFailed is returned when a dependency graph cannot be written.
	ErrGraphStoreWriteFailed = zerr.New("failed to write dependency graph")

	// ErrGraphStoreDecodeFailed is returned when a persisted dependency graph is malformed.
	ErrGraphStoreDecodeFailed = zerr.New("failed to decode dependency graph")

	// ErrUnknownGraphBackend is returned when the configured graph backend is not recognized.
	ErrUnknownGraphBackend = zerr.New("unknown graph backend, expected 'json' or 'sqlite'")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrConfigNotFound is returned when no project file exists in the directory tree.
	ErrConfigNotFound = zerr.New("could not find rebuild.yaml or rebuild.toml")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")

	// ErrSourceDiscoveryFailed is returned when walking the source roots fails.
	ErrSourceDiscoveryFailed = zerr.New("failed to discover source units")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrPathOutsideProject is returned when a build path does not lie inside the project root.
	ErrPathOutsideProject = zerr.New("path is outside the project")
)

// CompileError reports a batch the frontend could not compile.
// It matches ErrCompileFailed and the frontend's own error, if any, with errors.Is.
type CompileError struct {
	Round       int
	Units       []Unit
	Diagnostics []Diagnostic
	Err         error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := ErrCompileFailed.Error()
	switch {
	case e.Err != nil:
		return msg + ": " + e.Err.Error()
	case len(e.Diagnostics) > 0:
		d := e.Diagnostics[0]
		return fmt.Sprintf("%s: %s:%d: %s", msg, d.Unit, d.Line, d.Message)
	default:
		return msg
	}
}

// Unwrap exposes the sentinel and the frontend's error.
func (e *CompileError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCompileFailed}
	}
	return []error{ErrCompileFailed, e.Err}
}
