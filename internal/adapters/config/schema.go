package config

// Projectfile represents the structure of rebuild.yaml and rebuild.toml.
type Projectfile struct {
	Version string    `yaml:"version" toml:"version"`
	Roots   []string  `yaml:"roots" toml:"roots"`
	Include []string  `yaml:"include" toml:"include"`
	Exclude []string  `yaml:"exclude" toml:"exclude"`
	Engine  EngineDTO `yaml:"engine" toml:"engine"`
	Graph   GraphDTO  `yaml:"graph" toml:"graph"`
	Log     LogDTO    `yaml:"log" toml:"log"`
	Watch   WatchDTO  `yaml:"watch" toml:"watch"`
}

// EngineDTO tunes the invalidation loop.
type EngineDTO struct {
	MaxRounds              int  `yaml:"maxRounds" toml:"maxRounds"`
	ConservativeReferences bool `yaml:"conservativeReferences" toml:"conservativeReferences"`
}

// GraphDTO selects the dependency graph store.
type GraphDTO struct {
	Backend string `yaml:"backend" toml:"backend"`
	Path    string `yaml:"path" toml:"path"`
}

// LogDTO selects the log format and level.
type LogDTO struct {
	Format string `yaml:"format" toml:"format"`
	Level  string `yaml:"level" toml:"level"`
}

// WatchDTO tunes watch mode.
type WatchDTO struct {
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// defaultIncludes lists the file name globs handled by the built-in frontend.
var defaultIncludes = []string{"*.java", "*.go"}

// defaultExcludes lists directory and file names that never hold managed sources.
var defaultExcludes = []string{".git", ".jj", ".rebuild", "vendor", "node_modules", "testdata", "*_test.go"}
