package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/adapters/config"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return config.NewLoader(log), log
}

func TestLoader_YAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.YAMLFileName), `
version: "1"
roots: [src]
include: ["*.java"]
exclude: [generated]
engine:
  maxRounds: 10
  conservativeReferences: true
graph:
  backend: sqlite
log:
  format: json
  level: debug
watch:
  debounce: 200ms
`)
	loader, _ := newLoader(t)

	p, err := loader.Load(filepath.Join(root))
	require.NoError(t, err)

	assert.Equal(t, root, p.Root)
	assert.Equal(t, []string{"src"}, p.Roots)
	assert.Equal(t, []string{"*.java"}, p.Include)
	assert.Contains(t, p.Exclude, "generated")
	assert.Contains(t, p.Exclude, ".git")
	assert.Equal(t, 10, p.Engine.MaxRounds)
	assert.True(t, p.Engine.ConservativeReferences)
	assert.Equal(t, domain.GraphBackendSQLite, p.Graph.Backend)
	assert.Equal(t, filepath.Join(root, ".rebuild", "graph.db"), p.Graph.Path)
	assert.True(t, p.Log.JSON)
	assert.Equal(t, domain.LogLevelDebug, p.Log.Level)
	assert.Equal(t, 200*time.Millisecond, p.Watch.Debounce)
}

func TestLoader_TOML_Defaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.TOMLFileName), `
version = "1"

[graph]
path = "deps.json.zst"
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))
	loader, _ := newLoader(t)

	p, err := loader.Load(nested)
	require.NoError(t, err)

	assert.Equal(t, root, p.Root)
	assert.Equal(t, []string{"."}, p.Roots)
	assert.Equal(t, []string{"*.java", "*.go"}, p.Include)
	assert.Equal(t, domain.DefaultMaxRounds, p.Engine.MaxRounds)
	assert.Equal(t, domain.GraphBackendJSON, p.Graph.Backend)
	assert.Equal(t, filepath.Join(root, "deps.json.zst"), p.Graph.Path)
	assert.False(t, p.Log.JSON)
	assert.Equal(t, domain.LogLevelInfo, p.Log.Level)
	assert.Equal(t, domain.DefaultDebounce, p.Watch.Debounce)
}

func TestLoader_YAMLWinsOverTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.YAMLFileName), "roots: [yaml]\n")
	writeFile(t, filepath.Join(root, domain.TOMLFileName), "roots = [\"toml\"]\n")
	loader, _ := newLoader(t)

	p, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"yaml"}, p.Roots)
}

func TestLoader_UnknownLogFormatWarns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.YAMLFileName), "log:\n  format: xml\n")
	loader, log := newLoader(t)
	log.EXPECT().Warn("unknown log format, using pretty", "format", "xml")

	p, err := loader.Load(root)
	require.NoError(t, err)
	assert.False(t, p.Log.JSON)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{name: "bad yaml", file: domain.YAMLFileName, content: "roots: [", wantMsg: domain.ErrConfigParseFailed.Error()},
		{name: "bad toml", file: domain.TOMLFileName, content: "roots = ", wantMsg: domain.ErrConfigParseFailed.Error()},
		{name: "negative rounds", file: domain.YAMLFileName, content: "engine:\n  maxRounds: -1\n", wantMsg: "engine.maxRounds"},
		{name: "unknown backend", file: domain.YAMLFileName, content: "graph:\n  backend: redis\n", wantMsg: "unknown graph backend"},
		{name: "backend path mismatch", file: domain.YAMLFileName, content: "graph:\n  backend: sqlite\n  path: deps.json\n", wantMsg: "graph.path extension"},
		{name: "bad debounce", file: domain.YAMLFileName, content: "watch:\n  debounce: soon\n", wantMsg: "watch.debounce"},
		{name: "absolute root", file: domain.YAMLFileName, content: "roots: [/src]\n", wantMsg: "roots must be relative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, tt.file), tt.content)
			loader, _ := newLoader(t)

			_, err := loader.Load(root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoader_NotFound(t *testing.T) {
	loader, _ := newLoader(t)

	_, err := loader.Load(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigNotFound.Error())
}
