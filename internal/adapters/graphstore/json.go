// Package graphstore persists the unit dependency graph as JSON, zstd-compressed JSON or SQLite.
package graphstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// ZstdExt marks a JSON graph file as zstd-compressed.
const ZstdExt = ".zst"

// document is the JSON form of a dependency graph.
type document struct {
	Version int           `json:"version"`
	Units   []domain.Unit `json:"units"`
	Edges   []domain.Edge `json:"edges"`
}

const documentVersion = 1

// JSONStore reads and writes graph documents.
type JSONStore struct{}

// NewJSONStore creates a new JSONStore.
func NewJSONStore() *JSONStore {
	return &JSONStore{}
}

// Load reads the graph at path. A missing file yields an empty graph.
func (s *JSONStore) Load(_ context.Context, path string) (*domain.DepGraph, error) {
	path = filepath.Clean(path)

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewDepGraph(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreReadFailed.Error()), "path", path)
	}
	if len(data) == 0 {
		return domain.NewDepGraph(), nil
	}

	if strings.HasSuffix(path, ZstdExt) {
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreReadFailed.Error()), "path", path)
		}
		defer dec.Close()
		if data, err = io.ReadAll(dec); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreDecodeFailed.Error()), "path", path)
		}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGraphStoreDecodeFailed.Error()), "path", path)
	}
	return fromDocument(doc), nil
}

// Save writes g to path, creating parent directories as needed.
func (s *JSONStore) Save(_ context.Context, path string, g *domain.DepGraph) error {
	path = filepath.Clean(path)

	data, err := json.MarshalIndent(toDocument(g), "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal dependency graph")
	}

	if strings.HasSuffix(path, ZstdExt) {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrGraphStoreWriteFailed.Error()), "path", path)
		}
		if _, err := enc.Write(data); err != nil {
			_ = enc.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrGraphStoreWriteFailed.Error()), "path", path)
		}
		if err := enc.Close(); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrGraphStoreWriteFailed.Error()), "path", path)
		}
		data = buf.Bytes()
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory for dependency graph")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphStoreWriteFailed.Error()), "path", path)
	}
	return nil
}

func toDocument(g *domain.DepGraph) document {
	return document{Version: documentVersion, Units: g.Units(), Edges: g.Edges()}
}

func fromDocument(doc document) *domain.DepGraph {
	g := domain.NewDepGraph()
	for _, u := range doc.Units {
		g.AddUnit(u)
	}
	for _, e := range doc.Edges {
		g.AddDependency(e.From, e.To)
	}
	return g
}
