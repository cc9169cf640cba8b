// Package config provides the project file loader for rebuild.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader for rebuild.yaml and rebuild.toml files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from cwd to the nearest project file and resolves it.
// When a directory holds both files, rebuild.yaml wins.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	path, err := l.findProjectfile(cwd)
	if err != nil {
		return nil, err
	}

	var pf Projectfile
	if err := decode(path, &pf); err != nil {
		return nil, err
	}

	return l.resolve(filepath.Dir(path), &pf)
}

func (l *Loader) findProjectfile(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	for dir := abs; ; {
		for _, name := range []string{domain.YAMLFileName, domain.TOMLFileName} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func decode(path string, pf *Projectfile) error {
	// #nosec G304 -- path is discovered by walking up from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, pf)
	} else {
		err = yaml.Unmarshal(data, pf)
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}
	return nil
}

func (l *Loader) resolve(root string, pf *Projectfile) (*domain.Project, error) {
	p := &domain.Project{
		Root:    root,
		Roots:   orDefault(pf.Roots, []string{"."}),
		Include: orDefault(pf.Include, defaultIncludes),
		Exclude: mergeExcludes(pf.Exclude),
		Engine: domain.EngineSettings{
			MaxRounds:              pf.Engine.MaxRounds,
			ConservativeReferences: pf.Engine.ConservativeReferences,
		},
		Graph: domain.GraphSettings{
			Backend: pf.Graph.Backend,
			Path:    pf.Graph.Path,
		},
		Log: domain.LogSettings{
			JSON:  pf.Log.Format == "json",
			Level: domain.ParseLogLevel(pf.Log.Level),
		},
		Watch: domain.WatchSettings{Debounce: domain.DefaultDebounce},
	}

	if p.Engine.MaxRounds == 0 {
		p.Engine.MaxRounds = domain.DefaultMaxRounds
	}
	if p.Engine.MaxRounds < 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "engine.maxRounds must not be negative"),
			"maxRounds", p.Engine.MaxRounds)
	}

	switch p.Graph.Backend {
	case "":
		p.Graph.Backend = domain.GraphBackendJSON
	case domain.GraphBackendJSON, domain.GraphBackendSQLite:
	default:
		return nil, zerr.With(domain.ErrUnknownGraphBackend, "backend", p.Graph.Backend)
	}
	if p.Graph.Path == "" {
		p.Graph.Path = domain.DefaultGraphPath(p.Graph.Backend)
	}
	if !filepath.IsAbs(p.Graph.Path) {
		p.Graph.Path = filepath.Join(root, p.Graph.Path)
	}
	if domain.GraphBackendForPath(p.Graph.Path) != p.Graph.Backend {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "graph.path extension does not match graph.backend"),
			"backend", p.Graph.Backend)
	}

	if pf.Log.Format != "" && pf.Log.Format != "json" && pf.Log.Format != "pretty" {
		l.Logger.Warn("unknown log format, using pretty", "format", pf.Log.Format)
	}

	if pf.Watch.Debounce != "" {
		d, err := time.ParseDuration(pf.Watch.Debounce)
		if err != nil || d <= 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "watch.debounce must be a positive duration"),
				"debounce", pf.Watch.Debounce)
		}
		p.Watch.Debounce = d
	}

	for _, r := range p.Roots {
		if filepath.IsAbs(r) {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "roots must be relative to the project file"),
				"root", r)
		}
	}

	return p, nil
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return slices.Clone(def)
	}
	return v
}

func mergeExcludes(extra []string) []string {
	out := slices.Clone(defaultExcludes)
	for _, e := range extra {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
