// Package app implements the application layer for rebuild.
package app

import (
	"context"
	"errors"
	"path/filepath"

	"go.trai.ch/rebuild/internal/adapters/detector"
	"go.trai.ch/rebuild/internal/adapters/frontend"
	"go.trai.ch/rebuild/internal/adapters/fs"
	"go.trai.ch/rebuild/internal/adapters/telemetry"
	"go.trai.ch/rebuild/internal/adapters/watcher"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Renderer presents reports and progress.
type Renderer interface {
	ports.ReportRenderer
	ports.ProgressRenderer
}

// logSettings is implemented by loggers whose format and level follow the project file.
type logSettings interface {
	SetJSON(enable bool)
	SetLevel(level domain.LogLevel)
}

// App represents the main application logic.
type App struct {
	loader   ports.ConfigLoader
	resolver ports.SourceResolver
	hasher   ports.ContentHasher
	store    ports.GraphStore
	watcher  ports.Watcher
	logger   ports.Logger
	tracer   ports.Tracer
	renderer Renderer

	newFrontend func(root string) ports.Frontend
	detect      func() detector.OutputMode
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.SourceResolver,
	hasher ports.ContentHasher,
	store ports.GraphStore,
	w ports.Watcher,
	log ports.Logger,
	tracer ports.Tracer,
	renderer Renderer,
) *App {
	return &App{
		loader:   loader,
		resolver: resolver,
		hasher:   hasher,
		store:    store,
		watcher:  w,
		logger:   log,
		tracer:   tracer,
		renderer: renderer,
		newFrontend: func(root string) ports.Frontend {
			return frontend.New(root)
		},
		detect: detector.DetectEnvironment,
	}
}

// WithFrontend replaces the frontend factory. Used by tests.
func (a *App) WithFrontend(fn func(root string) ports.Frontend) *App {
	a.newFrontend = fn
	return a
}

// WithOutputDetector replaces the environment detection used for OutputMode "auto".
func (a *App) WithOutputDetector(fn func() detector.OutputMode) *App {
	a.detect = fn
	return a
}

// Options are shared by every command.
type Options struct {
	// Dir is where the project file search starts.
	Dir string
	// OutputMode is "auto", "progress" or "summary".
	OutputMode string
	// Verbose forces debug logging.
	Verbose bool
	// Paths restricts Build to the units at or below them. Empty means the whole project.
	Paths []string
}

// Build compiles the source units of the project, or those under opts.Paths, and saves the
// dependency graph.
func (a *App) Build(ctx context.Context, opts Options) error {
	project, err := a.setup(opts)
	if err != nil {
		return err
	}
	defer a.startProgress(ctx, opts)()

	s, err := a.newSession(ctx, project)
	if err != nil {
		return err
	}
	if err := s.restrict(opts.Paths); err != nil {
		return err
	}
	return s.syncAndSave(ctx)
}

// Watch builds the project, then rebuilds whenever a source unit changes, until ctx ends.
func (a *App) Watch(ctx context.Context, opts Options) error {
	project, err := a.setup(opts)
	if err != nil {
		return err
	}
	defer a.startProgress(ctx, opts)()

	s, err := a.newSession(ctx, project)
	if err != nil {
		return err
	}
	if err := s.syncAndSave(ctx); err != nil && !isCompileError(err) {
		return err
	}

	if err := a.watcher.Start(ctx, project.Root); err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	// Releases debouncer callbacks still waiting to deliver once the loop has returned.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches := make(chan []ports.WatchEvent, 1)
	debouncer := watcher.NewDebouncer(project.Watch.Debounce, func(batch []ports.WatchEvent) {
		select {
		case batches <- batch:
		case <-ctx.Done():
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			if fs.Matches(project.Include, filepath.Base(event.Path)) {
				debouncer.Add(event)
			}
		}
	}()

	a.logger.Info("watching for changes", "root", project.Root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch := <-batches:
			a.logger.Debug("source change detected", "events", len(batch))
			if err := s.syncAndSave(ctx); err != nil && !isCompileError(err) {
				return err
			}
		}
	}
}

// SaveGraph builds the project and writes its dependency graph to destination, or to the
// configured path when destination is empty.
func (a *App) SaveGraph(ctx context.Context, destination string, opts Options) error {
	project, err := a.setup(opts)
	if err != nil {
		return err
	}
	defer a.startProgress(ctx, opts)()

	s, err := a.newSession(ctx, project)
	if err != nil {
		return err
	}
	if err := s.sync(ctx); err != nil {
		return err
	}
	if destination == "" {
		destination = project.Graph.Path
	}
	return s.saveGraph(ctx, destination)
}

// LoadGraph imports the graph stored at source as the project's persisted graph.
func (a *App) LoadGraph(ctx context.Context, source string, opts Options) error {
	project, err := a.setup(opts)
	if err != nil {
		return err
	}

	g, err := a.store.Load(ctx, source)
	if err != nil {
		return err
	}
	if err := a.store.Save(ctx, project.Graph.Path, g); err != nil {
		return err
	}
	a.logger.Info("imported dependency graph", "from", source, "to", project.Graph.Path,
		"units", g.Len(), "edges", len(g.Edges()))
	return nil
}

// CheckGraph loads the graph at source, or the configured one, and fails if it has a cycle.
func (a *App) CheckGraph(ctx context.Context, source string, opts Options) error {
	project, err := a.setup(opts)
	if err != nil {
		return err
	}
	if source == "" {
		source = project.Graph.Path
	}

	g, err := a.store.Load(ctx, source)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	a.logger.Info("dependency graph is acyclic", "units", g.Len(), "edges", len(g.Edges()))
	return nil
}

func (a *App) setup(opts Options) (*domain.Project, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	project, err := a.loader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if ls, ok := a.logger.(logSettings); ok {
		ls.SetJSON(project.Log.JSON)
		level := project.Log.Level
		if opts.Verbose {
			level = domain.LogLevelDebug
		}
		ls.SetLevel(level)
	}
	return project, nil
}

// startProgress routes round spans to the renderer when progress output is enabled and
// returns the function that stops it.
func (a *App) startProgress(ctx context.Context, opts Options) func() {
	if detector.ResolveMode(a.detect(), opts.OutputMode) != detector.ModeProgress {
		return func() {}
	}
	shutdown := telemetry.Install(telemetry.NewBridge(a.renderer))
	return func() {
		_ = shutdown(context.WithoutCancel(ctx))
	}
}

func isCompileError(err error) bool {
	return errors.Is(err, domain.ErrCompileFailed)
}
