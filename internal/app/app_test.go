package app_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rebuild/internal/adapters/detector"
	"go.trai.ch/rebuild/internal/adapters/linear"
	"go.trai.ch/rebuild/internal/adapters/telemetry"
	"go.trai.ch/rebuild/internal/app"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
	"go.trai.ch/rebuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var (
	unitA = domain.NewUnit("p/A.java")
	unitB = domain.NewUnit("p/B.java")
)

func classA(members ...string) domain.Definition {
	def := domain.Definition{Kind: domain.KindClass, Name: domain.NewInternedString("p.A")}
	for _, m := range members {
		def.Members = append(def.Members, domain.Definition{
			Kind:      domain.KindMethod,
			Name:      domain.NewInternedString("p.A." + m),
			Signature: "void ()",
		})
	}
	return def
}

func classB() domain.Definition {
	return domain.Definition{
		Kind:    domain.KindClass,
		Name:    domain.NewInternedString("p.B"),
		Parents: domain.NewInternedStrings([]string{"p.A"}),
	}
}

func outputA(members ...string) domain.UnitOutput {
	return domain.UnitOutput{Definitions: []domain.Definition{classA(members...)}}
}

func outputB() domain.UnitOutput {
	return domain.UnitOutput{
		Definitions: []domain.Definition{classB()},
		References:  domain.NewNameSet("p.A"),
	}
}

type fixture struct {
	loader   *mocks.MockConfigLoader
	resolver *mocks.MockSourceResolver
	hasher   *mocks.MockContentHasher
	store    *mocks.MockGraphStore
	watcher  *mocks.MockWatcher
	logger   *mocks.MockLogger
	frontend *mocks.MockFrontend

	project *domain.Project
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	app     *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		resolver: mocks.NewMockSourceResolver(ctrl),
		hasher:   mocks.NewMockContentHasher(ctrl),
		store:    mocks.NewMockGraphStore(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		frontend: mocks.NewMockFrontend(ctrl),
		project: &domain.Project{
			Root:    root,
			Roots:   []string{"."},
			Include: []string{"*.java"},
			Engine:  domain.EngineSettings{MaxRounds: domain.DefaultMaxRounds},
			Graph: domain.GraphSettings{
				Backend: domain.GraphBackendJSON,
				Path:    filepath.Join(root, ".rebuild", "graph.json"),
			},
			Watch: domain.WatchSettings{Debounce: domain.DefaultDebounce},
		},
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}

	f.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	f.frontend.EXPECT().Reset().AnyTimes()

	renderer := linear.NewRendererWithProfile(f.stdout, f.stderr, termenv.Ascii)
	f.app = app.New(f.loader, f.resolver, f.hasher, f.store, f.watcher, f.logger,
		telemetry.NewNoOpTracer(), renderer).
		WithFrontend(func(string) ports.Frontend { return f.frontend }).
		WithOutputDetector(func() detector.OutputMode { return detector.ModeSummary })
	return f
}

func (f *fixture) expectProject() {
	f.loader.EXPECT().Load(".").Return(f.project, nil)
	f.store.EXPECT().Load(gomock.Any(), f.project.Graph.Path).Return(domain.NewDepGraph(), nil)
}

func (f *fixture) expectSources(units []domain.Unit, hashes map[domain.Unit]uint64) {
	f.resolver.EXPECT().ResolveSources(f.project).Return(units, nil)
	f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, units).Return(hashes, nil)
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	units := []domain.Unit{unitA, unitB}

	f.expectProject()
	f.expectSources(units, map[domain.Unit]uint64{unitA: 1, unitB: 2})
	f.frontend.EXPECT().Compile(gomock.Any(), units).Return(&domain.CompileResult{
		Units: map[domain.Unit]domain.UnitOutput{unitA: outputA("run"), unitB: outputB()},
	}, nil)

	var saved *domain.DepGraph
	f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, g *domain.DepGraph) error {
			saved = g
			return nil
		})

	err := f.app.Build(context.Background(), app.Options{})
	require.NoError(t, err)

	assert.Contains(t, f.stdout.String(), "2 unit(s) recompiled in 1 round(s)")
	require.NotNil(t, saved)
	assert.Equal(t, []domain.Unit{unitA}, saved.Dependencies(unitB))
	assert.Empty(t, saved.Dependencies(unitA))
}

func TestApp_Build_CompileFailure(t *testing.T) {
	f := newFixture(t)
	units := []domain.Unit{unitA}

	f.expectProject()
	f.expectSources(units, map[domain.Unit]uint64{unitA: 1})
	f.frontend.EXPECT().Compile(gomock.Any(), units).Return(&domain.CompileResult{
		Diagnostics: []domain.Diagnostic{
			{Unit: unitA, Line: 3, Severity: domain.SeverityError, Message: "syntax error"},
		},
	}, nil)
	f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, gomock.Any()).Return(nil)

	err := f.app.Build(context.Background(), app.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCompileFailed)

	var cerr *domain.CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, units, cerr.Units)
	assert.Contains(t, f.stderr.String(), "p/A.java:3: error: syntax error")
	assert.Empty(t, f.stdout.String())
}

func TestApp_Build_ConfigError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load("/work").Return(nil, domain.ErrConfigNotFound)

	err := f.app.Build(context.Background(), app.Options{Dir: "/work"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Build_StoreError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(".").Return(f.project, nil)
	f.store.EXPECT().Load(gomock.Any(), f.project.Graph.Path).Return(nil, domain.ErrGraphStoreReadFailed)

	err := f.app.Build(context.Background(), app.Options{})
	assert.ErrorIs(t, err, domain.ErrGraphStoreReadFailed)
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		units := []domain.Unit{unitA, unitB}
		f.expectProject()
		gomock.InOrder(
			f.resolver.EXPECT().ResolveSources(f.project).Return(units, nil),
			f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, units).
				Return(map[domain.Unit]uint64{unitA: 1, unitB: 2}, nil),
			f.resolver.EXPECT().ResolveSources(f.project).Return(units, nil),
			f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, units).
				Return(map[domain.Unit]uint64{unitA: 3, unitB: 2}, nil),
		)
		gomock.InOrder(
			f.frontend.EXPECT().Compile(gomock.Any(), units).Return(&domain.CompileResult{
				Units: map[domain.Unit]domain.UnitOutput{unitA: outputA("run"), unitB: outputB()},
			}, nil),
			f.frontend.EXPECT().Compile(gomock.Any(), []domain.Unit{unitA}).Return(&domain.CompileResult{
				Units: map[domain.Unit]domain.UnitOutput{unitA: outputA("run", "stop")},
			}, nil),
			f.frontend.EXPECT().Compile(gomock.Any(), []domain.Unit{unitB}).
				DoAndReturn(func(context.Context, []domain.Unit) (*domain.CompileResult, error) {
					cancel()
					return &domain.CompileResult{
						Units: map[domain.Unit]domain.UnitOutput{unitB: outputB()},
					}, nil
				}),
		)
		f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, gomock.Any()).Return(nil).Times(2)

		f.watcher.EXPECT().Start(gomock.Any(), f.project.Root).Return(nil)
		f.watcher.EXPECT().Stop().Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			if !yield(ports.WatchEvent{Path: filepath.Join(f.project.Root, "p", "README.md"), Operation: ports.OpWrite}) {
				return
			}
			time.Sleep(time.Millisecond)
			if !yield(ports.WatchEvent{Path: filepath.Join(f.project.Root, "p", "A.java"), Operation: ports.OpWrite}) {
				return
			}
			<-ctx.Done()
		}))

		err := f.app.Watch(ctx, app.Options{})
		require.NoError(t, err)
		synctest.Wait()

		out := f.stdout.String()
		assert.Contains(t, out, "2 unit(s) recompiled in 1 round(s)")
		assert.Contains(t, out, "round 2: p/B.java")
		assert.Contains(t, out, "inherited new member")
	})
}

func TestApp_Watch_RetriesCycleUnits(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		mutual := func(self, other string, members ...string) domain.UnitOutput {
			def := domain.Definition{Kind: domain.KindClass, Name: domain.NewInternedString(self)}
			for _, m := range members {
				def.Members = append(def.Members, domain.Definition{
					Kind: domain.KindMethod, Name: domain.NewInternedString(self + "." + m), Signature: "void ()",
				})
			}
			return domain.UnitOutput{Definitions: []domain.Definition{def}, References: domain.NewNameSet(other)}
		}

		units := []domain.Unit{unitA, unitB}
		f.expectProject()
		gomock.InOrder(
			f.resolver.EXPECT().ResolveSources(f.project).Return(units, nil),
			f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, units).
				Return(map[domain.Unit]uint64{unitA: 1, unitB: 2}, nil),
			f.resolver.EXPECT().ResolveSources(f.project).Return(units, nil),
			f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, units).
				Return(map[domain.Unit]uint64{unitA: 3, unitB: 2}, nil),
			f.resolver.EXPECT().ResolveSources(f.project).Return(units, nil),
			f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, units).
				Return(map[domain.Unit]uint64{unitA: 3, unitB: 2}, nil),
		)
		gomock.InOrder(
			f.frontend.EXPECT().Compile(gomock.Any(), units).Return(&domain.CompileResult{
				Units: map[domain.Unit]domain.UnitOutput{unitA: mutual("p.A", "p.B"), unitB: mutual("p.B", "p.A")},
			}, nil),
			f.frontend.EXPECT().Compile(gomock.Any(), []domain.Unit{unitA}).Return(&domain.CompileResult{
				Units: map[domain.Unit]domain.UnitOutput{unitA: mutual("p.A", "p.B", "x")},
			}, nil),
			f.frontend.EXPECT().Compile(gomock.Any(), []domain.Unit{unitB}).Return(&domain.CompileResult{
				Units: map[domain.Unit]domain.UnitOutput{unitB: mutual("p.B", "p.A", "y")},
			}, nil),
			// A was left behind on the cycle, so it is compiled again although its hash is unchanged.
			f.frontend.EXPECT().Compile(gomock.Any(), []domain.Unit{unitA}).
				DoAndReturn(func(context.Context, []domain.Unit) (*domain.CompileResult, error) {
					cancel()
					return &domain.CompileResult{
						Units: map[domain.Unit]domain.UnitOutput{unitA: mutual("p.A", "p.B", "x")},
					}, nil
				}),
		)
		f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, gomock.Any()).Return(nil).Times(3)

		f.watcher.EXPECT().Start(gomock.Any(), f.project.Root).Return(nil)
		f.watcher.EXPECT().Stop().Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			if !yield(ports.WatchEvent{Path: filepath.Join(f.project.Root, "p", "A.java"), Operation: ports.OpWrite}) {
				return
			}
			time.Sleep(time.Second)
			if !yield(ports.WatchEvent{Path: filepath.Join(f.project.Root, "p", "B.java"), Operation: ports.OpWrite}) {
				return
			}
			<-ctx.Done()
		}))

		err := f.app.Watch(ctx, app.Options{})
		require.NoError(t, err)
		synctest.Wait()

		assert.Contains(t, f.stdout.String(), "p/A.java invalidated again in round 2")
	})
}

func TestApp_Watch_SyncErrorReleasesDebouncer(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		units := []domain.Unit{unitA}

		f.expectProject()
		gomock.InOrder(
			f.resolver.EXPECT().ResolveSources(f.project).Return(units, nil),
			f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, units).
				Return(map[domain.Unit]uint64{unitA: 1}, nil),
			f.resolver.EXPECT().ResolveSources(f.project).Return(nil, errors.New("walk failed")),
		)
		f.frontend.EXPECT().Compile(gomock.Any(), units).Return(&domain.CompileResult{
			Units: map[domain.Unit]domain.UnitOutput{unitA: outputA()},
		}, nil)
		f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, gomock.Any()).Return(nil)

		f.watcher.EXPECT().Start(gomock.Any(), f.project.Root).Return(nil)
		f.watcher.EXPECT().Stop().Return(nil)
		f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			// Later batches arrive after Watch has returned and nobody reads them.
			for range 3 {
				if !yield(ports.WatchEvent{Path: filepath.Join(f.project.Root, "p", "A.java"), Operation: ports.OpWrite}) {
					return
				}
				time.Sleep(time.Second)
			}
		}))

		err := f.app.Watch(context.Background(), app.Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "walk failed")

		time.Sleep(5 * time.Second)
		synctest.Wait()
	})
}

func TestApp_Watch_StartError(t *testing.T) {
	f := newFixture(t)
	f.expectProject()
	f.expectSources(nil, map[domain.Unit]uint64{})
	f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, gomock.Any()).Return(nil)
	f.watcher.EXPECT().Start(gomock.Any(), f.project.Root).Return(errors.New("too many files"))

	err := f.app.Watch(context.Background(), app.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrWatcherStartFailed.Error())
	assert.Contains(t, f.stdout.String(), "up to date")
}

func TestApp_LoadGraph(t *testing.T) {
	f := newFixture(t)
	g := domain.NewDepGraph()
	g.AddDependency(unitB, unitA)

	f.loader.EXPECT().Load(".").Return(f.project, nil)
	f.store.EXPECT().Load(gomock.Any(), "export.db").Return(g, nil)
	f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, g).Return(nil)

	require.NoError(t, f.app.LoadGraph(context.Background(), "export.db", app.Options{}))
}

func TestApp_SaveGraph(t *testing.T) {
	f := newFixture(t)
	units := []domain.Unit{unitA}

	f.expectProject()
	f.expectSources(units, map[domain.Unit]uint64{unitA: 1})
	f.frontend.EXPECT().Compile(gomock.Any(), units).Return(&domain.CompileResult{
		Units: map[domain.Unit]domain.UnitOutput{unitA: outputA()},
	}, nil)
	f.store.EXPECT().Save(gomock.Any(), "out.json.zst", gomock.Any()).Return(nil)

	require.NoError(t, f.app.SaveGraph(context.Background(), "out.json.zst", app.Options{}))
}

func TestApp_CheckGraph(t *testing.T) {
	t.Run("acyclic", func(t *testing.T) {
		f := newFixture(t)
		g := domain.NewDepGraph()
		g.AddDependency(unitB, unitA)

		f.loader.EXPECT().Load(".").Return(f.project, nil)
		f.store.EXPECT().Load(gomock.Any(), f.project.Graph.Path).Return(g, nil)

		require.NoError(t, f.app.CheckGraph(context.Background(), "", app.Options{}))
	})

	t.Run("cycle", func(t *testing.T) {
		f := newFixture(t)
		g := domain.NewDepGraph()
		g.AddDependency(unitB, unitA)
		g.AddDependency(unitA, unitB)

		f.loader.EXPECT().Load(".").Return(f.project, nil)
		f.store.EXPECT().Load(gomock.Any(), "other.json").Return(g, nil)

		err := f.app.CheckGraph(context.Background(), "other.json", app.Options{})
		assert.ErrorIs(t, err, domain.ErrCycleDetected)
	})
}

func TestApp_Build_Paths(t *testing.T) {
	f := newFixture(t)
	unitC := domain.NewUnit("q/C.java")

	f.expectProject()
	f.resolver.EXPECT().ResolveSources(f.project).Return([]domain.Unit{unitA, unitC}, nil)
	f.hasher.EXPECT().HashUnits(gomock.Any(), f.project.Root, []domain.Unit{unitA}).
		Return(map[domain.Unit]uint64{unitA: 1}, nil)
	f.frontend.EXPECT().Compile(gomock.Any(), []domain.Unit{unitA}).Return(&domain.CompileResult{
		Units: map[domain.Unit]domain.UnitOutput{unitA: outputA()},
	}, nil)
	f.store.EXPECT().Save(gomock.Any(), f.project.Graph.Path, gomock.Any()).Return(nil)

	opts := app.Options{Paths: []string{filepath.Join(f.project.Root, "p")}}
	require.NoError(t, f.app.Build(context.Background(), opts))
	assert.Contains(t, f.stdout.String(), "1 unit(s) recompiled")
}

func TestApp_Build_PathOutsideProject(t *testing.T) {
	f := newFixture(t)
	f.expectProject()

	opts := app.Options{Paths: []string{filepath.Dir(f.project.Root)}}
	err := f.app.Build(context.Background(), opts)
	assert.ErrorIs(t, err, domain.ErrPathOutsideProject)
}
