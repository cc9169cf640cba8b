package app

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/rebuild/internal/adapters/depgraph"
	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/engine/driver"
	"go.trai.ch/zerr"
)

// session is one driver over one project. Snapshots live as long as the session; only the
// dependency graph outlives it.
type session struct {
	app     *App
	project *domain.Project
	driver  *driver.Driver
	tracker *depgraph.Tracker

	hashes  map[domain.Unit]uint64
	pending domain.UnitSet
	// scope holds root-relative path prefixes; empty means the whole project.
	scope []string
}

func (a *App) newSession(ctx context.Context, project *domain.Project) (*session, error) {
	g, err := a.store.Load(ctx, project.Graph.Path)
	if err != nil {
		return nil, err
	}
	tracker := depgraph.New()
	tracker.Seed(g)

	d := driver.New(a.newFrontend(project.Root), tracker, a.logger, a.tracer,
		driver.WithRecorder(tracker),
		driver.WithMaxRounds(project.Engine.MaxRounds),
		driver.WithConservativeReferences(project.Engine.ConservativeReferences),
	)

	return &session{
		app:     a,
		project: project,
		driver:  d,
		tracker: tracker,
		hashes:  make(map[domain.Unit]uint64),
		pending: make(domain.UnitSet),
	}, nil
}

// restrict limits syncs to units at or below paths, which are relative to the working
// directory or absolute.
func (s *session) restrict(paths []string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrPathOutsideProject, err.Error()), "path", p)
		}
		rel, err := filepath.Rel(s.project.Root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return zerr.With(domain.ErrPathOutsideProject, "path", p)
		}
		if rel == "." {
			s.scope = nil
			return nil
		}
		s.scope = append(s.scope, filepath.ToSlash(rel))
	}
	return nil
}

func (s *session) inScope(u domain.Unit) bool {
	if len(s.scope) == 0 {
		return true
	}
	path := u.String()
	for _, prefix := range s.scope {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// sync brings the driver in line with the source tree: vanished units are deleted, new ones
// added and modified ones updated, in that order. Units of a batch that failed to compile are
// retried on the next sync.
func (s *session) sync(ctx context.Context) error {
	all, err := s.app.resolver.ResolveSources(s.project)
	if err != nil {
		return err
	}
	units := slices.DeleteFunc(all, func(u domain.Unit) bool { return !s.inScope(u) })
	hashes, err := s.app.hasher.HashUnits(ctx, s.project.Root, units)
	if err != nil {
		return err
	}

	current := domain.NewUnitSet(units...)
	var removed, added, changed []domain.Unit
	for _, u := range s.driver.Managed() {
		if s.inScope(u) && !current.Contains(u) {
			removed = append(removed, u)
		}
	}
	for _, u := range units {
		old, seen := s.hashes[u]
		switch {
		case !s.driver.IsManaged(u):
			added = append(added, u)
		case !seen || old != hashes[u] || s.pending.Contains(u):
			changed = append(changed, u)
		}
	}

	if len(removed)+len(added)+len(changed) == 0 {
		s.app.renderer.RenderReport(&domain.UpdateReport{})
		return nil
	}

	if len(removed) > 0 {
		s.app.logger.Debug("deleting units", "count", len(removed))
		report, err := s.driver.DeleteFiles(ctx, removed)
		for _, u := range removed {
			delete(s.hashes, u)
			delete(s.pending, u)
		}
		if err := s.finish(report, err); err != nil {
			return err
		}
	}

	if len(added) > 0 {
		s.app.logger.Debug("adding units", "count", len(added))
		report, err := s.driver.AddSourceFiles(ctx, added)
		s.commit(added, hashes)
		if err := s.finish(report, err); err != nil {
			return err
		}
	}

	if len(changed) > 0 {
		s.app.logger.Debug("updating units", "count", len(changed))
		report, err := s.driver.Update(ctx, changed)
		s.commit(changed, hashes)
		if err := s.finish(report, err); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) commit(units []domain.Unit, hashes map[domain.Unit]uint64) {
	for _, u := range units {
		s.hashes[u] = hashes[u]
		delete(s.pending, u)
	}
}

// finish renders the outcome of one driver call. The units of a failed batch and units left
// behind on a dependency cycle become pending.
func (s *session) finish(report *domain.UpdateReport, err error) error {
	if report != nil {
		for _, c := range report.Cycles {
			s.pending.Add(c.Invalidation.Unit)
		}
	}
	if err == nil {
		s.app.renderer.RenderReport(report)
		return nil
	}

	var cerr *domain.CompileError
	if errors.As(err, &cerr) {
		for _, u := range cerr.Units {
			s.pending.Add(u)
		}
		s.app.renderer.RenderFailure(err, cerr.Diagnostics)
	}
	return err
}

func (s *session) saveGraph(ctx context.Context, path string) error {
	g := s.tracker.Export()
	if err := s.app.store.Save(ctx, path, g); err != nil {
		return err
	}
	s.app.logger.Debug("saved dependency graph", "path", path, "units", g.Len())
	return nil
}

// syncAndSave syncs and persists the graph, also after a compile failure.
func (s *session) syncAndSave(ctx context.Context) error {
	err := s.sync(ctx)
	if err != nil && !isCompileError(err) {
		return err
	}
	if serr := s.saveGraph(ctx, s.project.Graph.Path); serr != nil {
		return serr
	}
	return err
}
