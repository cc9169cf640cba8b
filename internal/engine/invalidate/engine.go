// Package invalidate decides which dependents of a recompiled batch must be recompiled too.
package invalidate

import (
	"slices"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
)

// SnapshotReader gives read access to the last successful compile of a unit.
type SnapshotReader interface {
	Snapshot(unit domain.Unit) (domain.Snapshot, bool)
}

// Engine applies the invalidation rules to the direct dependents of a batch.
type Engine struct {
	graph        ports.DependencyGraph
	snapshots    SnapshotReader
	conservative bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithConservativeReferences makes the engine invalidate dependents that have no recorded
// references at all, for any change.
func WithConservativeReferences(enabled bool) Option {
	return func(e *Engine) {
		e.conservative = enabled
	}
}

// New creates an Engine reading dependents from graph and candidate state from snapshots.
func New(graph ports.DependencyGraph, snapshots SnapshotReader, opts ...Option) *Engine {
	e := &Engine{graph: graph, snapshots: snapshots}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invalidate returns the dependents of recompiled that are affected by changes, sorted by unit.
// Each candidate is invalidated at most once; the recorded reason is the first rule that matched.
func (e *Engine) Invalidate(recompiled []domain.Unit, changes domain.ChangeSet) []domain.Invalidation {
	if len(recompiled) == 0 || changes.Len() == 0 {
		return nil
	}

	self := domain.NewUnitSet(recompiled...)
	var candidates []domain.Unit
	for _, u := range e.graph.DependentsAtDepth(1, recompiled) {
		if !self.Contains(u) {
			candidates = append(candidates, u)
		}
	}
	domain.SortUnits(candidates)

	var out []domain.Invalidation
	for def, change := range changes.All() {
		if len(candidates) == 0 {
			break
		}
		candidates = slices.DeleteFunc(candidates, func(u domain.Unit) bool {
			snap, _ := e.snapshots.Snapshot(u)
			reason, ok := e.evaluate(def, change, snap)
			if ok {
				out = append(out, domain.Invalidation{Unit: u, Reason: reason, Change: change, Definition: def.Name})
			}
			return ok
		})
	}

	slices.SortFunc(out, func(a, b domain.Invalidation) int {
		return domain.CompareUnits(a.Unit, b.Unit)
	})
	return out
}

// evaluate runs the rules in order and stops at the first match.
func (e *Engine) evaluate(def domain.Definition, change domain.Change, cand domain.Snapshot) (domain.Reason, bool) {
	if reason, ok := parentRule(def, change, cand); ok {
		return reason, true
	}
	if reason, ok := shadowingRule(change, cand); ok {
		return reason, true
	}
	if reason, ok := referenceRule(change, cand); ok {
		return reason, true
	}
	if e.conservative && len(cand.References) == 0 {
		return domain.ReasonNoReferenceInformation, true
	}
	return "", false
}
