// Package depgraph derives the unit dependency graph from what the frontend reports: a unit
// depends on every unit that defines a name it references.
package depgraph

import (
	"sync"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
)

var (
	_ ports.DependencyGraph = (*Tracker)(nil)
	_ ports.GraphRecorder   = (*Tracker)(nil)
)

type entry struct {
	defines    []domain.InternedString
	references domain.NameSet
}

// Tracker records unit outputs and answers dependents queries.
//
// Edges are recomputed lazily, so a unit recorded before the unit defining one of its
// references still gets the edge once the definer is recorded.
type Tracker struct {
	mu      sync.Mutex
	entries map[domain.Unit]entry
	seeded  *domain.DepGraph
	graph   *domain.DepGraph
	dirty   bool
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		entries: make(map[domain.Unit]entry),
		graph:   domain.NewDepGraph(),
	}
}

// Record replaces what is known about unit.
func (t *Tracker) Record(unit domain.Unit, out domain.UnitOutput) {
	var names []domain.InternedString
	for _, def := range out.Definitions {
		names = append(names, def.Name)
		for _, m := range def.Members {
			names = append(names, m.Name)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[unit] = entry{defines: names, references: out.References.Clone()}
	t.dirty = true
}

// Forget drops unit and every edge touching it.
func (t *Tracker) Forget(unit domain.Unit) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, unit)
	if t.seeded != nil {
		t.seeded.RemoveUnit(unit)
	}
	t.dirty = true
}

// Seed installs a previously persisted graph. Its edges are kept for units that have not been
// recorded since, so the first update of a session can propagate before everything compiled.
func (t *Tracker) Seed(g *domain.DepGraph) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seeded = g
	t.dirty = true
}

// DependentsAtDepth returns the units depending on units within depth hops.
func (t *Tracker) DependentsAtDepth(depth int, units []domain.Unit) []domain.Unit {
	return t.Graph().DependentsAtDepth(depth, units)
}

// Graph returns the current dependency graph. The returned graph must not be modified.
func (t *Tracker) Graph() *domain.DepGraph {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dirty {
		t.graph = t.build()
		t.dirty = false
	}
	return t.graph
}

// Export returns a copy of the current dependency graph.
func (t *Tracker) Export() *domain.DepGraph {
	src := t.Graph()
	g := domain.NewDepGraph()
	for _, u := range src.Units() {
		g.AddUnit(u)
	}
	for _, e := range src.Edges() {
		g.AddDependency(e.From, e.To)
	}
	return g
}

func (t *Tracker) build() *domain.DepGraph {
	definers := make(map[domain.InternedString][]domain.Unit)
	for u, e := range t.entries {
		for _, name := range e.defines {
			definers[name] = append(definers[name], u)
		}
	}

	g := domain.NewDepGraph()
	if t.seeded != nil {
		for _, u := range t.seeded.Units() {
			if _, recorded := t.entries[u]; recorded {
				continue
			}
			g.AddUnit(u)
			for _, dep := range t.seeded.Dependencies(u) {
				g.AddDependency(u, dep)
			}
		}
	}

	for _, u := range domain.NewUnitSet(keys(t.entries)...).Sorted() {
		g.AddUnit(u)
		deps := make(domain.UnitSet)
		for ref := range t.entries[u].references {
			for _, d := range definers[ref] {
				if d != u {
					deps.Add(d)
				}
			}
		}
		g.SetDependencies(u, deps.Sorted())
	}
	return g
}

func keys(m map[domain.Unit]entry) []domain.Unit {
	out := make([]domain.Unit, 0, len(m))
	for u := range m {
		out = append(out, u)
	}
	return out
}
