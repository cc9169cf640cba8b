// Package domain contains the core domain models of the incremental recompilation manager.
package domain

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Edge is a directed dependency: From depends on To.
type Edge struct {
	From Unit `json:"from"`
	To   Unit `json:"to"`
}

// DepGraph is a unit-level dependency graph.
// It stores both directions so that dependents of a unit can be found without a scan.
type DepGraph struct {
	deps  map[Unit]UnitSet
	rdeps map[Unit]UnitSet
	order []Unit
}

// NewDepGraph creates a new empty DepGraph.
func NewDepGraph() *DepGraph {
	return &DepGraph{
		deps:  make(map[Unit]UnitSet),
		rdeps: make(map[Unit]UnitSet),
	}
}

// AddUnit registers u as a node without edges.
func (g *DepGraph) AddUnit(u Unit) {
	if _, ok := g.deps[u]; !ok {
		g.deps[u] = make(UnitSet)
	}
	if _, ok := g.rdeps[u]; !ok {
		g.rdeps[u] = make(UnitSet)
	}
}

// AddDependency records that from depends on to. Self edges are ignored.
func (g *DepGraph) AddDependency(from, to Unit) {
	g.AddUnit(from)
	g.AddUnit(to)
	if from == to {
		return
	}
	g.deps[from].Add(to)
	g.rdeps[to].Add(from)
}

// SetDependencies replaces every outgoing edge of u.
func (g *DepGraph) SetDependencies(u Unit, deps []Unit) {
	g.AddUnit(u)
	for old := range g.deps[u] {
		delete(g.rdeps[old], u)
	}
	g.deps[u] = make(UnitSet, len(deps))
	for _, d := range deps {
		g.AddDependency(u, d)
	}
}

// RemoveUnit drops u and every edge touching it.
func (g *DepGraph) RemoveUnit(u Unit) {
	for d := range g.deps[u] {
		delete(g.rdeps[d], u)
	}
	for r := range g.rdeps[u] {
		delete(g.deps[r], u)
	}
	delete(g.deps, u)
	delete(g.rdeps, u)
}

// Contains reports whether u is a node of the graph.
func (g *DepGraph) Contains(u Unit) bool {
	_, ok := g.deps[u]
	return ok
}

// Len returns the number of nodes.
func (g *DepGraph) Len() int {
	return len(g.deps)
}

// Units returns every node, sorted.
func (g *DepGraph) Units() []Unit {
	return SortUnits(slices.Collect(maps.Keys(g.deps)))
}

// Dependencies returns the units u depends on, sorted.
func (g *DepGraph) Dependencies(u Unit) []Unit {
	return g.deps[u].Sorted()
}

// Dependents returns the units that depend on u, sorted.
func (g *DepGraph) Dependents(u Unit) []Unit {
	return g.rdeps[u].Sorted()
}

// Edges returns every edge sorted by (From, To).
func (g *DepGraph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.Units() {
		for _, to := range g.Dependencies(from) {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// DependentsAtDepth returns the units that reach any of units by following at most depth
// dependency edges backwards. A depth below 1 follows edges transitively.
// Start units appear in the result only when another start unit depends on them.
func (g *DepGraph) DependentsAtDepth(depth int, units []Unit) []Unit {
	found := make(UnitSet)
	frontier := slices.Clone(units)
	for level := 0; len(frontier) > 0 && (depth < 1 || level < depth); level++ {
		var next []Unit
		for _, u := range frontier {
			for r := range g.rdeps[u] {
				if found.Add(r) {
					next = append(next, r)
				}
			}
		}
		frontier = next
	}
	return found.Sorted()
}

// Validate checks the graph for dependency cycles using a depth-first search.
// It populates the order returned by Walk if successful.
func (g *DepGraph) Validate() error {
	g.order = make([]Unit, 0, len(g.deps))
	visited := make(map[Unit]int) // 0: unvisited, 1: visiting, 2: visited
	var path []Unit

	var visit func(u Unit) error
	visit = func(u Unit) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.Dependencies(u) {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	for _, u := range g.Units() {
		if visited[u] == 0 {
			if err := visit(u); err != nil {
				g.order = nil
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []Unit, dep Unit) error {
	start := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-start+1)
	for _, u := range path[start:] {
		parts = append(parts, u.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "dependency graph is not acyclic"), "cycle", strings.Join(parts, " -> "))
}

// Walk yields units with dependencies before their dependents.
// It assumes Validate() has been called and returned nil.
func (g *DepGraph) Walk() iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for _, u := range g.order {
			if !yield(u) {
				return
			}
		}
	}
}
