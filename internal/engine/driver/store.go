package driver

import "go.trai.ch/rebuild/internal/core/domain"

// Store holds the snapshot of every successfully compiled unit.
// Values are copied on the way in and on the way out so that neither the frontend nor
// callers can mutate recorded state.
type Store struct {
	snapshots map[domain.Unit]domain.Snapshot
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{snapshots: make(map[domain.Unit]domain.Snapshot)}
}

// Snapshot returns a copy of the unit's snapshot.
func (s *Store) Snapshot(unit domain.Unit) (domain.Snapshot, bool) {
	snap, ok := s.snapshots[unit]
	if !ok {
		return domain.Snapshot{}, false
	}
	return snap.Clone(), true
}

// Put replaces the unit's snapshot with a copy of out.
func (s *Store) Put(unit domain.Unit, out domain.UnitOutput) {
	s.snapshots[unit] = domain.Snapshot{
		Definitions: domain.CloneDefinitions(out.Definitions),
		References:  out.References.Clone(),
	}
}

// Delete discards the unit's snapshot.
func (s *Store) Delete(unit domain.Unit) {
	delete(s.snapshots, unit)
}

// Len returns the number of stored snapshots.
func (s *Store) Len() int {
	return len(s.snapshots)
}

// definitions returns the stored definitions without copying.
func (s *Store) definitions(unit domain.Unit) []domain.Definition {
	return s.snapshots[unit].Definitions
}

// view exposes stored snapshots to the invalidation engine without copying.
type view struct {
	s *Store
}

func (v view) Snapshot(unit domain.Unit) (domain.Snapshot, bool) {
	snap, ok := v.s.snapshots[unit]
	return snap, ok
}
