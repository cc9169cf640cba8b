package domain

import (
	"maps"
	"slices"
)

// Unit identifies a single source unit, typically a file path relative to the project root.
// Units are keys only: nothing about a unit's contents is stored on the value.
type Unit struct {
	InternedString
}

// NewUnit creates a Unit from a path.
func NewUnit(path string) Unit {
	return Unit{NewInternedString(path)}
}

// NewUnits converts a list of paths into Units.
func NewUnits(paths ...string) []Unit {
	units := make([]Unit, len(paths))
	for i, p := range paths {
		units[i] = NewUnit(p)
	}
	return units
}

// CompareUnits orders units by path.
func CompareUnits(a, b Unit) int {
	return a.Compare(b.InternedString)
}

// SortUnits sorts units in place by path and returns the slice.
func SortUnits(units []Unit) []Unit {
	slices.SortFunc(units, CompareUnits)
	return units
}

// UnitSet is an unordered set of units.
type UnitSet map[Unit]struct{}

// NewUnitSet creates a set holding the given units.
func NewUnitSet(units ...Unit) UnitSet {
	s := make(UnitSet, len(units))
	for _, u := range units {
		s[u] = struct{}{}
	}
	return s
}

// Add inserts u and reports whether it was absent.
func (s UnitSet) Add(u Unit) bool {
	if _, ok := s[u]; ok {
		return false
	}
	s[u] = struct{}{}
	return true
}

// Contains reports whether u is in the set.
func (s UnitSet) Contains(u Unit) bool {
	_, ok := s[u]
	return ok
}

// Sorted returns the members ordered by path.
func (s UnitSet) Sorted() []Unit {
	return SortUnits(slices.Collect(maps.Keys(s)))
}

// NameSet is a set of fully-qualified names.
type NameSet map[InternedString]struct{}

// NewNameSet creates a set holding the given names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[NewInternedString(n)] = struct{}{}
	}
	return s
}

// Add inserts name into the set.
func (s NameSet) Add(name InternedString) {
	s[name] = struct{}{}
}

// Contains reports whether name is in the set.
func (s NameSet) Contains(name InternedString) bool {
	_, ok := s[name]
	return ok
}

// Clone returns an independent copy. A nil set clones to an empty set.
func (s NameSet) Clone() NameSet {
	out := make(NameSet, len(s))
	maps.Copy(out, s)
	return out
}

// Sorted returns the names in lexical order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n.String())
	}
	slices.Sort(out)
	return out
}
