// Package classify computes the semantic changes between two compilations of a unit.
package classify

import (
	"slices"

	"go.trai.ch/rebuild/internal/core/domain"
)

// Classify compares the previous and the fresh definitions of one unit.
//
// Every old definition is matched by name against newDefs. A definition that disappeared
// yields Removed; one whose shape differs yields its member-level deltas followed by a
// Changed entry for the definition itself. Definitions that only exist in newDefs yield
// nothing: nothing can depend on a name that did not exist.
func Classify(oldDefs, newDefs []domain.Definition) domain.ChangeSet {
	var cs domain.ChangeSet
	for _, old := range oldDefs {
		changes := classifyOne(old, newDefs)
		if len(changes) == 0 {
			continue
		}
		cs = append(cs, domain.DefinitionChanges{Definition: old, Changes: changes})
	}
	return cs
}

func classifyOne(old domain.Definition, newDefs []domain.Definition) []domain.Change {
	cur, ok := domain.FindDefinition(newDefs, old.Name)
	if !ok {
		return []domain.Change{domain.Removed(old.Entity(), old.Name)}
	}

	changes := memberChanges(old, cur)
	if shapeChanged(old, cur) {
		changes = append(changes, domain.Changed(old.Entity(), old.Name))
	}
	return changes
}

// memberChanges reports removed and changed members in old order, then added members in
// the fresh definition's order.
func memberChanges(old, cur domain.Definition) []domain.Change {
	var changes []domain.Change
	for _, m := range old.Members {
		nm, ok := cur.Member(m.Name)
		switch {
		case !ok:
			changes = append(changes, domain.Removed(domain.EntityDefinition, m.Name))
		case !sameMember(m, nm):
			changes = append(changes, domain.Changed(domain.EntityDefinition, m.Name))
		}
	}
	for _, m := range cur.Members {
		if _, ok := old.Member(m.Name); !ok {
			changes = append(changes, domain.Added(domain.EntityDefinition, m.Name))
		}
	}
	return changes
}

func sameMember(a, b domain.Definition) bool {
	return a.Kind == b.Kind && a.Signature == b.Signature
}

func shapeChanged(old, cur domain.Definition) bool {
	if old.Kind != cur.Kind || old.Signature != cur.Signature || old.TypeSymbol() != cur.TypeSymbol() {
		return true
	}
	if !slices.Equal(old.Parents, cur.Parents) {
		return true
	}
	if !old.Kind.IsClassLike() {
		return false
	}
	return !sameMemberNames(old.Members, cur.Members)
}

func sameMemberNames(a, b []domain.Definition) bool {
	if len(a) != len(b) {
		return false
	}
	names := make(domain.NameSet, len(a))
	for _, m := range a {
		names.Add(m.Name)
	}
	for _, m := range b {
		if !names.Contains(m.Name) {
			return false
		}
	}
	return true
}
