package domain

import (
	"fmt"
	"iter"
)

// Op is the kind of semantic change.
type Op uint8

const (
	// OpAdded means the entity did not exist before.
	OpAdded Op = iota + 1
	// OpRemoved means the entity no longer exists.
	OpRemoved
	// OpChanged means the entity exists in both versions with a different shape.
	OpChanged
)

// String returns the name of the operation.
func (o Op) String() string {
	switch o {
	case OpAdded:
		return "Added"
	case OpRemoved:
		return "Removed"
	case OpChanged:
		return "Changed"
	default:
		return "Unknown"
	}
}

// Entity is what a change applies to.
type Entity uint8

const (
	// EntityClass covers class-like definitions.
	EntityClass Entity = iota + 1
	// EntityDefinition covers everything else, including class members.
	EntityDefinition
)

// String returns the name of the entity.
func (e Entity) String() string {
	switch e {
	case EntityClass:
		return "Class"
	case EntityDefinition:
		return "Definition"
	default:
		return "Unknown"
	}
}

// Change is one semantic delta observed between two compilations of a unit.
type Change struct {
	Op     Op
	Entity Entity
	Name   InternedString
}

// Added builds an Added change.
func Added(e Entity, name InternedString) Change {
	return Change{Op: OpAdded, Entity: e, Name: name}
}

// Removed builds a Removed change.
func Removed(e Entity, name InternedString) Change {
	return Change{Op: OpRemoved, Entity: e, Name: name}
}

// Changed builds a Changed change.
func Changed(e Entity, name InternedString) Change {
	return Change{Op: OpChanged, Entity: e, Name: name}
}

// String renders the change as Op(Entity(name)).
func (c Change) String() string {
	return fmt.Sprintf("%s(%s(%s))", c.Op, c.Entity, c.Name)
}

// DefinitionChanges pairs the previous version of a definition with the changes observed on it.
type DefinitionChanges struct {
	Definition Definition
	Changes    []Change
}

// ChangeSet is the ordered result of classifying one batch of recompiled units.
type ChangeSet []DefinitionChanges

// Len returns the total number of changes across all definitions.
func (cs ChangeSet) Len() int {
	n := 0
	for _, dc := range cs {
		n += len(dc.Changes)
	}
	return n
}

// All yields every (definition, change) pair in order.
func (cs ChangeSet) All() iter.Seq2[Definition, Change] {
	return func(yield func(Definition, Change) bool) {
		for _, dc := range cs {
			for _, c := range dc.Changes {
				if !yield(dc.Definition, c) {
					return
				}
			}
		}
	}
}
