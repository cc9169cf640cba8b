package domain

import (
	"slices"
	"strings"
)

// Kind describes what sort of symbol a Definition is.
type Kind uint8

const (
	// KindClass is a class, struct or other concrete named type.
	KindClass Kind = iota + 1
	// KindInterface is an interface or trait.
	KindInterface
	// KindFunction is a top-level function.
	KindFunction
	// KindMethod is a method owned by a class-like definition.
	KindMethod
	// KindField is a field or constant.
	KindField
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// IsClassLike reports whether definitions of this kind are treated as the Class entity.
func (k Kind) IsClassLike() bool {
	return k == KindClass || k == KindInterface
}

// Definition is a compiler-produced description of one top-level symbol: its kind, its
// fully-qualified name, its declared parents and its members.
//
// Definitions are compared by Name across compilations; two definitions with equal names are
// the same symbol regardless of where they were declared.
type Definition struct {
	Kind      Kind
	Name      InternedString
	Parents   []InternedString
	Members   []Definition
	Signature string
	// SelfType is the type symbol the definition stands for. It is zero for non class-like
	// definitions and for classes whose self type is their own name.
	SelfType InternedString
}

// Entity reports whether changes to d are recorded against a Class or a Definition.
func (d Definition) Entity() Entity {
	if d.Kind.IsClassLike() {
		return EntityClass
	}
	return EntityDefinition
}

// SimpleName returns the last segment of the fully-qualified name.
func (d Definition) SimpleName() string {
	return SimpleName(d.Name)
}

// TypeSymbol returns the name of the type d stands for.
func (d Definition) TypeSymbol() InternedString {
	if d.SelfType.IsZero() {
		return d.Name
	}
	return d.SelfType
}

// HasParent reports whether name is among d's declared parents.
func (d Definition) HasParent(name InternedString) bool {
	return slices.Contains(d.Parents, name)
}

// Member returns the member with the given fully-qualified name.
func (d Definition) Member(name InternedString) (Definition, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Definition{}, false
}

// HasMemberNamed reports whether d declares a member whose simple name is simple.
func (d Definition) HasMemberNamed(simple string) bool {
	for _, m := range d.Members {
		if m.SimpleName() == simple {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of d that shares no slices with the original.
func (d Definition) Clone() Definition {
	out := d
	out.Parents = slices.Clone(d.Parents)
	out.Members = CloneDefinitions(d.Members)
	return out
}

// CloneDefinitions deep-copies a list of definitions.
func CloneDefinitions(defs []Definition) []Definition {
	if defs == nil {
		return nil
	}
	out := make([]Definition, len(defs))
	for i, d := range defs {
		out[i] = d.Clone()
	}
	return out
}

// FindDefinition returns the definition named name from defs.
func FindDefinition(defs []Definition, name InternedString) (Definition, bool) {
	for _, d := range defs {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// SimpleName returns the segment after the last dot of a fully-qualified name.
func SimpleName(name InternedString) string {
	s := name.String()
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}
