package invalidate

import "go.trai.ch/rebuild/internal/core/domain"

// parentRule fires when the candidate extends the changed definition.
func parentRule(def domain.Definition, change domain.Change, cand domain.Snapshot) (domain.Reason, bool) {
	if !extends(cand, def.Name) {
		return "", false
	}
	switch {
	case change.Entity == domain.EntityClass && change.Op == domain.OpChanged:
		return domain.ReasonParentsChanged, true
	case change.Entity != domain.EntityDefinition || change.Name == def.Name:
		return "", false
	case change.Op == domain.OpAdded:
		return domain.ReasonInheritedMemberAdded, true
	case change.Op == domain.OpRemoved:
		return domain.ReasonInheritedMemberRemoved, true
	case change.Op == domain.OpChanged:
		return domain.ReasonInheritedMemberChanged, true
	}
	return "", false
}

func extends(cand domain.Snapshot, parent domain.InternedString) bool {
	for _, d := range cand.Definitions {
		if d.Kind.IsClassLike() && d.HasParent(parent) {
			return true
		}
	}
	return false
}

// shadowingRule fires when a new member may now hide or clash with one the candidate declares,
// or when the class the candidate stands for changed.
func shadowingRule(change domain.Change, cand domain.Snapshot) (domain.Reason, bool) {
	switch {
	case change.Op == domain.OpAdded && change.Entity == domain.EntityDefinition:
		simple := domain.SimpleName(change.Name)
		for _, d := range cand.Definitions {
			if d.HasMemberNamed(simple) {
				return domain.ReasonNameCollision, true
			}
		}
	case change.Op == domain.OpChanged && change.Entity == domain.EntityClass:
		for _, d := range cand.Definitions {
			if d.Kind.IsClassLike() && d.TypeSymbol() == change.Name {
				return domain.ReasonSelfTypeChanged, true
			}
		}
	}
	return "", false
}

// referenceRule fires when the candidate uses a name that was removed or changed.
func referenceRule(change domain.Change, cand domain.Snapshot) (domain.Reason, bool) {
	if change.Op == domain.OpAdded || !cand.References.Contains(change.Name) {
		return "", false
	}
	switch {
	case change.Op == domain.OpRemoved && change.Entity == domain.EntityClass:
		return domain.ReasonReferencesRemovedClass, true
	case change.Op == domain.OpRemoved:
		return domain.ReasonReferencesRemovedDefinition, true
	case change.Entity == domain.EntityClass:
		return domain.ReasonReferencesChangedClass, true
	default:
		return domain.ReasonReferencesChangedDefinition, true
	}
}
