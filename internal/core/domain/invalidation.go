package domain

// Reason explains why a unit was invalidated.
type Reason string

const (
	// ReasonParentsChanged is used when a parent class changed its parents or member set.
	ReasonParentsChanged Reason = "parents changed"
	// ReasonInheritedMemberChanged is used when a member inherited from a parent changed.
	ReasonInheritedMemberChanged Reason = "inherited member changed"
	// ReasonInheritedMemberAdded is used when a parent gained a member.
	ReasonInheritedMemberAdded Reason = "inherited new member"
	// ReasonInheritedMemberRemoved is used when a parent lost a member.
	ReasonInheritedMemberRemoved Reason = "inherited member removed"
	// ReasonNameCollision is used when a new member shares its simple name with a member of the dependent.
	ReasonNameCollision Reason = "new member collides with existing name"
	// ReasonSelfTypeChanged is used when the class a dependent uses as its self type changed.
	ReasonSelfTypeChanged Reason = "self type changed"
	// ReasonReferencesRemovedDefinition is used when a referenced definition was removed.
	ReasonReferencesRemovedDefinition Reason = "references removed definition"
	// ReasonReferencesRemovedClass is used when a referenced class was removed.
	ReasonReferencesRemovedClass Reason = "references removed class"
	// ReasonReferencesChangedDefinition is used when a referenced definition changed.
	ReasonReferencesChangedDefinition Reason = "references changed definition"
	// ReasonReferencesChangedClass is used when a referenced class changed.
	ReasonReferencesChangedClass Reason = "references changed class"
	// ReasonNoReferenceInformation is used by the conservative rule.
	ReasonNoReferenceInformation Reason = "no reference information"
)

// Invalidation records that a unit must be recompiled, and which change caused it.
type Invalidation struct {
	Unit       Unit
	Reason     Reason
	Change     Change
	Definition InternedString
}

// Round describes one compile-classify-invalidate iteration of an update.
type Round struct {
	Number        int
	Compiled      []Unit
	Changes       ChangeSet
	Invalidations []Invalidation
}

// CycleEvent records that a unit already recompiled in the current update was invalidated again.
type CycleEvent struct {
	Round        int
	Invalidation Invalidation
}

// UpdateReport summarizes a call to the build driver.
type UpdateReport struct {
	ID     string
	Rounds []Round
	Cycles []CycleEvent
}

// Recompiled returns every unit compiled during the update, in compile order.
func (r *UpdateReport) Recompiled() []Unit {
	if r == nil {
		return nil
	}
	var out []Unit
	for _, round := range r.Rounds {
		out = append(out, round.Compiled...)
	}
	return out
}

// Invalidations returns every invalidation across rounds.
func (r *UpdateReport) Invalidations() []Invalidation {
	if r == nil {
		return nil
	}
	var out []Invalidation
	for _, round := range r.Rounds {
		out = append(out, round.Invalidations...)
	}
	return out
}
