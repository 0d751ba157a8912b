package models

// InteractionRule constrains the temporal relationship between two crops
// grown on the same field. Rules are directional: a rule for
// predecessor -> successor says nothing about successor -> predecessor;
// the reverse direction requires its own explicit rule (spec.md §9).
type InteractionRule struct {
	PredecessorCropID string
	SuccessorCropID   string
	MinGapDays        int
	Forbidden         bool
}

// Applies reports whether this rule governs a predecessor allocation of
// predCropID followed by a successor allocation of succCropID.
func (r *InteractionRule) Applies(predCropID, succCropID string) bool {
	return r.PredecessorCropID == predCropID && r.SuccessorCropID == succCropID
}
