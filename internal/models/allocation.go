package models

import "time"

// CropAllocation is a planned cultivation of one crop on one field over a
// contiguous date interval with a specific quantity. Allocations hold
// non-owning identifiers (FieldID, CropID) rather than back-references, so
// plans stay trivially clonable (spec.md §9); a side table resolves
// id -> entity when needed (see internal/models.Catalog).
//
// CropAllocations are never mutated in place: every operator that changes
// one produces a new CropAllocation value (spec.md §3 Lifecycle).
type CropAllocation struct {
	AllocationID   string
	FieldID        string
	CropID         string
	StartDate      time.Time
	CompletionDate time.Time
	Quantity       float64
	AreaUsed       float64
	GrowthDays     int
	Cost           float64
	Revenue        float64
	Profit         float64
}

// OccupancyEnd returns the last day this allocation holds its field
// exclusively, including the fallow tail (spec.md glossary: occupancy
// interval = [start_date, completion_date + fallow_period_days]).
func (a *CropAllocation) OccupancyEnd(fallowPeriodDays int) time.Time {
	return a.CompletionDate.AddDate(0, 0, fallowPeriodDays)
}

// OverlapsRaw reports whether a and b's raw [start, completion] intervals
// (excluding fallow) share any day.
func (a *CropAllocation) OverlapsRaw(b *CropAllocation) bool {
	return !a.CompletionDate.Before(b.StartDate) && !b.CompletionDate.Before(a.StartDate)
}

// OverlapsWithFallow reports whether a and b's occupancy intervals
// (including each one's own field's fallow tail) share any day. Both
// allocations are assumed to be on the same field; callers pass the
// shared fallow period.
func (a *CropAllocation) OverlapsWithFallow(b *CropAllocation, fallowPeriodDays int) bool {
	aEnd := a.OccupancyEnd(fallowPeriodDays)
	bEnd := b.OccupancyEnd(fallowPeriodDays)
	return !aEnd.Before(b.StartDate) && !bEnd.Before(a.StartDate)
}

// Clone returns a value copy; CropAllocation has no pointer fields, so
// simple assignment already clones, but Clone documents the intent at
// call sites that replace allocations wholesale.
func (a CropAllocation) Clone() CropAllocation {
	return a
}
