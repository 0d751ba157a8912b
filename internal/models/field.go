// Package models defines the domain entities of the cultivation planner:
// Field, CropProfile, WeatherRecord, CropAllocation, OptimizationPlan and
// InteractionRule (spec.md §3). Fields, crops and weather are immutable
// shared-read inputs; allocations and plans are replaced wholesale rather
// than mutated in place.
package models

import "fmt"

// Field is a piece of cultivable land with a fixed daily operating cost and
// a fallow recovery period applied after every allocation completes.
type Field struct {
	FieldID          string
	Name             string
	AreaSqMeters     float64
	DailyFixedCost   float64
	FallowPeriodDays int
	Location         string
	// SoilType is optional domain-supplement texture (SPEC_FULL.md §12),
	// mirrored from the teacher's soil-efficiency modeling; when set it is
	// looked up in a CropProfile's SoilAdjustment to scale revenue.
	SoilType string
}

// Validate enforces Field's invariants (spec.md §3): positive area,
// non-negative daily cost, non-negative fallow period.
func (f *Field) Validate() error {
	if f.FieldID == "" {
		return fmt.Errorf("field: field_id is required")
	}
	if f.AreaSqMeters <= 0 {
		return fmt.Errorf("field %s: area must be positive, got %v", f.FieldID, f.AreaSqMeters)
	}
	if f.DailyFixedCost < 0 {
		return fmt.Errorf("field %s: daily_fixed_cost must be non-negative, got %v", f.FieldID, f.DailyFixedCost)
	}
	if f.FallowPeriodDays < 0 {
		return fmt.Errorf("field %s: fallow_period_days must be non-negative, got %v", f.FieldID, f.FallowPeriodDays)
	}
	return nil
}

