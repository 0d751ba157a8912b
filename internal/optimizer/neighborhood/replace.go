package neighborhood

import (
	"github.com/urban-gardening/cropplanner/internal/models"
)

// Replace changes the start_date of an existing allocation, recomputing
// completion and all derived fields (spec.md §4.6).
type Replace struct{}

func (Replace) Name() string { return "replace" }

func (Replace) Apply(plan *models.OptimizationPlan, ctx *Context) (*models.OptimizationPlan, bool) {
	if len(plan.Allocations) == 0 {
		return nil, false
	}
	original := plan.Allocations[pickRandomIndex(len(plan.Allocations), ctx.Rng)]

	field, ok := ctx.Catalog.Field(original.FieldID)
	if !ok {
		return nil, false
	}
	crop, ok := ctx.Catalog.Crop(original.CropID)
	if !ok {
		return nil, false
	}

	horizonDays := int(ctx.Catalog.PlanningEnd.Sub(ctx.Catalog.PlanningStart).Hours() / 24)
	if horizonDays <= 0 {
		return nil, false
	}
	offset := ctx.Rng.Intn(horizonDays + 1)
	newStart := ctx.Catalog.PlanningStart.AddDate(0, 0, offset)
	if newStart.Equal(original.StartDate) {
		newStart = newStart.AddDate(0, 0, 1)
	}
	if newStart.After(ctx.Catalog.PlanningEnd) {
		return nil, false
	}

	candidate, ok := priced(original.AllocationID, original.FieldID, field, crop, newStart, original.Quantity, ctx)
	if !ok {
		return nil, false
	}

	withoutOriginal := plan.WithRemoved(original.AllocationID)
	if ok, _ := ctx.Checker.IsFeasibleAddition(withoutOriginal, candidate); !ok {
		return nil, false
	}
	return plan.WithReplaced(original.AllocationID, candidate), true
}
