package neighborhood

import (
	"sort"

	"github.com/urban-gardening/cropplanner/internal/models"
)

// Move changes the field of an existing allocation, recomputing
// completion via GDDEvaluator and cost against the new field's
// daily_fixed_cost; quantity is unchanged (spec.md §4.6).
type Move struct{}

func (Move) Name() string { return "move" }

func (Move) Apply(plan *models.OptimizationPlan, ctx *Context) (*models.OptimizationPlan, bool) {
	if len(plan.Allocations) == 0 || len(ctx.Catalog.Fields) < 2 {
		return nil, false
	}
	srcIdx := pickRandomIndex(len(plan.Allocations), ctx.Rng)
	original := plan.Allocations[srcIdx]

	var destCandidates []string
	for fieldID := range ctx.Catalog.Fields {
		if fieldID != original.FieldID {
			destCandidates = append(destCandidates, fieldID)
		}
	}
	if len(destCandidates) == 0 {
		return nil, false
	}
	sort.Strings(destCandidates)
	destFieldID := destCandidates[pickRandomIndex(len(destCandidates), ctx.Rng)]
	destField, ok := ctx.Catalog.Field(destFieldID)
	if !ok {
		return nil, false
	}
	crop, ok := ctx.Catalog.Crop(original.CropID)
	if !ok {
		return nil, false
	}

	candidate, ok := priced(original.AllocationID, destFieldID, destField, crop, original.StartDate, original.Quantity, ctx)
	if !ok {
		return nil, false
	}

	withoutOriginal := plan.WithRemoved(original.AllocationID)
	if ok, _ := ctx.Checker.IsFeasibleAddition(withoutOriginal, candidate); !ok {
		return nil, false
	}
	return plan.WithReplaced(original.AllocationID, candidate), true
}
