package neighborhood

import (
	"sort"

	"github.com/urban-gardening/cropplanner/internal/models"
)

// ChangeCrop changes the crop of an allocation, adjusting quantity so
// area_used is preserved: new.quantity = old.area_used / new.crop.area_per_unit
// (spec.md §4.6).
type ChangeCrop struct{}

func (ChangeCrop) Name() string { return "change_crop" }

func (ChangeCrop) Apply(plan *models.OptimizationPlan, ctx *Context) (*models.OptimizationPlan, bool) {
	if len(plan.Allocations) == 0 || len(ctx.Catalog.Crops) < 2 {
		return nil, false
	}
	original := plan.Allocations[pickRandomIndex(len(plan.Allocations), ctx.Rng)]

	var candidateCropIDs []string
	for cropID := range ctx.Catalog.Crops {
		if cropID != original.CropID {
			candidateCropIDs = append(candidateCropIDs, cropID)
		}
	}
	if len(candidateCropIDs) == 0 {
		return nil, false
	}
	sort.Strings(candidateCropIDs)
	newCropID := candidateCropIDs[pickRandomIndex(len(candidateCropIDs), ctx.Rng)]
	newCrop, ok := ctx.Catalog.Crop(newCropID)
	if !ok {
		return nil, false
	}
	field, ok := ctx.Catalog.Field(original.FieldID)
	if !ok {
		return nil, false
	}

	newQuantity := original.AreaUsed / newCrop.AreaPerUnit

	candidate, ok := priced(original.AllocationID, original.FieldID, field, newCrop, original.StartDate, newQuantity, ctx)
	if !ok {
		return nil, false
	}

	withoutOriginal := plan.WithRemoved(original.AllocationID)
	if ok, _ := ctx.Checker.IsFeasibleAddition(withoutOriginal, candidate); !ok {
		return nil, false
	}
	return plan.WithReplaced(original.AllocationID, candidate), true
}
