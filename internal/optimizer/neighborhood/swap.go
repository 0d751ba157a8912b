package neighborhood

import (
	"sort"

	"github.com/urban-gardening/cropplanner/internal/models"
)

// Swap is the area-equivalent swap (spec.md §4.6): given A on field X and
// B on field Y (X != Y), produces A' on Y and B' on X with quantities
// adjusted so the area each consumes on its new field equals what the
// other was consuming there. The sum of occupied area is preserved
// exactly; either leg is rejected if its recomputed quantity doesn't fit
// its new field's area capacity or temporal constraints.
type Swap struct{}

func (Swap) Name() string { return "swap" }

func (Swap) Apply(plan *models.OptimizationPlan, ctx *Context) (*models.OptimizationPlan, bool) {
	byField := plan.ByField()
	var fieldIDs []string
	for fieldID, allocs := range byField {
		if len(allocs) > 0 {
			fieldIDs = append(fieldIDs, fieldID)
		}
	}
	if len(fieldIDs) < 2 {
		return nil, false
	}
	sort.Strings(fieldIDs)

	xIdx := pickRandomIndex(len(fieldIDs), ctx.Rng)
	fieldX := fieldIDs[xIdx]
	remaining := append(append([]string{}, fieldIDs[:xIdx]...), fieldIDs[xIdx+1:]...)
	fieldY := remaining[pickRandomIndex(len(remaining), ctx.Rng)]

	allocA := byField[fieldX][pickRandomIndex(len(byField[fieldX]), ctx.Rng)]
	allocB := byField[fieldY][pickRandomIndex(len(byField[fieldY]), ctx.Rng)]

	fX, ok := ctx.Catalog.Field(fieldX)
	if !ok {
		return nil, false
	}
	fY, ok := ctx.Catalog.Field(fieldY)
	if !ok {
		return nil, false
	}
	cropA, ok := ctx.Catalog.Crop(allocA.CropID)
	if !ok {
		return nil, false
	}
	cropB, ok := ctx.Catalog.Crop(allocB.CropID)
	if !ok {
		return nil, false
	}

	newQuantityAOnY := allocB.AreaUsed / cropA.AreaPerUnit
	newQuantityBOnX := allocA.AreaUsed / cropB.AreaPerUnit

	if newQuantityAOnY*cropA.AreaPerUnit > fY.AreaSqMeters+1e-9 {
		return nil, false
	}
	if newQuantityBOnX*cropB.AreaPerUnit > fX.AreaSqMeters+1e-9 {
		return nil, false
	}

	candidateA, ok := priced(allocA.AllocationID, fieldY, fY, cropA, allocA.StartDate, newQuantityAOnY, ctx)
	if !ok {
		return nil, false
	}
	candidateB, ok := priced(allocB.AllocationID, fieldX, fX, cropB, allocB.StartDate, newQuantityBOnX, ctx)
	if !ok {
		return nil, false
	}

	withoutBoth := plan.WithRemoved(allocA.AllocationID).WithRemoved(allocB.AllocationID)
	if ok, _ := ctx.Checker.IsFeasibleAddition(withoutBoth, candidateA); !ok {
		return nil, false
	}
	withA := withoutBoth.WithAdded(candidateA)
	if ok, _ := ctx.Checker.IsFeasibleAddition(withA, candidateB); !ok {
		return nil, false
	}
	return withA.WithAdded(candidateB), true
}
