package neighborhood_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-gardening/cropplanner/internal/feasibility"
	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/objective"
	"github.com/urban-gardening/cropplanner/internal/optimizer/neighborhood"
	"github.com/urban-gardening/cropplanner/internal/weather"
)

func mkDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func constantSeries(tMean float64, start, end time.Time) *weather.Series {
	var records []models.WeatherRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		records = append(records, models.WeatherRecord{Date: d, TMean: tMean})
	}
	return weather.NewSeries(records)
}

func twoFieldContext(t *testing.T, rng *rand.Rand) (*models.Catalog, *neighborhood.Context, *models.OptimizationPlan) {
	t.Helper()
	series := constantSeries(25, mkDate("2024-01-01"), mkDate("2024-12-31"))
	fields := []models.Field{
		{FieldID: "f1", AreaSqMeters: 1000, DailyFixedCost: 50},
		{FieldID: "f2", AreaSqMeters: 1000, DailyFixedCost: 80},
	}
	crops := []models.CropProfile{
		{CropID: "rice", AreaPerUnit: 1, RevenuePerArea: 100, RequiredGDD: 150, BaseTemperature: 10},
		{CropID: "wheat", AreaPerUnit: 2, RevenuePerArea: 80, RequiredGDD: 150, BaseTemperature: 10},
	}
	catalog := models.NewCatalog(fields, crops, nil, mkDate("2024-01-01"), mkDate("2024-12-31"))
	checker := feasibility.New(catalog)

	ctx := &neighborhood.Context{
		Catalog:   catalog,
		Checker:   checker,
		Objective: objective.New(),
		Series:    series,
		Rng:       rng,
	}

	plan := models.NewPlan()
	plan = plan.WithAdded(models.CropAllocation{
		AllocationID: "a1", FieldID: "f1", CropID: "rice",
		StartDate: mkDate("2024-02-01"), CompletionDate: mkDate("2024-02-15"),
		Quantity: 100, AreaUsed: 100, GrowthDays: 15,
	})
	plan = plan.WithAdded(models.CropAllocation{
		AllocationID: "a2", FieldID: "f2", CropID: "wheat",
		StartDate: mkDate("2024-03-01"), CompletionDate: mkDate("2024-03-15"),
		Quantity: 50, AreaUsed: 100, GrowthDays: 15,
	})
	return catalog, ctx, plan
}

func TestMove_RelocatesAllocationToAnotherField(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ctx, plan := twoFieldContext(t, rng)

	next, ok := (neighborhood.Move{}).Apply(plan, ctx)
	if !ok {
		t.Skip("move rejected by this seed's random field/allocation pick")
	}
	require.NotNil(t, next)
	assert.Len(t, next.Allocations, len(plan.Allocations))
}

func TestRemove_DropsOneAllocation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ctx, plan := twoFieldContext(t, rng)

	next, ok := (neighborhood.Remove{}).Apply(plan, ctx)
	require.True(t, ok)
	assert.Len(t, next.Allocations, len(plan.Allocations)-1)
}

func TestChangeCrop_PreservesAreaUsed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	_, ctx, plan := twoFieldContext(t, rng)

	originalByID := make(map[string]models.CropAllocation, len(plan.Allocations))
	for _, a := range plan.Allocations {
		originalByID[a.AllocationID] = a
	}

	for i := 0; i < 20; i++ {
		next, ok := (neighborhood.ChangeCrop{}).Apply(plan, ctx)
		if !ok {
			continue
		}
		require.NotNil(t, next)

		var changed models.CropAllocation
		var original models.CropAllocation
		for _, a := range next.Allocations {
			orig, ok := originalByID[a.AllocationID]
			require.True(t, ok)
			if a.CropID != orig.CropID {
				changed, original = a, orig
				break
			}
		}
		require.NotEmpty(t, changed.AllocationID, "expected one allocation to have changed crop")
		assert.InDelta(t, original.AreaUsed, changed.AreaUsed, 1e-6)
		return
	}
	t.Fatal("ChangeCrop never fired in 20 attempts")
}

func TestSwap_ExchangesCropsBetweenFieldsWithAreaEquivalentQuantities(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ctx, plan := twoFieldContext(t, rng)

	var ok bool
	var next *models.OptimizationPlan
	for i := 0; i < 50; i++ {
		next, ok = (neighborhood.Swap{}).Apply(plan, ctx)
		if ok {
			break
		}
	}
	require.True(t, ok, "swap never accepted across 50 attempts")
	require.NotNil(t, next)
	assert.Len(t, next.Allocations, len(plan.Allocations))

	original := make(map[string]models.CropAllocation, len(plan.Allocations))
	for _, a := range plan.Allocations {
		original[a.AllocationID] = a
	}
	for _, a := range next.Allocations {
		before := original[a.AllocationID]
		assert.NotEqual(t, before.FieldID, a.FieldID, "swap must relocate each allocation to the other field")
		assert.Equal(t, before.CropID, a.CropID, "swap keeps each allocation's crop, only its field and quantity change")
	}

	totalBefore := 0.0
	for _, a := range plan.Allocations {
		totalBefore += a.AreaUsed
	}
	totalAfter := 0.0
	for _, a := range next.Allocations {
		totalAfter += a.AreaUsed
	}
	assert.InDelta(t, totalBefore, totalAfter, 1e-6, "swap must preserve total occupied area")
}

// swapScenarioContext reproduces spec.md §8 scenario 4's worked example:
// FieldA(500m²) holds rice (2000 units at 0.25 m²/unit = 500m²), FieldB
// (300m²) holds tomato (1000 units at 0.3 m²/unit = 300m²).
func swapScenarioContext(t *testing.T, rng *rand.Rand) (*neighborhood.Context, *models.OptimizationPlan) {
	t.Helper()
	series := constantSeries(25, mkDate("2024-01-01"), mkDate("2024-12-31"))
	fields := []models.Field{
		{FieldID: "fieldA", AreaSqMeters: 500, DailyFixedCost: 20},
		{FieldID: "fieldB", AreaSqMeters: 300, DailyFixedCost: 20},
	}
	crops := []models.CropProfile{
		{CropID: "rice", AreaPerUnit: 0.25, RevenuePerArea: 100, RequiredGDD: 150, BaseTemperature: 10},
		{CropID: "tomato", AreaPerUnit: 0.3, RevenuePerArea: 100, RequiredGDD: 150, BaseTemperature: 10},
	}
	catalog := models.NewCatalog(fields, crops, nil, mkDate("2024-01-01"), mkDate("2024-12-31"))
	checker := feasibility.New(catalog)

	ctx := &neighborhood.Context{
		Catalog:   catalog,
		Checker:   checker,
		Objective: objective.New(),
		Series:    series,
		Rng:       rng,
	}

	plan := models.NewPlan()
	plan = plan.WithAdded(models.CropAllocation{
		AllocationID: "rice-a", FieldID: "fieldA", CropID: "rice",
		StartDate: mkDate("2024-02-01"), CompletionDate: mkDate("2024-02-15"),
		Quantity: 2000, AreaUsed: 500, GrowthDays: 15,
	})
	plan = plan.WithAdded(models.CropAllocation{
		AllocationID: "tomato-b", FieldID: "fieldB", CropID: "tomato",
		StartDate: mkDate("2024-03-01"), CompletionDate: mkDate("2024-03-15"),
		Quantity: 1000, AreaUsed: 300, GrowthDays: 15,
	})
	return ctx, plan
}

func TestSwap_MatchesWorkedNumericExample(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ctx, plan := swapScenarioContext(t, rng)

	next, ok := (neighborhood.Swap{}).Apply(plan, ctx)
	require.True(t, ok)
	require.NotNil(t, next)
	require.Len(t, next.Allocations, 2)

	var riceAlloc, tomatoAlloc models.CropAllocation
	for _, a := range next.Allocations {
		switch a.CropID {
		case "rice":
			riceAlloc = a
		case "tomato":
			tomatoAlloc = a
		}
	}
	require.NotEmpty(t, riceAlloc.AllocationID, "expected rice allocation to survive the swap")
	require.NotEmpty(t, tomatoAlloc.AllocationID, "expected tomato allocation to survive the swap")

	assert.Equal(t, "fieldB", riceAlloc.FieldID, "rice moves onto tomato's former field")
	assert.InDelta(t, 1200.0, riceAlloc.Quantity, 1e-6, "300m2 / 0.25 m2 per unit = 1200 units")
	assert.InDelta(t, 300.0, riceAlloc.AreaUsed, 1e-6)

	assert.Equal(t, "fieldA", tomatoAlloc.FieldID, "tomato moves onto rice's former field")
	assert.InDelta(t, 1666.666667, tomatoAlloc.Quantity, 1e-4, "500m2 / 0.3 m2 per unit = 1666.67 units")
	assert.InDelta(t, 500.0, tomatoAlloc.AreaUsed, 1e-6)

	totalBefore := 0.0
	for _, a := range plan.Allocations {
		totalBefore += a.AreaUsed
	}
	totalAfter := riceAlloc.AreaUsed + tomatoAlloc.AreaUsed
	assert.InDelta(t, totalBefore, totalAfter, 1e-6, "total occupied area is unchanged by the swap")
}

func TestInsert_AddsAllocationFromPoolWithFreshID(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ctx, plan := twoFieldContext(t, rng)

	pooled := models.CropAllocation{
		AllocationID: "rejected-candidate", FieldID: "f1", CropID: "wheat",
		StartDate: mkDate("2024-06-01"), CompletionDate: mkDate("2024-06-15"),
		Quantity: 40, AreaUsed: 80, GrowthDays: 15,
	}
	ctx.Pool = []models.CropAllocation{pooled}

	next, ok := (neighborhood.Insert{}).Apply(plan, ctx)
	require.True(t, ok)
	require.NotNil(t, next)
	assert.Len(t, next.Allocations, len(plan.Allocations)+1)

	var inserted models.CropAllocation
	var found bool
	for _, a := range next.Allocations {
		if a.FieldID == pooled.FieldID && a.CropID == pooled.CropID && a.StartDate.Equal(pooled.StartDate) {
			inserted, found = a, true
			break
		}
	}
	require.True(t, found, "expected the pooled candidate to appear in the resulting plan")
	assert.NotEqual(t, pooled.AllocationID, inserted.AllocationID, "Insert assigns a fresh allocation id")
	assert.InDelta(t, pooled.Quantity, inserted.Quantity, 1e-6)
	assert.InDelta(t, pooled.AreaUsed, inserted.AreaUsed, 1e-6)
}

func TestInsert_RejectsCandidateThatOverlapsWithoutFallowRoom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ctx, plan := twoFieldContext(t, rng)

	overlapping := models.CropAllocation{
		AllocationID: "rejected-candidate", FieldID: "f1", CropID: "rice",
		StartDate: mkDate("2024-02-05"), CompletionDate: mkDate("2024-02-20"),
		Quantity: 30, AreaUsed: 30, GrowthDays: 15,
	}
	ctx.Pool = []models.CropAllocation{overlapping}

	_, ok := (neighborhood.Insert{}).Apply(plan, ctx)
	assert.False(t, ok, "candidate overlapping an existing allocation on the same field must be rejected")
}

func TestEngine_SelectRespectsWeights(t *testing.T) {
	ops := neighborhood.DefaultOperators()
	engine := neighborhood.NewEngine(ops)
	rng := rand.New(rand.NewSource(42))

	op, idx := engine.Select(rng)
	assert.NotNil(t, op)
	assert.GreaterOrEqual(t, idx, 0)

	engine.UpdateWeight(idx, 500)
	weights := engine.Weights()
	assert.Greater(t, weights[op.Name()], 1.0)
}

func TestEngine_UpdateWeightFloorsAtMinWeight(t *testing.T) {
	ops := neighborhood.DefaultOperators()
	engine := neighborhood.NewEngine(ops)
	for i := 0; i < 100; i++ {
		engine.UpdateWeight(0, 0)
	}
	weights := engine.Weights()
	assert.GreaterOrEqual(t, weights[ops[0].Name()], neighborhood.MinWeight)
}
