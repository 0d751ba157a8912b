package objective_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/objective"
)

// Scenario 1 of spec.md §8: quantity=4000, area_per_unit=0.25,
// revenue_per_area=50000, growth_days=134, daily_fixed_cost=5000.
func TestEvaluate_ScenarioOne(t *testing.T) {
	field := &models.Field{FieldID: "f1", DailyFixedCost: 5000}
	crop := &models.CropProfile{CropID: "rice", AreaPerUnit: 0.25, RevenuePerArea: 50000}

	fn := objective.New()
	cost, revenue, profit := fn.Evaluate(field, crop, 4000, 134)

	assert.InDelta(t, 670000, cost, 0.001)
	assert.InDelta(t, 50000000, revenue, 0.001)
	assert.InDelta(t, 49330000, profit, 0.001)
}

func TestEvaluate_SoilAdjustmentMultipliesRevenue(t *testing.T) {
	field := &models.Field{FieldID: "f1", DailyFixedCost: 0, SoilType: "loamy_soil"}
	crop := &models.CropProfile{
		CropID: "tomato", AreaPerUnit: 1, RevenuePerArea: 100,
		SoilAdjustment: map[string]float64{"loamy_soil": 1.2},
	}

	fn := objective.New()
	_, revenue, _ := fn.Evaluate(field, crop, 10, 1)
	assert.InDelta(t, 1200, revenue, 0.001)
}

func TestPlanProfit_SumsAllocations(t *testing.T) {
	plan := models.NewPlan()
	plan.Allocations = []models.CropAllocation{
		{AllocationID: "a1", Profit: 100},
		{AllocationID: "a2", Profit: 50},
	}
	fn := objective.New()
	assert.Equal(t, 150.0, fn.PlanProfit(plan))
}
