// Package objective implements the single-source-of-truth profit
// evaluator (spec.md §4.2): profit = revenue - cost, with
// cost = growth_days * field.daily_fixed_cost and
// revenue = quantity * crop.area_per_unit * crop.revenue_per_area. It is
// injected as an immutable value object into every component that needs
// it (spec.md §9), never a singleton.
package objective

import (
	"github.com/urban-gardening/cropplanner/internal/models"
)

// Function is the sole objective; there is no composite or weighted form.
type Function struct{}

// New returns the objective function value object.
func New() Function {
	return Function{}
}

// Evaluate computes cost, revenue and profit for a candidate allocation
// given its field, crop, quantity and growth days. It does not mutate its
// inputs; callers assign the results onto a CropAllocation value.
func (Function) Evaluate(field *models.Field, crop *models.CropProfile, quantity float64, growthDays int) (cost, revenue, profit float64) {
	cost = float64(growthDays) * field.DailyFixedCost
	revenuePerArea := crop.RevenuePerArea * crop.RevenueMultiplier(field.SoilType)
	revenue = quantity * crop.AreaPerUnit * revenuePerArea
	profit = revenue - cost
	return cost, revenue, profit
}

// PlanProfit sums per-allocation profit across a whole plan (spec.md §8:
// "Plan profit equals the sum of per-allocation profits, each computed by
// the single ObjectiveFunction").
func (f Function) PlanProfit(plan *models.OptimizationPlan) float64 {
	return plan.TotalProfit()
}
