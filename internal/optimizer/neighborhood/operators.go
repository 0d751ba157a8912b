// Package neighborhood implements NeighborhoodEngine (spec.md §4.6): the
// move/swap/replace/change-crop/insert/remove operators, each a pure
// function from a plan to a candidate next plan gated by
// FeasibilityChecker, plus the adaptive-weight bookkeeping ALNSDriver
// uses to pick among them via weighted roulette.
package neighborhood

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/urban-gardening/cropplanner/internal/feasibility"
	"github.com/urban-gardening/cropplanner/internal/gdd"
	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/objective"
	"github.com/urban-gardening/cropplanner/internal/weather"
)

// Context carries everything an operator needs beyond the plan itself:
// shared read-only inputs and the pool of candidates GreedyAllocator
// rejected (a source for Insert).
type Context struct {
	Catalog   *models.Catalog
	Checker   *feasibility.Checker
	Objective objective.Function
	Series    *weather.Series
	Pool      []models.CropAllocation
	Rng       *rand.Rand
}

// Operator takes a plan and produces a candidate next plan, or (nil,
// false) if it found nothing to do or its candidate was infeasible.
type Operator interface {
	Name() string
	Apply(plan *models.OptimizationPlan, ctx *Context) (*models.OptimizationPlan, bool)
}

// priced recomputes completion/growth days via GDDEvaluator and
// cost/revenue/profit via ObjectiveFunction for an allocation pinned to a
// given field, crop, start date and quantity. Returns false if the
// weather series can't support the start date (DeadlineMiss/WeatherGap).
func priced(id, fieldID string, field *models.Field, crop *models.CropProfile, startDate time.Time, quantity float64, ctx *Context) (models.CropAllocation, bool) {
	result, err := gdd.Evaluate(startDate, crop, ctx.Series)
	if err != nil {
		return models.CropAllocation{}, false
	}
	cost, revenue, profit := ctx.Objective.Evaluate(field, crop, quantity, result.GrowthDays)
	return models.CropAllocation{
		AllocationID:   id,
		FieldID:        fieldID,
		CropID:         crop.CropID,
		StartDate:      startDate,
		CompletionDate: result.CompletionDate,
		Quantity:       quantity,
		AreaUsed:       quantity * crop.AreaPerUnit,
		GrowthDays:     result.GrowthDays,
		Cost:           cost,
		Revenue:        revenue,
		Profit:         profit,
	}, true
}

func pickRandomIndex(n int, rng *rand.Rand) int {
	if n == 0 {
		return -1
	}
	return rng.Intn(n)
}

// newAllocationID generates a fresh id for operators that introduce a new
// allocation identity rather than replacing one in place (Insert).
func newAllocationID() string {
	return uuid.NewString()
}
