// Package greedy implements GreedyAllocator (spec.md §4.5): composes
// PeriodOptimizer and FeasibilityChecker to build an initial plan by
// repeatedly accepting the highest-profit feasible candidate from a
// global candidate pool.
package greedy

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/urban-gardening/cropplanner/internal/feasibility"
	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/objective"
	"github.com/urban-gardening/cropplanner/internal/optimizer/period"
)

// QuantityLevels are the discrete fractions of max_quantity_for_field_crop
// paired with each period candidate (spec.md §4.5).
var QuantityLevels = []float64{1.0, 0.75, 0.5, 0.25}

// candidate is one fully-priced (field, crop, period, quantity) option in
// the global pool.
type candidate struct {
	field      *models.Field
	crop       *models.CropProfile
	period     period.Candidate
	quantity   float64
	allocation models.CropAllocation
}

// Allocator builds an initial feasible plan via the greedy algorithm.
type Allocator struct {
	periodOptimizer *period.Optimizer
	checker         *feasibility.Checker
	objective       objective.Function
	quantityLevels  []float64
}

// New builds an Allocator from a PeriodOptimizer and a FeasibilityChecker
// bound to the same catalog, using the default quantity levels.
func New(periodOptimizer *period.Optimizer, checker *feasibility.Checker) *Allocator {
	return &Allocator{
		periodOptimizer: periodOptimizer,
		checker:         checker,
		objective:       objective.New(),
		quantityLevels:  QuantityLevels,
	}
}

// WithQuantityLevels overrides the discrete quantity fractions paired
// with each period candidate (spec.md §6: optional request override).
func (a *Allocator) WithQuantityLevels(levels []float64) *Allocator {
	if len(levels) > 0 {
		a.quantityLevels = levels
	}
	return a
}

// Allocate runs the full greedy algorithm over every (field, crop) pair in
// pairs, within [windowStart, windowEnd], and returns a feasible initial
// plan plus the candidates that were never accepted (a source for the
// NeighborhoodEngine's Insert operator, spec.md §4.6). The plan may be
// empty if no candidate is feasible.
func (a *Allocator) Allocate(ctx context.Context, pairs []period.FieldCropPair, windowStart, windowEnd time.Time) (*models.OptimizationPlan, []models.CropAllocation, error) {
	pairResults, err := a.periodOptimizer.OptimizeAll(ctx, pairs, windowStart, windowEnd)
	if err != nil {
		return nil, nil, err
	}

	pool := a.buildPool(pairResults)
	plan := models.NewPlan()

	for {
		idx := a.pickBest(plan, pool)
		if idx < 0 {
			break
		}
		chosen := pool[idx]
		plan = plan.WithAdded(chosen.allocation)
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	rejected := make([]models.CropAllocation, 0, len(pool))
	for _, c := range pool {
		rejected = append(rejected, c.allocation)
	}

	return plan, rejected, nil
}

// buildPool expands every ranked period candidate into one priced
// candidate per quantity level (spec.md §4.5 step 1).
func (a *Allocator) buildPool(pairResults []period.PairResult) []candidate {
	var pool []candidate
	for _, pr := range pairResults {
		maxQuantity := pr.Crop.MaxQuantityForField(pr.Field)
		for _, pc := range pr.Candidates {
			for _, level := range a.quantityLevels {
				quantity := maxQuantity * level
				if quantity <= 0 {
					continue
				}
				areaUsed := quantity * pr.Crop.AreaPerUnit
				cost, revenue, profit := a.objective.Evaluate(pr.Field, pr.Crop, quantity, pc.GrowthDays)
				alloc := models.CropAllocation{
					AllocationID:   uuid.NewString(),
					FieldID:        pr.Field.FieldID,
					CropID:         pr.Crop.CropID,
					StartDate:      pc.StartDate,
					CompletionDate: pc.CompletionDate,
					Quantity:       quantity,
					AreaUsed:       areaUsed,
					GrowthDays:     pc.GrowthDays,
					Cost:           cost,
					Revenue:        revenue,
					Profit:         profit,
				}
				pool = append(pool, candidate{
					field:      pr.Field,
					crop:       pr.Crop,
					period:     pc,
					quantity:   quantity,
					allocation: alloc,
				})
			}
		}
	}
	return pool
}

// pickBest returns the index of the highest-profit feasible candidate in
// pool, tie-breaking by earlier start date, then lexicographically
// smaller field_id, then crop_id (spec.md §4.5 "Tie-breaking"). Returns -1
// if no candidate in the pool is feasible.
func (a *Allocator) pickBest(plan *models.OptimizationPlan, pool []candidate) int {
	ranked := make([]int, len(pool))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := pool[ranked[i]], pool[ranked[j]]
		if ci.allocation.Profit != cj.allocation.Profit {
			return ci.allocation.Profit > cj.allocation.Profit
		}
		if !ci.allocation.StartDate.Equal(cj.allocation.StartDate) {
			return ci.allocation.StartDate.Before(cj.allocation.StartDate)
		}
		if ci.field.FieldID != cj.field.FieldID {
			return ci.field.FieldID < cj.field.FieldID
		}
		return ci.crop.CropID < cj.crop.CropID
	})

	for _, idx := range ranked {
		if ok, _ := a.checker.IsFeasibleAddition(plan, pool[idx].allocation); ok {
			return idx
		}
	}
	return -1
}
