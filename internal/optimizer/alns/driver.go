// Package alns implements ALNSDriver (spec.md §4.7): the outer
// Adaptive Large Neighborhood Search loop that starts from the greedy
// plan and repeatedly selects a neighborhood operator by weighted
// roulette, applies it, accepts or rejects the result under a
// simulated-annealing rule, and tracks the best plan seen.
package alns

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/objective"
	"github.com/urban-gardening/cropplanner/internal/optimizer/neighborhood"
)

// DefaultCoolingRatio is alpha, the per-iteration geometric temperature
// decay (spec.md §4.7).
const DefaultCoolingRatio = 0.995

// DefaultNoImprovementLimit is N, the number of consecutive
// non-improving iterations that ends the search (spec.md §4.7).
const DefaultNoImprovementLimit = 200

// DefaultInitialDropProbability is the acceptance probability the
// initial temperature is calibrated to give a 1% profit drop (spec.md
// §4.7: "T0 default such that a 1% profit drop accepts with probability
// ~0.5 initially").
const DefaultInitialDropProbability = 0.5

// Params configures one ALNSDriver run. In New, a non-positive
// NoImprovementLimit, CoolingRatio or MaxIterations falls back to its
// default (200, 0.995, 10000). A zero MaxDuration means no wall-clock
// budget, and Seed is used as given.
type Params struct {
	MaxIterations      int
	MaxDuration        time.Duration
	NoImprovementLimit int
	CoolingRatio       float64
	Seed               int64
}

// Result is the outcome of a Run: the best plan found and the number of
// iterations actually executed.
type Result struct {
	BestPlan   *models.OptimizationPlan
	Iterations int
	Cancelled  bool
}

// Driver runs the ALNS outer loop over a NeighborhoodEngine.
type Driver struct {
	engine    *neighborhood.Engine
	objective objective.Function
	params    Params
}

// New builds a Driver, filling in default Params for any zero-valued
// field.
func New(engine *neighborhood.Engine, params Params) *Driver {
	if params.NoImprovementLimit <= 0 {
		params.NoImprovementLimit = DefaultNoImprovementLimit
	}
	if params.CoolingRatio <= 0 {
		params.CoolingRatio = DefaultCoolingRatio
	}
	if params.MaxIterations <= 0 {
		params.MaxIterations = 10000
	}
	return &Driver{engine: engine, objective: objective.New(), params: params}
}

// initialTemperature calibrates T0 so that a 1% drop in initialProfit
// accepts with DefaultInitialDropProbability (spec.md §4.7). When
// initialProfit is non-positive, a small fixed floor is used instead so
// the acceptance rule degenerates gracefully rather than dividing by
// zero.
func initialTemperature(initialProfit float64) float64 {
	if initialProfit <= 0 {
		return 1.0
	}
	drop := 0.01 * initialProfit
	return -drop / math.Log(DefaultInitialDropProbability)
}

// Run executes the outer loop starting from greedyPlan, honoring ctx
// cancellation and the configured wall-clock/iteration/no-improvement
// budgets, and returns the best plan found (spec.md §5: "on cancellation,
// the best-so-far plan is returned").
func (d *Driver) Run(ctx context.Context, greedyPlan *models.OptimizationPlan, neighborhoodCtx *neighborhood.Context) Result {
	rng := rand.New(rand.NewSource(d.params.Seed))

	current := greedyPlan
	currentProfit := d.objective.PlanProfit(current)
	best := current
	bestProfit := currentProfit

	temperature := initialTemperature(currentProfit)
	deadline := time.Time{}
	if d.params.MaxDuration > 0 {
		deadline = time.Now().Add(d.params.MaxDuration)
	}

	noImprovementStreak := 0
	iteration := 0

	for iteration < d.params.MaxIterations {
		select {
		case <-ctx.Done():
			return Result{BestPlan: best, Iterations: iteration, Cancelled: true}
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return Result{BestPlan: best, Iterations: iteration}
		}
		if noImprovementStreak >= d.params.NoImprovementLimit {
			return Result{BestPlan: best, Iterations: iteration}
		}

		iteration++
		neighborhoodCtx.Rng = rng

		op, opIdx := d.engine.Select(rng)
		candidatePlan, ok := op.Apply(current, neighborhoodCtx)
		if !ok {
			noImprovementStreak++
			temperature *= d.params.CoolingRatio
			continue
		}

		candidateProfit := d.objective.PlanProfit(candidatePlan)
		delta := candidateProfit - currentProfit

		accepted := delta >= 0
		if !accepted && temperature > 0 {
			accepted = rng.Float64() < math.Exp(delta/temperature)
		}

		if accepted {
			current = candidatePlan
			currentProfit = candidateProfit
			d.engine.UpdateWeight(opIdx, math.Max(delta, 0))
		}

		if currentProfit > bestProfit {
			best = current
			bestProfit = currentProfit
			noImprovementStreak = 0
		} else {
			noImprovementStreak++
		}

		temperature *= d.params.CoolingRatio
	}

	return Result{BestPlan: best, Iterations: iteration}
}
