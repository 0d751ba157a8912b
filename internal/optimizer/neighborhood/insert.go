package neighborhood

import "github.com/urban-gardening/cropplanner/internal/models"

// Insert adds a new allocation from the candidate pool GreedyAllocator
// rejected, assigning it a fresh identity (spec.md §4.6).
type Insert struct{}

func (Insert) Name() string { return "insert" }

func (Insert) Apply(plan *models.OptimizationPlan, ctx *Context) (*models.OptimizationPlan, bool) {
	if len(ctx.Pool) == 0 {
		return nil, false
	}
	idx := pickRandomIndex(len(ctx.Pool), ctx.Rng)
	candidate := ctx.Pool[idx].Clone()
	candidate.AllocationID = newAllocationID()

	if ok, _ := ctx.Checker.IsFeasibleAddition(plan, candidate); !ok {
		return nil, false
	}
	return plan.WithAdded(candidate), true
}

// Remove drops a randomly selected allocation from the plan. Removal is
// always feasible against the remaining allocations (spec.md §4.6).
type Remove struct{}

func (Remove) Name() string { return "remove" }

func (Remove) Apply(plan *models.OptimizationPlan, ctx *Context) (*models.OptimizationPlan, bool) {
	if len(plan.Allocations) == 0 {
		return nil, false
	}
	idx := pickRandomIndex(len(plan.Allocations), ctx.Rng)
	target := plan.Allocations[idx]
	return plan.WithRemoved(target.AllocationID), true
}
