package models

import "sort"

// OptimizationPlan is an ordered set of CropAllocations across all fields.
// Plans exclusively own their allocations (spec.md §3 Ownership); the
// canonical order is (field_id, start_date, allocation_id), per spec.md §5.
type OptimizationPlan struct {
	Allocations []CropAllocation
}

// NewPlan returns an empty plan.
func NewPlan() *OptimizationPlan {
	return &OptimizationPlan{}
}

// Clone returns a deep-enough copy: a new plan owning a new allocation
// slice, so mutating the clone never affects the original (spec.md §3
// Ownership: "the old plan remains valid until discarded by the driver").
func (p *OptimizationPlan) Clone() *OptimizationPlan {
	cloned := make([]CropAllocation, len(p.Allocations))
	copy(cloned, p.Allocations)
	return &OptimizationPlan{Allocations: cloned}
}

// WithAdded returns a new plan with the candidate appended, canonical
// order restored. The receiver is left untouched.
func (p *OptimizationPlan) WithAdded(candidate CropAllocation) *OptimizationPlan {
	next := p.Clone()
	next.Allocations = append(next.Allocations, candidate)
	next.Canonicalize()
	return next
}

// WithReplaced returns a new plan with the allocation matching
// allocationID replaced by replacement. If no match exists the plan is
// returned unchanged (caller should check presence beforehand).
func (p *OptimizationPlan) WithReplaced(allocationID string, replacement CropAllocation) *OptimizationPlan {
	next := p.Clone()
	for i := range next.Allocations {
		if next.Allocations[i].AllocationID == allocationID {
			next.Allocations[i] = replacement
			next.Canonicalize()
			return next
		}
	}
	return next
}

// WithRemoved returns a new plan with the allocation matching
// allocationID dropped.
func (p *OptimizationPlan) WithRemoved(allocationID string) *OptimizationPlan {
	next := NewPlan()
	for _, a := range p.Allocations {
		if a.AllocationID != allocationID {
			next.Allocations = append(next.Allocations, a)
		}
	}
	next.Canonicalize()
	return next
}

// Canonicalize sorts allocations by (field_id, start_date, allocation_id),
// the ordering spec.md §5 requires every component to iterate in.
func (p *OptimizationPlan) Canonicalize() {
	sort.SliceStable(p.Allocations, func(i, j int) bool {
		a, b := p.Allocations[i], p.Allocations[j]
		if a.FieldID != b.FieldID {
			return a.FieldID < b.FieldID
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.AllocationID < b.AllocationID
	})
}

// ByField groups allocations by field id, preserving canonical order
// within each group.
func (p *OptimizationPlan) ByField() map[string][]CropAllocation {
	grouped := make(map[string][]CropAllocation)
	for _, a := range p.Allocations {
		grouped[a.FieldID] = append(grouped[a.FieldID], a)
	}
	return grouped
}

// Find returns the allocation with the given id and whether it was found.
func (p *OptimizationPlan) Find(allocationID string) (CropAllocation, bool) {
	for _, a := range p.Allocations {
		if a.AllocationID == allocationID {
			return a, true
		}
	}
	return CropAllocation{}, false
}

// TotalProfit sums per-allocation profit across the whole plan (spec.md
// §8: "Plan profit equals the sum of per-allocation profits").
func (p *OptimizationPlan) TotalProfit() float64 {
	total := 0.0
	for _, a := range p.Allocations {
		total += a.Profit
	}
	return total
}

// TotalCost sums per-allocation cost across the whole plan.
func (p *OptimizationPlan) TotalCost() float64 {
	total := 0.0
	for _, a := range p.Allocations {
		total += a.Cost
	}
	return total
}

// TotalRevenue sums per-allocation revenue across the whole plan.
func (p *OptimizationPlan) TotalRevenue() float64 {
	total := 0.0
	for _, a := range p.Allocations {
		total += a.Revenue
	}
	return total
}
