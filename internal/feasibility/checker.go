// Package feasibility implements FeasibilityChecker (spec.md §4.3): area
// capacity, fallow-aware temporal non-overlap, deadline, and interaction
// rules. All iteration over allocations uses the canonical
// (field_id, start_date, allocation_id) order for deterministic outcomes
// (spec.md §5).
//
// Same-field concurrent occupancy is resolved per spec.md §9's stated
// safer default: exclusive occupancy per field for the full occupancy
// interval including fallow. Two allocations on one field may never share
// any day of [start_date, completion_date + fallow_period_days], even if
// their combined area would fit (DESIGN.md "Open Question decisions").
package feasibility

import (
	"fmt"

	"github.com/urban-gardening/cropplanner/internal/models"
	plannererrors "github.com/urban-gardening/cropplanner/internal/utils/errors"
)

// Reason explains a rejected candidate, in the fixed precedence order of
// spec.md §4.3: area > non-overlap > deadline > interaction.
type Reason struct {
	Code    string
	Message string
}

const (
	ReasonArea        = "AREA_EXCEEDED"
	ReasonNonOverlap  = "NON_OVERLAP"
	ReasonDeadline    = "DEADLINE_EXCEEDED"
	ReasonInteraction = "INTERACTION_RULE"
	ReasonNonNegative = "NON_NEGATIVE"
)

// Checker evaluates candidate allocations against a Catalog's fields,
// crops and interaction rules.
type Checker struct {
	catalog *models.Catalog
}

// New builds a Checker bound to a Catalog of shared-read-only inputs.
func New(catalog *models.Catalog) *Checker {
	return &Checker{catalog: catalog}
}

// IsFeasibleAddition reports whether candidate can be added to plan,
// returning the single highest-precedence violated Reason when it cannot.
func (c *Checker) IsFeasibleAddition(plan *models.OptimizationPlan, candidate models.CropAllocation) (bool, *Reason) {
	if reason := c.checkNonNegative(candidate); reason != nil {
		return false, reason
	}

	field, ok := c.catalog.Field(candidate.FieldID)
	if !ok {
		return false, &Reason{Code: ReasonArea, Message: fmt.Sprintf("unknown field %s", candidate.FieldID)}
	}

	existing := plan.ByField()[candidate.FieldID]

	if reason := c.checkArea(field, existing, candidate); reason != nil {
		return false, reason
	}
	if reason := c.checkNonOverlap(field, existing, candidate); reason != nil {
		return false, reason
	}
	if reason := c.checkDeadline(candidate); reason != nil {
		return false, reason
	}
	if reason := c.checkInteraction(existing, candidate); reason != nil {
		return false, reason
	}

	return true, nil
}

// IsFeasiblePlan validates every allocation in plan pairwise, returning
// every violated Reason found (for tests, spec.md §4.3).
func (c *Checker) IsFeasiblePlan(plan *models.OptimizationPlan) []Reason {
	var reasons []Reason
	byField := plan.ByField()

	for fieldID, allocations := range byField {
		field, ok := c.catalog.Field(fieldID)
		if !ok {
			reasons = append(reasons, Reason{Code: ReasonArea, Message: "unknown field " + fieldID})
			continue
		}
		for i, candidate := range allocations {
			others := append(append([]models.CropAllocation{}, allocations[:i]...), allocations[i+1:]...)
			if reason := c.checkArea(field, others, candidate); reason != nil {
				reasons = append(reasons, *reason)
			}
			if reason := c.checkNonOverlap(field, others, candidate); reason != nil {
				reasons = append(reasons, *reason)
			}
			if reason := c.checkDeadline(candidate); reason != nil {
				reasons = append(reasons, *reason)
			}
			if reason := c.checkInteraction(others, candidate); reason != nil {
				reasons = append(reasons, *reason)
			}
		}
	}
	return reasons
}

func (c *Checker) checkNonNegative(candidate models.CropAllocation) *Reason {
	if candidate.Quantity < 0 {
		return &Reason{Code: ReasonNonNegative, Message: "quantity must be non-negative"}
	}
	if candidate.CompletionDate.Before(candidate.StartDate) {
		return &Reason{Code: ReasonNonNegative, Message: "completion_date must not precede start_date"}
	}
	return nil
}

// checkArea enforces spec.md §4.3 rule 1: for each day in the candidate's
// raw occupancy interval, the sum of area_used across allocations
// occupying the field that day (including candidate) must not exceed the
// field's area.
func (c *Checker) checkArea(field *models.Field, existing []models.CropAllocation, candidate models.CropAllocation) *Reason {
	for day := candidate.StartDate; !day.After(candidate.CompletionDate); day = day.AddDate(0, 0, 1) {
		sum := candidate.AreaUsed
		for _, other := range existing {
			if other.AllocationID == candidate.AllocationID {
				continue
			}
			if !day.Before(other.StartDate) && !day.After(other.CompletionDate) {
				sum += other.AreaUsed
			}
		}
		if sum > field.AreaSqMeters+1e-9 {
			return &Reason{
				Code: ReasonArea,
				Message: fmt.Sprintf("field %s exceeds area %.4f on %s (required %.4f)",
					field.FieldID, field.AreaSqMeters, day.Format("2006-01-02"), sum),
			}
		}
	}
	return nil
}

// checkNonOverlap enforces the exclusive-occupancy-with-fallow policy.
func (c *Checker) checkNonOverlap(field *models.Field, existing []models.CropAllocation, candidate models.CropAllocation) *Reason {
	for _, other := range existing {
		if other.AllocationID == candidate.AllocationID {
			continue
		}
		if candidate.OverlapsWithFallow(&other, field.FallowPeriodDays) {
			return &Reason{
				Code: ReasonNonOverlap,
				Message: fmt.Sprintf("allocation overlaps %s on field %s within fallow-extended occupancy",
					other.AllocationID, field.FieldID),
			}
		}
	}
	return nil
}

func (c *Checker) checkDeadline(candidate models.CropAllocation) *Reason {
	deadline := c.catalog.PlanningEnd
	if crop, ok := c.catalog.Crop(candidate.CropID); ok && crop.HasDeadline && crop.LatestCompletionDate.Before(deadline) {
		deadline = crop.LatestCompletionDate
	}
	if candidate.CompletionDate.After(deadline) {
		return &Reason{
			Code: ReasonDeadline,
			Message: fmt.Sprintf("completion date %s exceeds deadline %s",
				candidate.CompletionDate.Format("2006-01-02"), deadline.Format("2006-01-02")),
		}
	}
	return nil
}

// checkInteraction enforces spec.md §4.3 rule 4: directional predecessor
// -> successor rules with a minimum gap, and outright-forbidden pairs.
func (c *Checker) checkInteraction(existing []models.CropAllocation, candidate models.CropAllocation) *Reason {
	for _, other := range existing {
		if other.AllocationID == candidate.AllocationID {
			continue
		}

		var pred, succ models.CropAllocation
		var predCrop, succCrop string
		if other.CompletionDate.Before(candidate.StartDate) {
			pred, succ = other, candidate
			predCrop, succCrop = other.CropID, candidate.CropID
		} else if candidate.CompletionDate.Before(other.StartDate) {
			pred, succ = candidate, other
			predCrop, succCrop = candidate.CropID, other.CropID
		} else {
			continue
		}

		for _, rule := range c.catalog.RulesFor(predCrop, succCrop) {
			if !rule.Applies(predCrop, succCrop) {
				continue
			}
			if rule.Forbidden {
				return &Reason{
					Code:    ReasonInteraction,
					Message: fmt.Sprintf("crop %s forbidden after %s", succCrop, predCrop),
				}
			}
			gap := int(succ.StartDate.Sub(pred.CompletionDate).Hours() / 24)
			if gap < rule.MinGapDays {
				return &Reason{
					Code: ReasonInteraction,
					Message: fmt.Sprintf("gap %d days between %s and %s is below required %d",
						gap, predCrop, succCrop, rule.MinGapDays),
				}
			}
		}
	}
	return nil
}

// AsError wraps a Reason as an InfeasibleConstraint domain error (spec.md
// §7), for callers that need an error value rather than a bool/Reason
// pair (e.g. the HTTP adjust boundary).
func AsError(r *Reason) error {
	if r == nil {
		return nil
	}
	return plannererrors.New(plannererrors.KindInfeasibleConstraint, r.Message, map[string]interface{}{
		"reason_code": r.Code,
	})
}
