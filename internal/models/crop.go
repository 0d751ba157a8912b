package models

import (
	"fmt"
	"math"
	"time"
)

// CropProfile is an immutable thermal/economic profile for one crop.
type CropProfile struct {
	CropID          string
	Name            string
	AreaPerUnit     float64 // m² per unit (plant/stand)
	RevenuePerArea  float64 // currency per m² per cycle
	RequiredGDD     float64
	HarvestStartGDD float64 // optional; 0 means unset
	BaseTemperature float64 // optional; 0 means "use default 10.0"
	// LatestCompletionDate, when HasDeadline is true, tightens the
	// planning horizon end for allocations of this crop (spec.md §6
	// deadline): the effective deadline is whichever of the two is
	// earlier.
	HasDeadline          bool
	LatestCompletionDate time.Time
	// SoilAdjustment is domain-supplement texture (SPEC_FULL.md §12):
	// a soil-type keyed multiplier applied to RevenuePerArea when the
	// field the crop is grown on declares a matching SoilType.
	SoilAdjustment map[string]float64
}

// DefaultBaseTemperature is used when a CropProfile does not specify one.
const DefaultBaseTemperature = 10.0

// EffectiveBaseTemperature returns the crop's configured base temperature,
// or DefaultBaseTemperature when unset (spec.md §4.1).
func (c *CropProfile) EffectiveBaseTemperature() float64 {
	if c.BaseTemperature <= 0 {
		return DefaultBaseTemperature
	}
	return c.BaseTemperature
}

// Validate enforces CropProfile's invariants (spec.md §3): positive
// area-per-unit, non-negative revenue, positive thermal requirement, and
// harvest_start_gdd <= required_gdd when both are present.
func (c *CropProfile) Validate() error {
	if c.CropID == "" {
		return fmt.Errorf("crop: crop_id is required")
	}
	if c.AreaPerUnit <= 0 {
		return fmt.Errorf("crop %s: area_per_unit must be positive, got %v", c.CropID, c.AreaPerUnit)
	}
	if c.RevenuePerArea < 0 {
		return fmt.Errorf("crop %s: revenue_per_area must be non-negative, got %v", c.CropID, c.RevenuePerArea)
	}
	if c.RequiredGDD <= 0 {
		return fmt.Errorf("crop %s: required_gdd must be positive, got %v", c.CropID, c.RequiredGDD)
	}
	if c.HarvestStartGDD > 0 && c.HarvestStartGDD > c.RequiredGDD {
		return fmt.Errorf("crop %s: harvest_start_gdd (%v) must be <= required_gdd (%v)",
			c.CropID, c.HarvestStartGDD, c.RequiredGDD)
	}
	return nil
}

// RevenueMultiplier returns the soil adjustment multiplier for the given
// soil type, or 1.0 when the crop declares no adjustment for that soil
// (or the field has no soil type at all).
func (c *CropProfile) RevenueMultiplier(soilType string) float64 {
	if soilType == "" || c.SoilAdjustment == nil {
		return 1.0
	}
	if factor, ok := c.SoilAdjustment[soilType]; ok {
		return factor
	}
	return 1.0
}

// MaxQuantityForField returns floor(field.area / crop.area_per_unit), the
// maximum number of units of this crop that fit in the given field
// (spec.md §4.5).
func (c *CropProfile) MaxQuantityForField(field *Field) float64 {
	if c.AreaPerUnit <= 0 {
		return 0
	}
	units := field.AreaSqMeters / c.AreaPerUnit
	// Nudge by a small epsilon before flooring to absorb floating point
	// error introduced by the division above (e.g. 1000/0.25 landing at
	// 3999.9999999999995 instead of exactly 4000).
	return math.Floor(units + 1e-9)
}
