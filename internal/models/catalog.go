package models

import "time"

// Catalog is the side table resolving the stable ids carried by
// CropAllocation back to their Field/CropProfile entities, and holding the
// shared-read-only WeatherSeries and InteractionRules (spec.md §9 "avoid
// holding back-references"). A Catalog is built once per planning run from
// already-parsed input and is never mutated by the kernel.
type Catalog struct {
	Fields           map[string]*Field
	Crops            map[string]*CropProfile
	InteractionRules []InteractionRule
	PlanningStart    time.Time
	PlanningEnd      time.Time
}

// NewCatalog builds a Catalog from slices of fields and crops, indexing
// them by id.
func NewCatalog(fields []Field, crops []CropProfile, rules []InteractionRule, planningStart, planningEnd time.Time) *Catalog {
	c := &Catalog{
		Fields:           make(map[string]*Field, len(fields)),
		Crops:            make(map[string]*CropProfile, len(crops)),
		InteractionRules: rules,
		PlanningStart:    planningStart,
		PlanningEnd:      planningEnd,
	}
	for i := range fields {
		f := fields[i]
		c.Fields[f.FieldID] = &f
	}
	for i := range crops {
		cr := crops[i]
		c.Crops[cr.CropID] = &cr
	}
	return c
}

// Field looks up a field by id.
func (c *Catalog) Field(id string) (*Field, bool) {
	f, ok := c.Fields[id]
	return f, ok
}

// Crop looks up a crop profile by id.
func (c *Catalog) Crop(id string) (*CropProfile, bool) {
	cr, ok := c.Crops[id]
	return cr, ok
}

// RulesFor returns every interaction rule whose (predecessor, successor)
// pair is the given pair of crop ids in either order, in input order. It
// scans all rules; callers still filter by direction (directional
// symmetry is never assumed, spec.md §9).
func (c *Catalog) RulesFor(cropA, cropB string) []InteractionRule {
	var matched []InteractionRule
	for _, r := range c.InteractionRules {
		if (r.PredecessorCropID == cropA && r.SuccessorCropID == cropB) ||
			(r.PredecessorCropID == cropB && r.SuccessorCropID == cropA) {
			matched = append(matched, r)
		}
	}
	return matched
}
