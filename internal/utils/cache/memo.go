// Package cache provides process-local memoization for the PeriodOptimizer,
// keyed by a content fingerprint of the (field, crop, planning window,
// weather series) combination. Results are pure functions of those
// inputs, so a fingerprint-keyed entry can never go stale: any change to
// a field's attributes, a crop's attributes, or the weather series
// produces a different key, leaving the old entry orphaned rather than
// served to a caller reusing the same field_id/crop_id.
package cache

import (
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/urban-gardening/cropplanner/internal/models"
)

// PeriodCache memoizes PeriodOptimizer results per content fingerprint.
type PeriodCache struct {
	store *gocache.Cache
}

// NewPeriodCache creates an empty memoization cache with no default
// expiration; entries live until the process exits or are orphaned by a
// content change.
func NewPeriodCache() *PeriodCache {
	return &PeriodCache{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

// Key builds the memoization key for a (field, crop, planning window,
// weather series) combination, hashing every attribute that feeds
// PeriodOptimizer's DP so two requests that happen to reuse the same
// field_id/crop_id but differ in area, cost, thermal profile, or weather
// never collide.
func Key(field *models.Field, crop *models.CropProfile, windowStart, windowEnd time.Time, seriesFingerprint uint64) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "field:%s|%.6f|%.6f|%d|%s;",
		field.FieldID, field.AreaSqMeters, field.DailyFixedCost, field.FallowPeriodDays, field.SoilType)

	soilKeys := make([]string, 0, len(crop.SoilAdjustment))
	for k := range crop.SoilAdjustment {
		soilKeys = append(soilKeys, k)
	}
	sort.Strings(soilKeys)
	var soil string
	for _, k := range soilKeys {
		soil += fmt.Sprintf("%s=%.6f,", k, crop.SoilAdjustment[k])
	}
	fmt.Fprintf(h, "crop:%s|%.6f|%.6f|%.6f|%.6f|%.6f|%t|%s|%s;",
		crop.CropID, crop.AreaPerUnit, crop.RevenuePerArea, crop.RequiredGDD,
		crop.HarvestStartGDD, crop.BaseTemperature, crop.HasDeadline,
		crop.LatestCompletionDate.Format("2006-01-02"), soil)

	fmt.Fprintf(h, "window:%s|%s;weather:%d",
		windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02"), seriesFingerprint)

	return fmt.Sprintf("%x", h.Sum64())
}

// Get retrieves a memoized value, if present.
func (c *PeriodCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set stores a memoized value with no expiration.
func (c *PeriodCache) Set(key string, value interface{}) {
	c.store.Set(key, value, gocache.NoExpiration)
}

// Flush clears every memoized entry.
func (c *PeriodCache) Flush() {
	c.store.Flush()
}
