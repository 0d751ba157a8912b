// Package period implements PeriodOptimizer (spec.md §4.4): for a fixed
// (field, crop), enumerate candidate start dates across the planning
// window and return the top-K ranked by profit at full quantity. Because
// cost is linear in growth days only and revenue is linear in quantity
// (spec.md §4.4's "Property"), the optimal period is quantity-independent,
// so results are memoized per (field, crop, window) and reused across
// quantity levels by GreedyAllocator.
package period

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/urban-gardening/cropplanner/internal/gdd"
	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/objective"
	"github.com/urban-gardening/cropplanner/internal/utils/cache"
	"github.com/urban-gardening/cropplanner/internal/weather"
)

// DefaultTopK is the number of candidates PeriodOptimizer retains per
// (field, crop) pair (spec.md §4.4).
const DefaultTopK = 10

// Candidate is one ranked start-date option at the reference quantity
// used for ranking (field.area / crop.area_per_unit, i.e. full capacity).
// GreedyAllocator rescales cost/revenue/profit for the quantity levels it
// actually evaluates; GrowthDays and CompletionDate are quantity-invariant.
type Candidate struct {
	FieldID        string
	CropID         string
	StartDate      time.Time
	CompletionDate time.Time
	GrowthDays     int
	ReferenceProfit float64
}

// Optimizer runs the per-(field, crop) DP and memoizes results.
type Optimizer struct {
	series            *weather.Series
	objective         objective.Function
	cache             *cache.PeriodCache
	topK              int
	seriesFingerprint uint64
}

// New builds an Optimizer bound to a shared weather series and
// memoization cache. cache may be nil to disable memoization. The
// series' content fingerprint is computed once here and reused as part
// of every memoization key, so a later Optimizer built over a different
// series (even for the same field/crop ids) never collides with entries
// this one wrote.
func New(series *weather.Series, periodCache *cache.PeriodCache) *Optimizer {
	return &Optimizer{
		series:            series,
		objective:         objective.New(),
		cache:             periodCache,
		topK:              DefaultTopK,
		seriesFingerprint: series.Fingerprint(),
	}
}

// WithTopK overrides the default top-K retention count.
func (o *Optimizer) WithTopK(k int) *Optimizer {
	if k > 0 {
		o.topK = k
	}
	return o
}

// Optimize enumerates candidate start dates in [windowStart, windowEnd]
// for field/crop at daily granularity, evaluates each via GDDEvaluator and
// ObjectiveFunction at the field's full reference quantity, and returns
// the top-K by profit (spec.md §4.4). A memoized result is reused verbatim
// when present.
func (o *Optimizer) Optimize(field *models.Field, crop *models.CropProfile, windowStart, windowEnd time.Time) []Candidate {
	if o.cache != nil {
		key := cache.Key(field, crop, windowStart, windowEnd, o.seriesFingerprint)
		if cached, ok := o.cache.Get(key); ok {
			if candidates, ok := cached.([]Candidate); ok {
				return candidates
			}
		}
	}

	referenceQuantity := crop.MaxQuantityForField(field)
	var candidates []Candidate

	for day := windowStart; !day.After(windowEnd); day = day.AddDate(0, 0, 1) {
		result, err := gdd.Evaluate(day, crop, o.series)
		if err != nil {
			// DeadlineMiss or WeatherGap: skip this start date (spec.md §4.4).
			continue
		}
		_, _, profit := o.objective.Evaluate(field, crop, referenceQuantity, result.GrowthDays)
		candidates = append(candidates, Candidate{
			FieldID:         field.FieldID,
			CropID:          crop.CropID,
			StartDate:       day,
			CompletionDate:  result.CompletionDate,
			GrowthDays:      result.GrowthDays,
			ReferenceProfit: profit,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ReferenceProfit != b.ReferenceProfit {
			return a.ReferenceProfit > b.ReferenceProfit
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.GrowthDays < b.GrowthDays
	})

	if len(candidates) > o.topK {
		candidates = candidates[:o.topK]
	}

	if o.cache != nil {
		key := cache.Key(field, crop, windowStart, windowEnd, o.seriesFingerprint)
		o.cache.Set(key, candidates)
	}
	return candidates
}

// FieldCropPair names one (field, crop) combination to fan out over.
type FieldCropPair struct {
	Field *models.Field
	Crop  *models.CropProfile
}

// PairResult holds one pair's ranked candidates, keyed for an ordered
// reduction into the caller's candidate pool (spec.md §5: "results rejoin
// into a single candidate pool").
type PairResult struct {
	Field      *models.Field
	Crop       *models.CropProfile
	Candidates []Candidate
}

// OptimizeAll fans out Optimize across every (field, crop) pair using an
// errgroup worker pool, since each pair is a pure function of immutable
// inputs (spec.md §5: "embarrassingly parallel"). Results are returned in
// the same order as pairs, regardless of completion order, so the
// reduction into a candidate pool stays deterministic.
func (o *Optimizer) OptimizeAll(ctx context.Context, pairs []FieldCropPair, windowStart, windowEnd time.Time) ([]PairResult, error) {
	results := make([]PairResult, len(pairs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for i, pair := range pairs {
		i, pair := i, pair
		group.Go(func() error {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			default:
			}
			candidates := o.Optimize(pair.Field, pair.Crop, windowStart, windowEnd)
			results[i] = PairResult{Field: pair.Field, Crop: pair.Crop, Candidates: candidates}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
