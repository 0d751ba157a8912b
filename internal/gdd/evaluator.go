// Package gdd implements GDDEvaluator (spec.md §4.1): a deterministic,
// pure computation of completion date, growth days, and accumulated
// growing-degree-days from a start date, a crop's thermal requirement,
// and a daily weather series.
package gdd

import (
	"time"

	plannererrors "github.com/urban-gardening/cropplanner/internal/utils/errors"

	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/weather"
)

// Result carries the outcome of a successful evaluation.
type Result struct {
	CompletionDate time.Time
	GrowthDays     int
	AccumulatedGDD float64
	// HarvestStartDate is the first date accumulated GDD reaches the
	// crop's optional HarvestStartGDD threshold; zero value if the crop
	// declares none. It does not change CompletionDate (spec.md §4.1).
	HarvestStartDate time.Time
}

// Evaluate iterates days from startDate, accumulating
// max(0, t_mean - base_temperature) per day, until accumulated GDD meets
// crop.RequiredGDD. Returns a DeadlineMiss error if the weather series ends
// first, or a WeatherGap error if any iterated day has no record.
func Evaluate(startDate time.Time, crop *models.CropProfile, series *weather.Series) (Result, error) {
	baseTemp := crop.EffectiveBaseTemperature()
	_, seriesEnd := series.Bounds()
	if series.Len() == 0 || startDate.After(seriesEnd) {
		return Result{}, plannererrors.New(plannererrors.KindDeadlineMiss,
			"weather series ends before start date", map[string]interface{}{
				"crop_id":    crop.CropID,
				"start_date": startDate.Format("2006-01-02"),
			})
	}

	var accumulated float64
	var harvestStart time.Time
	harvestFound := crop.HarvestStartGDD <= 0

	for day := startDate; ; day = day.AddDate(0, 0, 1) {
		record, ok := series.Lookup(day)
		if !ok {
			return Result{}, plannererrors.New(plannererrors.KindWeatherGap,
				"missing weather record for iterated day", map[string]interface{}{
					"crop_id": crop.CropID,
					"date":    day.Format("2006-01-02"),
				})
		}

		accumulated += dailyGDD(record.TMean, baseTemp)

		if !harvestFound && accumulated >= crop.HarvestStartGDD {
			harvestStart = day
			harvestFound = true
		}

		if accumulated >= crop.RequiredGDD {
			growthDays := int(day.Sub(startDate).Hours()/24) + 1
			return Result{
				CompletionDate:   day,
				GrowthDays:       growthDays,
				AccumulatedGDD:   accumulated,
				HarvestStartDate: harvestStart,
			}, nil
		}

		if day.Equal(seriesEnd) {
			shortfall := crop.RequiredGDD - accumulated
			return Result{}, plannererrors.New(plannererrors.KindDeadlineMiss,
				"weather series exhausted before reaching required GDD", map[string]interface{}{
					"crop_id":       crop.CropID,
					"start_date":    startDate.Format("2006-01-02"),
					"shortfall_gdd": shortfall,
				})
		}
	}
}

// dailyGDD computes one day's growing-degree-day contribution.
func dailyGDD(tMean, baseTemperature float64) float64 {
	v := tMean - baseTemperature
	if v < 0 {
		return 0
	}
	return v
}

// ShortfallGDD extracts the shortfall_gdd metadata from a DeadlineMiss
// error, or 0 if not present / err is not a DeadlineMiss.
func ShortfallGDD(err error) float64 {
	if !plannererrors.Is(err, plannererrors.KindDeadlineMiss) {
		return 0
	}
	var domainErr *plannererrors.Error
	if de, ok := err.(*plannererrors.Error); ok {
		domainErr = de
	} else {
		return 0
	}
	if v, ok := domainErr.Metadata()["shortfall_gdd"].(float64); ok {
		return v
	}
	return 0
}
