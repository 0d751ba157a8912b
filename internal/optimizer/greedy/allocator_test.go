package greedy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-gardening/cropplanner/internal/feasibility"
	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/optimizer/greedy"
	"github.com/urban-gardening/cropplanner/internal/optimizer/period"
	"github.com/urban-gardening/cropplanner/internal/utils/cache"
	"github.com/urban-gardening/cropplanner/internal/weather"
)

func mkDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func constantSeries(tMean float64, start, end time.Time) *weather.Series {
	var records []models.WeatherRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		records = append(records, models.WeatherRecord{Date: d, TMean: tMean})
	}
	return weather.NewSeries(records)
}

// Single field, single crop: the allocator should fill the field with the
// highest-profit feasible candidate and stop once nothing else fits
// (spec.md §8 scenario 1 family).
func TestAllocate_SingleFieldSingleCropProducesFeasiblePlan(t *testing.T) {
	series := constantSeries(25, mkDate("2024-01-01"), mkDate("2024-12-31"))
	field := models.Field{FieldID: "f1", AreaSqMeters: 1000, DailyFixedCost: 50, FallowPeriodDays: 0}
	crop := models.CropProfile{CropID: "rice", AreaPerUnit: 1, RevenuePerArea: 100, RequiredGDD: 150, BaseTemperature: 10}

	catalog := models.NewCatalog([]models.Field{field}, []models.CropProfile{crop}, nil,
		mkDate("2024-01-01"), mkDate("2024-12-31"))
	checker := feasibility.New(catalog)
	periodOpt := period.New(series, cache.NewPeriodCache())
	allocator := greedy.New(periodOpt, checker)

	f, _ := catalog.Field("f1")
	c, _ := catalog.Crop("rice")
	pairs := []period.FieldCropPair{{Field: f, Crop: c}}

	plan, _, err := allocator.Allocate(context.Background(), pairs, mkDate("2024-01-01"), mkDate("2024-06-01"))
	require.NoError(t, err)
	require.NotEmpty(t, plan.Allocations)

	reasons := checker.IsFeasiblePlan(plan)
	assert.Empty(t, reasons)
}

func TestAllocate_NoFeasibleCandidatesReturnsEmptyPlan(t *testing.T) {
	// Deadline miss for every start date: required GDD unreachable before
	// the series ends, so the candidate pool is empty (spec.md §8
	// scenario 6).
	series := constantSeries(5, mkDate("2024-01-01"), mkDate("2024-01-20"))
	field := models.Field{FieldID: "f1", AreaSqMeters: 1000, DailyFixedCost: 50}
	crop := models.CropProfile{CropID: "demanding", AreaPerUnit: 1, RevenuePerArea: 100, RequiredGDD: 3000, BaseTemperature: 10}

	catalog := models.NewCatalog([]models.Field{field}, []models.CropProfile{crop}, nil,
		mkDate("2024-01-01"), mkDate("2024-01-20"))
	checker := feasibility.New(catalog)
	periodOpt := period.New(series, cache.NewPeriodCache())
	allocator := greedy.New(periodOpt, checker)

	f, _ := catalog.Field("f1")
	c, _ := catalog.Crop("demanding")
	pairs := []period.FieldCropPair{{Field: f, Crop: c}}

	plan, rejected, err := allocator.Allocate(context.Background(), pairs, mkDate("2024-01-01"), mkDate("2024-01-20"))
	require.NoError(t, err)
	assert.Empty(t, plan.Allocations)
	assert.Empty(t, rejected)
}

func TestAllocate_TwoFieldsProducesAllocationsOnBoth(t *testing.T) {
	series := constantSeries(25, mkDate("2024-01-01"), mkDate("2024-12-31"))
	fields := []models.Field{
		{FieldID: "f1", AreaSqMeters: 500, DailyFixedCost: 50},
		{FieldID: "f2", AreaSqMeters: 500, DailyFixedCost: 50},
	}
	crops := []models.CropProfile{
		{CropID: "rice", AreaPerUnit: 1, RevenuePerArea: 100, RequiredGDD: 150, BaseTemperature: 10},
	}
	catalog := models.NewCatalog(fields, crops, nil, mkDate("2024-01-01"), mkDate("2024-12-31"))
	checker := feasibility.New(catalog)
	periodOpt := period.New(series, cache.NewPeriodCache())
	allocator := greedy.New(periodOpt, checker)

	f1, _ := catalog.Field("f1")
	f2, _ := catalog.Field("f2")
	c, _ := catalog.Crop("rice")
	pairs := []period.FieldCropPair{{Field: f1, Crop: c}, {Field: f2, Crop: c}}

	plan, _, err := allocator.Allocate(context.Background(), pairs, mkDate("2024-01-01"), mkDate("2024-06-01"))
	require.NoError(t, err)

	byField := plan.ByField()
	assert.NotEmpty(t, byField["f1"])
	assert.NotEmpty(t, byField["f2"])
}
