package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-gardening/cropplanner/pkg/dto"
)

func TestToField_AppliesDefaultFallowWhenUnset(t *testing.T) {
	in := dto.FieldInput{FieldID: "f1", Name: "North", Area: 1000, DailyFixedCost: 50}
	field, err := toField(in, 28)
	require.NoError(t, err)
	assert.Equal(t, 28, field.FallowPeriodDays)
}

func TestToField_ExplicitZeroFallowIsHonored(t *testing.T) {
	zero := 0
	in := dto.FieldInput{FieldID: "f1", Name: "North", Area: 1000, DailyFixedCost: 50, FallowPeriodDays: &zero}
	field, err := toField(in, 28)
	require.NoError(t, err)
	assert.Equal(t, 0, field.FallowPeriodDays)
}

func TestToField_RejectsNonPositiveArea(t *testing.T) {
	in := dto.FieldInput{FieldID: "f1", Name: "North", Area: 0}
	_, err := toField(in, 28)
	assert.Error(t, err)
}

func TestToCrop_MapsDeadline(t *testing.T) {
	in := dto.CropInput{
		CropID: "tomato", Name: "Tomato", AreaPerUnit: 1, RevenuePerArea: 10,
		Thermal:  dto.ThermalInput{RequiredGDD: 100},
		Deadline: &dto.DeadlineInput{LatestCompletionDate: "2024-06-01"},
	}
	crop, err := toCrop(in)
	require.NoError(t, err)
	assert.True(t, crop.HasDeadline)
	assert.Equal(t, "2024-06-01", crop.LatestCompletionDate.Format(dateLayout))
}

func TestToCrop_NoDeadlineLeavesHasDeadlineFalse(t *testing.T) {
	in := dto.CropInput{
		CropID: "tomato", Name: "Tomato", AreaPerUnit: 1, RevenuePerArea: 10,
		Thermal: dto.ThermalInput{RequiredGDD: 100},
	}
	crop, err := toCrop(in)
	require.NoError(t, err)
	assert.False(t, crop.HasDeadline)
}

func TestToWeatherSeries_RejectsDuplicateDates(t *testing.T) {
	in := dto.WeatherInput{
		Data: []dto.WeatherRecordInput{
			{Date: "2024-01-01", TMean: 20},
			{Date: "2024-01-01", TMean: 21},
		},
	}
	_, err := toWeatherSeries(in)
	assert.Error(t, err)
}

func TestBuildCatalog_RejectsPlanningEndBeforeStart(t *testing.T) {
	_, _, err := buildCatalog(
		[]dto.FieldInput{{FieldID: "f1", Name: "North", Area: 1000}},
		[]dto.CropInput{{CropID: "tomato", Name: "Tomato", AreaPerUnit: 1, Thermal: dto.ThermalInput{RequiredGDD: 100}}},
		nil,
		dto.WeatherInput{Data: []dto.WeatherRecordInput{{Date: "2024-01-01", TMean: 20}}},
		"2024-06-01", "2024-01-01", 28,
	)
	assert.Error(t, err)
}

func TestFromAllocation_RoundTripsThroughToAllocation(t *testing.T) {
	out := dto.AllocationOutput{
		AllocationID: "a1", FieldID: "f1", CropID: "tomato",
		StartDate: "2024-03-01", CompletionDate: "2024-03-10",
		Quantity: 100, AreaUsed: 100, GrowthDays: 9,
		Cost: 500, Revenue: 1000, Profit: 500,
	}
	alloc, err := toAllocation(out)
	require.NoError(t, err)
	roundTripped := fromAllocation(alloc)
	assert.Equal(t, out, roundTripped)
}
