// Package service composes the optimization kernel (internal/feasibility,
// internal/optimizer/...) behind the dto request/response boundary
// (spec.md §6), translating JSON-shaped input into internal/models values
// and the resulting plan back into JSON-shaped output.
package service

import (
	"fmt"
	"time"

	"github.com/urban-gardening/cropplanner/internal/models"
	plannererrors "github.com/urban-gardening/cropplanner/internal/utils/errors"
	"github.com/urban-gardening/cropplanner/internal/weather"
	"github.com/urban-gardening/cropplanner/pkg/dto"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, plannererrors.Wrap(plannererrors.KindInputValidation, err,
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s), nil)
	}
	return t, nil
}

func toField(in dto.FieldInput, defaultFallowDays int) (models.Field, error) {
	fallowDays := defaultFallowDays
	if in.FallowPeriodDays != nil {
		fallowDays = *in.FallowPeriodDays
	}
	field := models.Field{
		FieldID:          in.FieldID,
		Name:             in.Name,
		AreaSqMeters:     in.Area,
		DailyFixedCost:   in.DailyFixedCost,
		FallowPeriodDays: fallowDays,
		Location:         in.Location,
		SoilType:         in.SoilType,
	}
	if err := field.Validate(); err != nil {
		return models.Field{}, err
	}
	return field, nil
}

func toCrop(in dto.CropInput) (models.CropProfile, error) {
	crop := models.CropProfile{
		CropID:          in.CropID,
		Name:            in.Name,
		AreaPerUnit:     in.AreaPerUnit,
		RevenuePerArea:  in.RevenuePerArea,
		RequiredGDD:     in.Thermal.RequiredGDD,
		HarvestStartGDD: in.Thermal.HarvestStartGDD,
		BaseTemperature: in.Thermal.BaseTemperature,
		SoilAdjustment:  in.SoilAdjustment,
	}
	if in.Deadline != nil {
		deadline, err := parseDate(in.Deadline.LatestCompletionDate)
		if err != nil {
			return models.CropProfile{}, err
		}
		crop.HasDeadline = true
		crop.LatestCompletionDate = deadline
	}
	if err := crop.Validate(); err != nil {
		return models.CropProfile{}, err
	}
	return crop, nil
}

func toInteractionRule(in dto.InteractionRuleInput) models.InteractionRule {
	return models.InteractionRule{
		PredecessorCropID: in.PredecessorCropID,
		SuccessorCropID:   in.SuccessorCropID,
		MinGapDays:        in.MinGapDays,
		Forbidden:         in.Forbidden,
	}
}

func toWeatherSeries(in dto.WeatherInput) (*weather.Series, error) {
	records := make([]models.WeatherRecord, 0, len(in.Data))
	for _, rec := range in.Data {
		date, err := parseDate(rec.Date)
		if err != nil {
			return nil, err
		}
		records = append(records, models.WeatherRecord{
			Date:        date,
			TMean:       rec.TMean,
			TMax:        rec.TMax,
			TMin:        rec.TMin,
			Precip:      rec.Precip,
			SunshineHrs: rec.SunshineHrs,
			HasPrecip:   rec.Precip != 0,
			HasSunshine: rec.SunshineHrs != 0,
		})
	}
	if dups := weather.Duplicates(records); dups > 0 {
		return nil, plannererrors.New(plannererrors.KindInputValidation,
			fmt.Sprintf("weather series has %d duplicate dates", dups), nil)
	}
	return weather.NewSeries(records), nil
}

func fromAllocation(a models.CropAllocation) dto.AllocationOutput {
	return dto.AllocationOutput{
		AllocationID:   a.AllocationID,
		FieldID:        a.FieldID,
		CropID:         a.CropID,
		StartDate:      a.StartDate.Format(dateLayout),
		CompletionDate: a.CompletionDate.Format(dateLayout),
		Quantity:       a.Quantity,
		AreaUsed:       a.AreaUsed,
		GrowthDays:     a.GrowthDays,
		Cost:           a.Cost,
		Revenue:        a.Revenue,
		Profit:         a.Profit,
	}
}

// buildCatalog translates the request's field/crop/rule/weather inputs into
// a models.Catalog and the weather.Series backing GDD evaluation.
func buildCatalog(
	fieldInputs []dto.FieldInput,
	cropInputs []dto.CropInput,
	ruleInputs []dto.InteractionRuleInput,
	weatherInput dto.WeatherInput,
	planningStartStr, planningEndStr string,
	defaultFallowDays int,
) (*models.Catalog, *weather.Series, error) {
	planningStart, err := parseDate(planningStartStr)
	if err != nil {
		return nil, nil, err
	}
	planningEnd, err := parseDate(planningEndStr)
	if err != nil {
		return nil, nil, err
	}
	if planningEnd.Before(planningStart) {
		return nil, nil, plannererrors.New(plannererrors.KindInputValidation,
			"planning_end must not be before planning_start", nil)
	}

	fields := make([]models.Field, 0, len(fieldInputs))
	for _, fi := range fieldInputs {
		field, err := toField(fi, defaultFallowDays)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, field)
	}

	crops := make([]models.CropProfile, 0, len(cropInputs))
	for _, ci := range cropInputs {
		crop, err := toCrop(ci)
		if err != nil {
			return nil, nil, err
		}
		crops = append(crops, crop)
	}

	rules := make([]models.InteractionRule, 0, len(ruleInputs))
	for _, ri := range ruleInputs {
		rules = append(rules, toInteractionRule(ri))
	}

	series, err := toWeatherSeries(weatherInput)
	if err != nil {
		return nil, nil, err
	}

	catalog := models.NewCatalog(fields, crops, rules, planningStart, planningEnd)
	return catalog, series, nil
}

func toAllocation(in dto.AllocationOutput) (models.CropAllocation, error) {
	start, err := parseDate(in.StartDate)
	if err != nil {
		return models.CropAllocation{}, err
	}
	completion, err := parseDate(in.CompletionDate)
	if err != nil {
		return models.CropAllocation{}, err
	}
	return models.CropAllocation{
		AllocationID:   in.AllocationID,
		FieldID:        in.FieldID,
		CropID:         in.CropID,
		StartDate:      start,
		CompletionDate: completion,
		Quantity:       in.Quantity,
		AreaUsed:       in.AreaUsed,
		GrowthDays:     in.GrowthDays,
		Cost:           in.Cost,
		Revenue:        in.Revenue,
		Profit:         in.Profit,
	}, nil
}
