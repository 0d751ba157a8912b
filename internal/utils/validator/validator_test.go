package validator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/utils/validator"
)

type sampleRequest struct {
	Name string  `validate:"required"`
	Area float64 `validate:"gt=0"`
}

func mkDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestValidateStruct_PassesOnValidInput(t *testing.T) {
	cv := validator.NewValidator()
	err := cv.ValidateStruct(&sampleRequest{Name: "north", Area: 10})
	assert.NoError(t, err)
}

func TestValidateStruct_AggregatesMultipleViolations(t *testing.T) {
	cv := validator.NewValidator()
	err := cv.ValidateStruct(&sampleRequest{Name: "", Area: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Area")
}

func TestValidateCatalog_PassesOnWellFormedCatalog(t *testing.T) {
	fields := []models.Field{{FieldID: "f1", Name: "North", AreaSqMeters: 1000, DailyFixedCost: 10}}
	crops := []models.CropProfile{{CropID: "rice", Name: "Rice", AreaPerUnit: 1, RevenuePerArea: 10, RequiredGDD: 100}}
	catalog := models.NewCatalog(fields, crops, nil, mkDate("2024-01-01"), mkDate("2024-12-31"))

	cv := validator.NewValidator()
	assert.NoError(t, cv.ValidateCatalog(catalog))
}

func TestValidateCatalog_RejectsNegativeFieldArea(t *testing.T) {
	fields := []models.Field{{FieldID: "f1", Name: "North", AreaSqMeters: -5}}
	catalog := models.NewCatalog(fields, nil, nil, mkDate("2024-01-01"), mkDate("2024-12-31"))

	cv := validator.NewValidator()
	assert.Error(t, cv.ValidateCatalog(catalog))
}

func TestValidateCatalog_RejectsPlanningEndBeforeStart(t *testing.T) {
	fields := []models.Field{{FieldID: "f1", Name: "North", AreaSqMeters: 1000}}
	crops := []models.CropProfile{{CropID: "rice", Name: "Rice", AreaPerUnit: 1, RequiredGDD: 100}}
	catalog := models.NewCatalog(fields, crops, nil, mkDate("2024-06-01"), mkDate("2024-01-01"))

	cv := validator.NewValidator()
	assert.Error(t, cv.ValidateCatalog(catalog))
}

func TestValidateCatalog_RejectsNegativeMinGapDays(t *testing.T) {
	fields := []models.Field{{FieldID: "f1", Name: "North", AreaSqMeters: 1000}}
	crops := []models.CropProfile{
		{CropID: "tomato", Name: "Tomato", AreaPerUnit: 1, RequiredGDD: 100},
		{CropID: "pepper", Name: "Pepper", AreaPerUnit: 1, RequiredGDD: 100},
	}
	rules := []models.InteractionRule{{PredecessorCropID: "tomato", SuccessorCropID: "pepper", MinGapDays: -1}}
	catalog := models.NewCatalog(fields, crops, rules, mkDate("2024-01-01"), mkDate("2024-12-31"))

	cv := validator.NewValidator()
	assert.Error(t, cv.ValidateCatalog(catalog))
}
