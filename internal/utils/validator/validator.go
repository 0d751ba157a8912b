// Package validator wraps go-playground/validator with the
// cultivation-planner domain's struct-tag validation plus catalog-level
// checks (models.Field/CropProfile Validate and non-negative interaction
// rule gaps). ValidateStruct reports every struct-tag violation in one
// InputValidation domain error; ValidateCatalog reports the first
// violation it finds (spec.md §7).
package validator

import (
	"fmt"
	"sort"
	"strings"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/urban-gardening/cropplanner/internal/models"
	plannererrors "github.com/urban-gardening/cropplanner/internal/utils/errors"
)

// CustomValidator wraps the validator package with planner-specific
// aggregate checks beyond what struct tags alone can express.
type CustomValidator struct {
	validator *govalidator.Validate
}

// NewValidator builds a CustomValidator with the default struct-tag engine.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: govalidator.New()}
}

// ValidateStruct runs go-playground struct-tag validation (field
// presence, ranges, required-ness as declared on pkg/dto request types)
// and wraps any failure as an InputValidation error.
func (cv *CustomValidator) ValidateStruct(s interface{}) error {
	if s == nil {
		return plannererrors.New(plannererrors.KindInputValidation, "nil request body cannot be validated", nil)
	}

	err := cv.validator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(govalidator.ValidationErrors)
	if !ok {
		return plannererrors.Wrap(plannererrors.KindInputValidation, err, "request validation failed", nil)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed on '%s'", e.Namespace(), e.Tag()))
	}
	return plannererrors.New(plannererrors.KindInputValidation, strings.Join(messages, "; "), map[string]interface{}{
		"violation_count": len(messages),
	})
}

// ValidateCatalog validates every field and crop's individual invariants
// (spec.md §3) and returns the first violation found, or nil if the
// catalog is well-formed. Fields and crops are visited in ascending id
// order (map keys are sorted first), so repeated calls over the same
// catalog report the same first error.
func (cv *CustomValidator) ValidateCatalog(catalog *models.Catalog) error {
	fieldIDs := sortedKeys(catalog.Fields)
	for _, id := range fieldIDs {
		if err := catalog.Fields[id].Validate(); err != nil {
			return plannererrors.Wrap(plannererrors.KindInputValidation, err, "invalid field", map[string]interface{}{
				"field_id": id,
			})
		}
	}

	cropIDs := sortedCropKeys(catalog.Crops)
	for _, id := range cropIDs {
		if err := catalog.Crops[id].Validate(); err != nil {
			return plannererrors.Wrap(plannererrors.KindInputValidation, err, "invalid crop", map[string]interface{}{
				"crop_id": id,
			})
		}
	}

	for _, rule := range catalog.InteractionRules {
		if rule.MinGapDays < 0 {
			return plannererrors.New(plannererrors.KindInputValidation,
				fmt.Sprintf("interaction rule %s->%s: min_gap_days must be non-negative", rule.PredecessorCropID, rule.SuccessorCropID),
				nil)
		}
	}

	if catalog.PlanningEnd.Before(catalog.PlanningStart) {
		return plannererrors.New(plannererrors.KindInputValidation, "planning_end must not precede planning_start", nil)
	}

	return nil
}

func sortedKeys(m map[string]*models.Field) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCropKeys(m map[string]*models.CropProfile) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
