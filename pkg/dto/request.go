// Package dto defines the JSON request/response schemas at the HTTP
// boundary (spec.md §6). The kernel itself never imports this package;
// cmd/planner translates between dto and internal/models at the edge.
package dto

// FieldInput is the JSON shape of one field (spec.md §6).
type FieldInput struct {
	FieldID          string  `json:"field_id" validate:"required"`
	Name             string  `json:"name" validate:"required"`
	Area             float64 `json:"area" validate:"required,gt=0"`
	DailyFixedCost   float64 `json:"daily_fixed_cost" validate:"gte=0"`
	FallowPeriodDays *int    `json:"fallow_period_days,omitempty" validate:"omitempty,gte=0"`
	Location         string  `json:"location,omitempty"`
	SoilType         string  `json:"soil_type,omitempty"`
}

// ThermalInput carries a crop's thermal requirement (spec.md §6).
type ThermalInput struct {
	RequiredGDD     float64 `json:"required_gdd" validate:"required,gt=0"`
	HarvestStartGDD float64 `json:"harvest_start_gdd,omitempty" validate:"omitempty,gte=0"`
	BaseTemperature float64 `json:"base_temperature,omitempty"`
}

// DeadlineInput carries a crop's optional completion deadline (spec.md §6).
type DeadlineInput struct {
	LatestCompletionDate string `json:"latest_completion_date" validate:"required"`
}

// CropInput is the JSON shape of one crop profile (spec.md §6).
type CropInput struct {
	CropID         string             `json:"crop_id" validate:"required"`
	Name           string             `json:"name" validate:"required"`
	AreaPerUnit    float64            `json:"area_per_unit" validate:"required,gt=0"`
	RevenuePerArea float64            `json:"revenue_per_area" validate:"gte=0"`
	Thermal        ThermalInput       `json:"thermal" validate:"required"`
	Deadline       *DeadlineInput     `json:"deadline,omitempty"`
	SoilAdjustment map[string]float64 `json:"soil_adjustment,omitempty"`
}

// WeatherRecordInput is one daily record within WeatherInput.Data.
type WeatherRecordInput struct {
	Date        string  `json:"date" validate:"required"`
	TMean       float64 `json:"t_mean" validate:"required"`
	TMax        float64 `json:"t_max,omitempty"`
	TMin        float64 `json:"t_min,omitempty"`
	Precip      float64 `json:"precip,omitempty"`
	SunshineHrs float64 `json:"sunshine_hrs,omitempty"`
}

// WeatherLocation is the optional lat/lon tag on a weather series.
type WeatherLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherInput is the JSON shape of a daily weather series (spec.md §6).
type WeatherInput struct {
	Location *WeatherLocation     `json:"location,omitempty"`
	Data     []WeatherRecordInput `json:"data" validate:"required,min=1,dive"`
}

// InteractionRuleInput is one directional crop-sequencing rule (spec.md §6).
type InteractionRuleInput struct {
	PredecessorCropID string `json:"predecessor_crop_id" validate:"required"`
	SuccessorCropID   string `json:"successor_crop_id" validate:"required"`
	MinGapDays        int    `json:"min_gap_days,omitempty" validate:"gte=0"`
	Forbidden         bool   `json:"forbidden,omitempty"`
}

// InteractionRulesInput wraps the rules array (spec.md §6).
type InteractionRulesInput struct {
	Rules []InteractionRuleInput `json:"rules"`
}

// OptimizationRequest is the full POST /api/v1/optimize body (spec.md §6).
type OptimizationRequest struct {
	Fields            []FieldInput           `json:"fields" validate:"required,min=1,dive"`
	Crops             []CropInput            `json:"crops" validate:"required,min=1,dive"`
	Weather           WeatherInput           `json:"weather" validate:"required"`
	InteractionRules  []InteractionRuleInput `json:"interaction_rules,omitempty"`
	PlanningStart     string                 `json:"planning_start" validate:"required"`
	PlanningEnd       string                 `json:"planning_end" validate:"required"`
	Seed              *int64                 `json:"seed,omitempty"`
	IterationBudget   *int                   `json:"iteration_budget,omitempty" validate:"omitempty,gt=0"`
	TimeBudgetSeconds *float64               `json:"time_budget_seconds,omitempty" validate:"omitempty,gt=0"`
	QuantityLevels    []float64              `json:"quantity_levels,omitempty" validate:"omitempty,dive,gt=0,lte=1"`
}

// AdjustRequest carries an existing plan (as an optimize result's
// allocations) plus a move instruction for the adjust flow (spec.md §6).
type AdjustRequest struct {
	Fields           []FieldInput           `json:"fields" validate:"required,min=1,dive"`
	Crops            []CropInput            `json:"crops" validate:"required,min=1,dive"`
	Weather          WeatherInput           `json:"weather" validate:"required"`
	InteractionRules []InteractionRuleInput `json:"interaction_rules,omitempty"`
	PlanningStart    string                 `json:"planning_start" validate:"required"`
	PlanningEnd      string                 `json:"planning_end" validate:"required"`
	Allocations      []AllocationOutput     `json:"allocations" validate:"required,dive"`
	Move             MoveInstruction        `json:"move" validate:"required"`
}

// MoveInstruction is the move-instruction output/input shape (spec.md
// §6): "the kernel does not consume this; the adjust use case does."
type MoveInstruction struct {
	AllocationID string  `json:"allocation_id,omitempty"`
	Action       string  `json:"action" validate:"required,oneof=add move remove"`
	CropID       string  `json:"crop_id,omitempty"`
	ToFieldID    string  `json:"to_field_id,omitempty"`
	ToStartDate  string  `json:"to_start_date,omitempty"`
	ToArea       float64 `json:"to_area,omitempty"`
}
