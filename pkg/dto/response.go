package dto

// AllocationOutput is the JSON shape of one CropAllocation (spec.md §6).
type AllocationOutput struct {
	AllocationID   string  `json:"allocation_id"`
	FieldID        string  `json:"field_id"`
	CropID         string  `json:"crop_id"`
	StartDate      string  `json:"start_date"`
	CompletionDate string  `json:"completion_date"`
	Quantity       float64 `json:"quantity"`
	AreaUsed       float64 `json:"area_used"`
	GrowthDays     int     `json:"growth_days"`
	Cost           float64 `json:"cost"`
	Revenue        float64 `json:"revenue"`
	Profit         float64 `json:"profit"`
}

// Diagnostics carries the optional supplemented telemetry (SPEC_FULL.md
// §12): per-operator weights at the end of the run, useful for tuning but
// never required to interpret the plan itself. FinalTemperature is not
// filled in by internal/service, so it stays zero and is omitted.
type Diagnostics struct {
	OperatorWeights  map[string]float64 `json:"operator_weights,omitempty"`
	FinalTemperature float64            `json:"final_temperature,omitempty"`
}

// OptimizationResult is the JSON shape of POST /api/v1/optimize's
// response body (spec.md §6).
type OptimizationResult struct {
	Allocations    []AllocationOutput `json:"allocations"`
	TotalProfit    float64            `json:"total_profit"`
	TotalCost      float64            `json:"total_cost"`
	TotalRevenue   float64            `json:"total_revenue"`
	Iterations     int                `json:"iterations"`
	Accepted       bool               `json:"accepted"`
	Improved       bool               `json:"improved"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	Diagnostics    *Diagnostics       `json:"diagnostics,omitempty"`
}

// ErrorResponse is the JSON shape of every non-2xx response.
type ErrorResponse struct {
	Kind    string                 `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
