package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/urban-gardening/cropplanner/config"
	"github.com/urban-gardening/cropplanner/internal/feasibility"
	"github.com/urban-gardening/cropplanner/internal/gdd"
	"github.com/urban-gardening/cropplanner/internal/models"
	"github.com/urban-gardening/cropplanner/internal/objective"
	"github.com/urban-gardening/cropplanner/internal/optimizer/alns"
	"github.com/urban-gardening/cropplanner/internal/optimizer/greedy"
	"github.com/urban-gardening/cropplanner/internal/optimizer/neighborhood"
	"github.com/urban-gardening/cropplanner/internal/optimizer/period"
	"github.com/urban-gardening/cropplanner/internal/utils/cache"
	plannererrors "github.com/urban-gardening/cropplanner/internal/utils/errors"
	"github.com/urban-gardening/cropplanner/internal/utils/validator"
	"github.com/urban-gardening/cropplanner/internal/weather"
	"github.com/urban-gardening/cropplanner/pkg/dto"
)

// priceMove recomputes completion and cost/revenue/profit for a manually
// placed allocation, the same pricing step the neighborhood operators run
// on every candidate (spec.md §4.6).
func priceMove(series *weather.Series, field *models.Field, crop *models.CropProfile, startDate time.Time, quantity float64, obj objective.Function) (models.CropAllocation, error) {
	result, err := gdd.Evaluate(startDate, crop, series)
	if err != nil {
		return models.CropAllocation{}, plannererrors.Wrap(plannererrors.KindInfeasibleConstraint, err,
			"candidate start date is not viable", nil)
	}
	areaUsed := quantity * crop.AreaPerUnit
	cost, revenue, profit := obj.Evaluate(field, crop, quantity, result.GrowthDays)
	return models.CropAllocation{
		AllocationID:   uuid.NewString(),
		FieldID:        field.FieldID,
		CropID:         crop.CropID,
		StartDate:      startDate,
		CompletionDate: result.CompletionDate,
		Quantity:       quantity,
		AreaUsed:       areaUsed,
		GrowthDays:     result.GrowthDays,
		Cost:           cost,
		Revenue:        revenue,
		Profit:         profit,
	}, nil
}

// Planner wires the full kernel (PeriodOptimizer -> GreedyAllocator ->
// NeighborhoodEngine -> ALNSDriver) behind the dto boundary.
type Planner struct {
	cfg       *config.PlannerConfig
	validator *validator.CustomValidator
	cache     *cache.PeriodCache
	log       *zap.Logger
}

// New builds a Planner bound to a shared memoization cache, reused across
// requests within the process lifetime per spec.md §4.4's caching note.
func New(cfg *config.PlannerConfig, log *zap.Logger) *Planner {
	return &Planner{
		cfg:       cfg,
		validator: validator.NewValidator(),
		cache:     cache.NewPeriodCache(),
		log:       log,
	}
}

// Optimize runs the full kernel against req and returns the optimized
// plan (spec.md §4.4-§4.7).
func (p *Planner) Optimize(ctx context.Context, req dto.OptimizationRequest) (*dto.OptimizationResult, error) {
	started := time.Now()

	catalog, series, err := buildCatalog(req.Fields, req.Crops, req.InteractionRules, req.Weather,
		req.PlanningStart, req.PlanningEnd, p.cfg.DefaultFallowPeriodDays)
	if err != nil {
		return nil, err
	}
	if err := p.validator.ValidateCatalog(catalog); err != nil {
		return nil, err
	}

	quantityLevels := greedy.QuantityLevels
	if len(req.QuantityLevels) > 0 {
		quantityLevels = req.QuantityLevels
	}

	periodOptimizer := period.New(series, p.cache).WithTopK(p.cfg.TopK)
	checker := feasibility.New(catalog)
	allocator := greedy.New(periodOptimizer, checker).WithQuantityLevels(quantityLevels)

	pairs := fieldCropPairs(catalog)
	greedyPlan, rejectedPool, err := allocator.Allocate(ctx, pairs, catalog.PlanningStart, catalog.PlanningEnd)
	if err != nil {
		return nil, plannererrors.Wrap(plannererrors.KindInternal, err, "greedy allocation failed", nil)
	}

	engine := neighborhood.NewEngine(neighborhood.DefaultOperators())
	alnsParams := alns.Params{
		MaxIterations:      p.cfg.MaxIterations,
		MaxDuration:        p.cfg.MaxDuration,
		NoImprovementLimit: p.cfg.NoImprovementLimit,
		CoolingRatio:       p.cfg.CoolingRatio,
		Seed:               p.cfg.Seed,
	}
	if req.Seed != nil {
		alnsParams.Seed = *req.Seed
	}
	if req.IterationBudget != nil {
		alnsParams.MaxIterations = *req.IterationBudget
	}
	if req.TimeBudgetSeconds != nil {
		alnsParams.MaxDuration = time.Duration(*req.TimeBudgetSeconds * float64(time.Second))
	}

	driver := alns.New(engine, alnsParams)
	neighborhoodCtx := &neighborhood.Context{
		Catalog:   catalog,
		Checker:   checker,
		Objective: objective.New(),
		Series:    series,
		Pool:      rejectedPool,
	}

	result := driver.Run(ctx, greedyPlan, neighborhoodCtx)

	obj := objective.New()
	initialProfit := obj.PlanProfit(greedyPlan)
	finalProfit := obj.PlanProfit(result.BestPlan)

	return toResult(result, initialProfit, finalProfit, time.Since(started), engine), nil
}

// Adjust applies a single manual move-instruction to an existing plan and
// re-validates the result, for the optional adjust flow (spec.md §6's
// move-instruction output, consumed here rather than by the kernel).
func (p *Planner) Adjust(ctx context.Context, req dto.AdjustRequest) (*dto.OptimizationResult, error) {
	started := time.Now()

	catalog, series, err := buildCatalog(req.Fields, req.Crops, req.InteractionRules, req.Weather,
		req.PlanningStart, req.PlanningEnd, p.cfg.DefaultFallowPeriodDays)
	if err != nil {
		return nil, err
	}
	if err := p.validator.ValidateCatalog(catalog); err != nil {
		return nil, err
	}

	plan := models.NewPlan()
	for _, a := range req.Allocations {
		alloc, err := toAllocation(a)
		if err != nil {
			return nil, err
		}
		plan = plan.WithAdded(alloc)
	}

	checker := feasibility.New(catalog)
	obj := objective.New()
	initialProfit := obj.PlanProfit(plan)

	updated, err := p.applyMove(catalog, checker, obj, series, plan, req.Move)
	if err != nil {
		return nil, err
	}

	finalProfit := obj.PlanProfit(updated)
	result := alns.Result{BestPlan: updated, Iterations: 1, Cancelled: false}
	engine := neighborhood.NewEngine(neighborhood.DefaultOperators())

	return toResult(result, initialProfit, finalProfit, time.Since(started), engine), nil
}

// applyMove executes one add/move/remove instruction against plan,
// rejecting it with an InfeasibleConstraint error rather than silently
// recovering, since this is a user-directed edit, not a search operator.
func (p *Planner) applyMove(catalog *models.Catalog, checker *feasibility.Checker, obj objective.Function, series *weather.Series, plan *models.OptimizationPlan, move dto.MoveInstruction) (*models.OptimizationPlan, error) {
	switch move.Action {
	case "remove":
		if move.AllocationID == "" {
			return nil, plannererrors.New(plannererrors.KindInputValidation, "remove requires allocation_id", nil)
		}
		if _, ok := plan.Find(move.AllocationID); !ok {
			return nil, plannererrors.New(plannererrors.KindInputValidation, "unknown allocation_id", nil)
		}
		return plan.WithRemoved(move.AllocationID), nil

	case "add":
		field, ok := catalog.Field(move.ToFieldID)
		if !ok {
			return nil, plannererrors.New(plannererrors.KindInputValidation, "unknown to_field_id", nil)
		}
		crop, ok := catalog.Crop(move.CropID)
		if !ok {
			return nil, plannererrors.New(plannererrors.KindInputValidation, "unknown crop_id", nil)
		}
		startDate, err := parseDate(move.ToStartDate)
		if err != nil {
			return nil, err
		}
		quantity := move.ToArea / crop.AreaPerUnit
		candidate, err := priceMove(series, field, crop, startDate, quantity, obj)
		if err != nil {
			return nil, err
		}
		if ok, reason := checker.IsFeasibleAddition(plan, candidate); !ok {
			return nil, feasibility.AsError(reason)
		}
		return plan.WithAdded(candidate), nil

	case "move":
		existing, ok := plan.Find(move.AllocationID)
		if !ok {
			return nil, plannererrors.New(plannererrors.KindInputValidation, "unknown allocation_id", nil)
		}
		fieldID := move.ToFieldID
		if fieldID == "" {
			fieldID = existing.FieldID
		}
		field, ok := catalog.Field(fieldID)
		if !ok {
			return nil, plannererrors.New(plannererrors.KindInputValidation, "unknown to_field_id", nil)
		}
		crop, ok := catalog.Crop(existing.CropID)
		if !ok {
			return nil, plannererrors.New(plannererrors.KindInputValidation, "unknown crop_id", nil)
		}
		startDate := existing.StartDate
		if move.ToStartDate != "" {
			parsed, err := parseDate(move.ToStartDate)
			if err != nil {
				return nil, err
			}
			startDate = parsed
		}
		candidate, err := priceMove(series, field, crop, startDate, existing.Quantity, obj)
		if err != nil {
			return nil, err
		}
		candidate.AllocationID = existing.AllocationID
		reduced := plan.WithRemoved(existing.AllocationID)
		if ok, reason := checker.IsFeasibleAddition(reduced, candidate); !ok {
			return nil, feasibility.AsError(reason)
		}
		return reduced.WithAdded(candidate), nil

	default:
		return nil, plannererrors.New(plannererrors.KindInputValidation,
			fmt.Sprintf("unsupported move action %q", move.Action), nil)
	}
}

func fieldCropPairs(catalog *models.Catalog) []period.FieldCropPair {
	fieldIDs := make([]string, 0, len(catalog.Fields))
	for id := range catalog.Fields {
		fieldIDs = append(fieldIDs, id)
	}
	sort.Strings(fieldIDs)

	cropIDs := make([]string, 0, len(catalog.Crops))
	for id := range catalog.Crops {
		cropIDs = append(cropIDs, id)
	}
	sort.Strings(cropIDs)

	pairs := make([]period.FieldCropPair, 0, len(fieldIDs)*len(cropIDs))
	for _, fID := range fieldIDs {
		for _, cID := range cropIDs {
			pairs = append(pairs, period.FieldCropPair{Field: catalog.Fields[fID], Crop: catalog.Crops[cID]})
		}
	}
	return pairs
}

func toResult(result alns.Result, initialProfit, finalProfit float64, elapsed time.Duration, engine *neighborhood.Engine) *dto.OptimizationResult {
	allocations := make([]dto.AllocationOutput, 0, len(result.BestPlan.Allocations))
	for _, a := range result.BestPlan.Allocations {
		allocations = append(allocations, fromAllocation(a))
	}
	return &dto.OptimizationResult{
		Allocations:    allocations,
		TotalProfit:    result.BestPlan.TotalProfit(),
		TotalCost:      result.BestPlan.TotalCost(),
		TotalRevenue:   result.BestPlan.TotalRevenue(),
		Iterations:     result.Iterations,
		Accepted:       !result.Cancelled,
		Improved:       finalProfit > initialProfit,
		ElapsedSeconds: elapsed.Seconds(),
		Diagnostics: &dto.Diagnostics{
			OperatorWeights: engine.Weights(),
		},
	}
}
