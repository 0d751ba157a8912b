package main

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/urban-gardening/cropplanner/internal/service"
	plannererrors "github.com/urban-gardening/cropplanner/internal/utils/errors"
	"github.com/urban-gardening/cropplanner/internal/utils/validator"
	"github.com/urban-gardening/cropplanner/pkg/dto"
)

// api adapts internal/service.Planner to http.HandlerFunc, translating
// JSON request bodies in and dto.OptimizationResult/dto.ErrorResponse out.
type api struct {
	planner   *service.Planner
	validator *validator.CustomValidator
	metrics   *metrics
	log       *zap.Logger
}

func newAPI(planner *service.Planner, m *metrics, log *zap.Logger) *api {
	return &api{
		planner:   planner,
		validator: validator.NewValidator(),
		metrics:   m,
		log:       log,
	}
}

func (a *api) handleOptimize(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req dto.OptimizationRequest
	if !a.decode(w, r, "optimize", &req) {
		return
	}

	result, err := a.planner.Optimize(r.Context(), req)
	a.respond(w, "optimize", started, result, err)
}

func (a *api) handleAdjust(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req dto.AdjustRequest
	if !a.decode(w, r, "adjust", &req) {
		return
	}

	result, err := a.planner.Adjust(r.Context(), req)
	a.respond(w, "adjust", started, result, err)
}

// decode reads and validates the request body, writing an error response
// and returning false if either step fails.
func (a *api) decode(w http.ResponseWriter, r *http.Request, route string, body interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		a.writeError(w, route, plannererrors.Wrap(plannererrors.KindInputValidation, err, "malformed request body", nil))
		return false
	}
	if err := a.validator.ValidateStruct(body); err != nil {
		a.writeError(w, route, err)
		return false
	}
	return true
}

func (a *api) respond(w http.ResponseWriter, route string, started time.Time, result *dto.OptimizationResult, err error) {
	if err != nil {
		a.writeError(w, route, err)
		return
	}

	if result != nil {
		a.metrics.iterationsTotal.Add(float64(result.Iterations))
		if result.Accepted {
			a.metrics.acceptedTotal.Inc()
		}
		if result.Improved {
			a.metrics.improvedTotal.Inc()
		}
	}

	a.metrics.requestLatency.WithLabelValues(route, "200").Observe(time.Since(started).Seconds())
	a.writeJSON(w, http.StatusOK, result)
}

func (a *api) writeError(w http.ResponseWriter, route string, err error) {
	status := http.StatusInternalServerError
	kind := plannererrors.KindInternal
	var metadata map[string]interface{}

	var plannerErr *plannererrors.Error
	if stderrors.As(err, &plannerErr) {
		kind = plannerErr.Kind()
		metadata = plannerErr.Metadata()
		status = statusForKind(kind)
	}

	a.log.Warn("request failed", zap.String("route", route), zap.String("kind", string(kind)), zap.Error(err))
	a.metrics.requestLatency.WithLabelValues(route, http.StatusText(status)).Observe(0)
	a.writeJSON(w, status, dto.ErrorResponse{
		Kind:    string(kind),
		Message: err.Error(),
		Details: metadata,
	})
}

func statusForKind(kind plannererrors.Kind) int {
	switch kind {
	case plannererrors.KindInputValidation:
		return http.StatusBadRequest
	case plannererrors.KindEmptySolution:
		return http.StatusUnprocessableEntity
	case plannererrors.KindTimedOut:
		return http.StatusGatewayTimeout
	case plannererrors.KindCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *api) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.log.Error("failed to encode response", zap.Error(err))
	}
}
