// Package handler provides the HTTP API surface.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/internal/metrics"
	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/logger"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/approval"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint/builtin"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/explain"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/simulate"
)

// Handler wires the planning services into HTTP routes.
type Handler struct {
	manager    *constraint.Manager
	engine     *explain.Engine
	approval   *approval.Service
	simulation *simulate.Service
	validate   *validator.Validate
}

// New creates the HTTP handler.
func New(manager *constraint.Manager, engine *explain.Engine, approvalSvc *approval.Service, simulationSvc *simulate.Service) *Handler {
	return &Handler{
		manager:    manager,
		engine:     engine,
		approval:   approvalSvc,
		simulation: simulationSvc,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes builds the router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/validate", h.validateAssignments)
			r.Post("/explain", h.explainAssignment)
		})
		r.Route("/plans", func(r chi.Router) {
			r.Get("/{id}/review", h.reviewPlan)
			r.Post("/approve", h.approvePlan)
			r.Post("/commit", h.commitPlan)
			r.Post("/{id}/reject", h.rejectPlan)
			r.Get("/{id}/compare", h.comparePlans)
			r.Get("/{id}/compare/{other}", h.comparePlans)
		})
		r.Route("/simulations", func(r chi.Router) {
			r.Post("/run", h.runSimulation)
			r.Post("/compare", h.compareSimulations)
		})
		r.Get("/constraints/catalog", h.constraintCatalog)
	})

	return r
}

// health answers liveness probes.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// constraintCatalog lists the registered constraints.
func (h *Handler) constraintCatalog(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, builtin.Catalog(h.manager))
}

// envelope is the response wrapper every endpoint uses.
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *apiError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respond writes a success envelope.
func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// respondError writes an error envelope with the status mapped from the
// error code.
func respondError(w http.ResponseWriter, err error) {
	logger.WithError(err).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperrors.GetHTTPStatus(err))
	json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error: &apiError{
			Code:    string(apperrors.GetCode(err)),
			Message: err.Error(),
		},
		Timestamp: time.Now().UTC(),
	})
}

// decode parses and validates a JSON request body.
func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("body", "malformed JSON")
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperrors.InvalidInput("body", err.Error())
	}
	return nil
}

// requestMetrics records request counts and latency.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
			path = routeCtx.RoutePattern()
		}
		metrics.Get().Counter("shiftwise_http_requests_total").Inc(r.Method, path, strconv.Itoa(ww.Status()))
		metrics.Get().Histogram("shiftwise_http_request_duration_seconds").Observe(time.Since(started).Seconds(), r.Method, path)
	})
}

// SnapshotInput is the inline data snapshot a validation request carries.
// The caller preloads everything; the core never reaches out for data.
type SnapshotInput struct {
	AsOfDate       string                 `json:"as_of_date" validate:"required,datetime=2006-01-02"`
	Employees      []*model.Employee      `json:"employees" validate:"required,min=1"`
	Demands        []*model.ShiftDemand   `json:"demands" validate:"required,min=1"`
	Stations       []*model.Station       `json:"stations"`
	Templates      []*model.ShiftTemplate `json:"shift_templates"`
	Absences       []*model.Absence       `json:"absences"`
	Skills         []*model.Skill         `json:"skills"`
	EmployeeSkills []*model.EmployeeSkill `json:"employee_skills"`
	Assignments    []*model.Assignment    `json:"assignments"`
}

// toSnapshot converts the input into a planner snapshot.
func (s SnapshotInput) toSnapshot() planner.Snapshot {
	return planner.Snapshot{
		AsOfDate:    s.AsOfDate,
		Employees:   s.Employees,
		Demands:     s.Demands,
		Stations:    s.Stations,
		Templates:   s.Templates,
		Absences:    s.Absences,
		Skills:      s.Skills,
		EmpSkills:   s.EmployeeSkills,
		Assignments: s.Assignments,
	}
}
