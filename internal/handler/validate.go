package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/internal/metrics"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/explain"
)

// ValidateRequest evaluates one or more proposed assignments against an
// inline snapshot.
type ValidateRequest struct {
	Snapshot    SnapshotInput      `json:"snapshot" validate:"required"`
	Assignments []model.Assignment `json:"proposed_assignments" validate:"required,min=1"`
}

// AssignmentVerdict is one assignment's evaluation outcome.
type AssignmentVerdict struct {
	AssignmentID uuid.UUID              `json:"assignment_id"`
	EmployeeID   uuid.UUID              `json:"employee_id"`
	Feasible     bool                   `json:"feasible"`
	Violations   []constraint.Violation `json:"violations"`
	Summary      map[string]int         `json:"summary"`
}

// validateAssignments runs the constraint engine over the proposed
// assignments. The proposals are layered onto the snapshot's context so they
// see each other.
func (h *Handler) validateAssignments(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ctx := planner.NewContext(req.Snapshot.toSnapshot())
	proposals := make([]*model.Assignment, len(req.Assignments))
	for i := range req.Assignments {
		proposals[i] = &req.Assignments[i]
	}
	ctx = ctx.WithAdditionalAssignments(proposals...)

	started := time.Now()
	results := h.manager.EvaluateBatch(proposals, ctx)
	duration := time.Since(started)

	verdicts := make([]AssignmentVerdict, len(results))
	for i, res := range results {
		ranked := h.manager.Rank(res.Violations)
		verdicts[i] = AssignmentVerdict{
			AssignmentID: res.Assignment.ID,
			EmployeeID:   res.Assignment.EmployeeID,
			Feasible:     res.Feasible,
			Violations:   ranked,
			Summary:      severitySummary(ranked),
		}
		metrics.ObserveEvaluation(res.Feasible, duration/time.Duration(len(results)))
	}

	respond(w, http.StatusOK, verdicts)
}

// severitySummary counts violations per severity.
func severitySummary(violations []constraint.Violation) map[string]int {
	summary := map[string]int{}
	for _, v := range violations {
		summary[string(v.Severity)]++
	}
	return summary
}

// ExplainRequest asks for the reasoning chain behind one assignment.
type ExplainRequest struct {
	Snapshot   SnapshotInput       `json:"snapshot" validate:"required"`
	Assignment model.Assignment    `json:"assignment" validate:"required"`
	Candidates []explain.Candidate `json:"candidates"`
}

// explainAssignment evaluates the assignment and produces its explanation.
func (h *Handler) explainAssignment(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	ctx := planner.NewContext(req.Snapshot.toSnapshot()).WithAdditionalAssignments(&req.Assignment)
	violations := h.manager.Evaluate(&req.Assignment, ctx)

	explanation, err := h.engine.GenerateExplanation(explain.Input{
		Assignment: &req.Assignment,
		Context:    ctx,
		Candidates: req.Candidates,
		Violations: violations,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, explanation)
}
