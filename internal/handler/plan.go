package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/internal/metrics"
	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/logger"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/approval"
)

// reviewPlan produces the pre-approval review of a plan.
func (h *Handler) reviewPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.approval.ReviewPlan(r.Context(), planID, 0, 0)
	if err != nil {
		respondError(w, err)
		return
	}
	metrics.SetPlanCoverage(planID.String(), result.Plan.Coverage.CoveragePercentage)
	respond(w, http.StatusOK, result)
}

// ApprovePlanRequest partitions a plan's assignments for approval.
type ApprovePlanRequest struct {
	PlanID      uuid.UUID   `json:"plan_id" validate:"required"`
	ApprovedIDs []uuid.UUID `json:"approved_ids"`
	RejectedIDs []uuid.UUID `json:"rejected_ids"`
	ApprovedBy  string      `json:"approved_by" validate:"required"`
	Comment     string      `json:"comment"`
}

// approvePlan moves a plan through the approval partition.
func (h *Handler) approvePlan(w http.ResponseWriter, r *http.Request) {
	var req ApprovePlanRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.approval.ApprovePlan(r.Context(), approval.ApproveRequest{
		PlanID:      req.PlanID,
		ApprovedIDs: req.ApprovedIDs,
		RejectedIDs: req.RejectedIDs,
		ApprovedBy:  req.ApprovedBy,
		Comment:     req.Comment,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	metrics.IncPlanTransition(string(model.PlanPendingApproval), string(result.Plan.Status))
	respond(w, http.StatusOK, result)
}

// CommitPlanRequest commits an approved plan. The snapshot, when present,
// lets the commit resolve shift windows for conflict detection.
type CommitPlanRequest struct {
	PlanID      uuid.UUID      `json:"plan_id" validate:"required"`
	CommittedBy string         `json:"committed_by" validate:"required"`
	Snapshot    *SnapshotInput `json:"snapshot"`
}

// commitPlan commits the confirmed assignments of an approved plan.
func (h *Handler) commitPlan(w http.ResponseWriter, r *http.Request) {
	var req CommitPlanRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	var vctx *planner.Context
	if req.Snapshot != nil {
		vctx = planner.NewContext(req.Snapshot.toSnapshot())
	} else {
		logger.Warn().Str("plan_id", req.PlanID.String()).Msg("commit without snapshot, conflict detection skipped")
	}

	result, err := h.approval.CommitPlan(r.Context(), approval.CommitRequest{
		PlanID:      req.PlanID,
		CommittedBy: req.CommittedBy,
		Validation:  vctx,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	metrics.IncPlanTransition(string(model.PlanApproved), string(model.PlanCommitted))
	respond(w, http.StatusOK, result)
}

// RejectPlanRequest rejects a plan outright.
type RejectPlanRequest struct {
	RejectedBy string `json:"rejected_by" validate:"required"`
	Reason     string `json:"reason"`
}

// rejectPlan rejects a non-committed plan.
func (h *Handler) rejectPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req RejectPlanRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, err)
		return
	}

	plan, err := h.approval.RejectPlan(r.Context(), planID, req.RejectedBy, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	metrics.IncPlanTransition(string(model.PlanPendingApproval), string(model.PlanRejected))
	respond(w, http.StatusOK, plan)
}

// comparePlans diffs a plan against another plan or an empty baseline.
func (h *Handler) comparePlans(w http.ResponseWriter, r *http.Request) {
	planID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var comparedID *uuid.UUID
	if other := chi.URLParam(r, "other"); other != "" {
		id, err := uuid.Parse(other)
		if err != nil {
			respondError(w, apperrors.InvalidInput("other", "must be a UUID"))
			return
		}
		comparedID = &id
	}

	diff, err := h.approval.ComparePlans(r.Context(), planID, comparedID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, diff)
}

// pathID parses a UUID path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.InvalidInput(name, "must be a UUID")
	}
	return id, nil
}
