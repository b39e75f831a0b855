// Package approval drives plans through review, approval and commit.
package approval

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/logger"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/validator"
)

// PlanRepository is the plan persistence the service depends on.
type PlanRepository interface {
	FindWithAssignments(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	FindByStatus(ctx context.Context, status model.PlanStatus) ([]*model.Plan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.PlanStatus, actor string) (*model.Plan, error)
	CommitPlan(ctx context.Context, id uuid.UUID, actor string) (*model.Plan, error)
}

// AssignmentRepository is the assignment persistence the service depends on.
type AssignmentRepository interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AssignmentStatus) (*model.Assignment, error)
	FindCommitted(ctx context.Context, rng model.DateRange) ([]*model.Assignment, error)
}

// AuditEntry is one recorded state change.
type AuditEntry struct {
	Action     string        `json:"action"`
	EntityType string        `json:"entity_type"`
	EntityID   uuid.UUID     `json:"entity_id"`
	UserID     string        `json:"user_id"`
	Changes    model.JSONMap `json:"changes"`
}

// AuditService records state changes. Failure handling is the collaborator's
// concern; the service treats logging as fire-and-forget.
type AuditService interface {
	LogAction(ctx context.Context, entry AuditEntry) error
}

// RiskLevel grades the impact of acting on a plan.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ReviewResult is the outcome of reviewing a plan before approval.
type ReviewResult struct {
	Plan              *model.Plan `json:"plan"`
	OverlappingPlanID *uuid.UUID  `json:"overlapping_plan_id,omitempty"`
	Diff              *PlanDiff   `json:"diff"`
	AffectedEmployees []uuid.UUID `json:"affected_employees"`
	RiskLevel         RiskLevel   `json:"risk_level"`
	Recommendations   []string    `json:"recommendations"`
}

// ApproveRequest partitions a plan's assignments. Empty id lists approve all.
type ApproveRequest struct {
	PlanID      uuid.UUID
	ApprovedIDs []uuid.UUID
	RejectedIDs []uuid.UUID
	ApprovedBy  string
	Comment     string
}

// ApproveResult reports the partition outcome.
type ApproveResult struct {
	Plan          *model.Plan `json:"plan"`
	ApprovedCount int         `json:"approved_count"`
	RejectedCount int         `json:"rejected_count"`
}

// CommitRequest commits a plan's confirmed assignments.
type CommitRequest struct {
	PlanID      uuid.UUID
	CommittedBy string
	// Validation holds the committed schedule so collisions can be resolved
	// against shift windows. Nil skips conflict detection.
	Validation *planner.Context
}

// CommitError records one assignment skipped during commit.
type CommitError struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	Message      string    `json:"message"`
}

// CommitResult reports the partial-success outcome of a commit.
type CommitResult struct {
	Plan      *model.Plan   `json:"plan"`
	Committed []uuid.UUID   `json:"committed"`
	Skipped   []uuid.UUID   `json:"skipped"`
	Errors    []CommitError `json:"errors"`
	// ConflictChecked is false when no validation context was supplied and
	// conflict detection therefore did not run.
	ConflictChecked bool `json:"conflict_checked"`
}

// Service is the plan approval state machine with injected persistence,
// audit and conflict-detection collaborators.
type Service struct {
	plans       PlanRepository
	assignments AssignmentRepository
	audit       AuditService
	conflicts   *validator.ConflictDetector
	log         *logger.PlannerLogger
}

// NewService creates a plan approval service.
func NewService(plans PlanRepository, assignments AssignmentRepository, audit AuditService) *Service {
	return &Service{
		plans:       plans,
		assignments: assignments,
		audit:       audit,
		conflicts:   validator.NewConflictDetector(),
		log:         logger.NewPlannerLogger(),
	}
}

// ReviewPlan loads the plan, diffs it against the overlapping committed plan
// if one exists, and grades the risk of approving it. A validation context,
// when supplied, contributes the violation count to the risk grade.
func (s *Service) ReviewPlan(ctx context.Context, planID uuid.UUID, violationCount, blockingCount int) (*ReviewResult, error) {
	plan, err := s.plans.FindWithAssignments(ctx, planID)
	if err != nil {
		return nil, err
	}

	var overlapping *model.Plan
	committed, err := s.plans.FindByStatus(ctx, model.PlanCommitted)
	if err != nil {
		return nil, err
	}
	for _, other := range committed {
		if other.ID != plan.ID && other.DateRange.Overlaps(plan.DateRange) {
			overlapping = other
			break
		}
	}

	diff := DiffPlans(plan, overlapping)

	result := &ReviewResult{
		Plan:              plan,
		Diff:              diff,
		AffectedEmployees: affectedEmployees(diff),
		RiskLevel:         riskLevel(plan.Coverage.CoveragePercentage, violationCount, blockingCount),
	}
	if overlapping != nil {
		id := overlapping.ID
		result.OverlappingPlanID = &id
	}
	result.Recommendations = s.reviewRecommendations(plan, diff, result.RiskLevel, blockingCount)

	return result, nil
}

// reviewRecommendations produces free-text advice for the reviewer.
func (s *Service) reviewRecommendations(plan *model.Plan, diff *PlanDiff, risk RiskLevel, blockingCount int) []string {
	var recs []string
	if blockingCount > 0 {
		recs = append(recs, fmt.Sprintf("Resolve %d blocking constraint violation(s) before approving.", blockingCount))
	}
	if plan.Coverage.CoveragePercentage < 85 {
		recs = append(recs, fmt.Sprintf("Coverage stands at %.1f%%; consider adding assignments for the %d unfilled slot(s).",
			plan.Coverage.CoveragePercentage, plan.Coverage.TotalSlots-plan.Coverage.FilledSlots))
	}
	if diff.Summary.Removed > 0 {
		recs = append(recs, fmt.Sprintf("Committing this plan removes %d assignment(s) present in the overlapping committed plan; notify the affected employees.", diff.Summary.Removed))
	}
	if risk == RiskLow && len(recs) == 0 {
		recs = append(recs, "The plan looks safe to approve as proposed.")
	}
	return recs
}

// ApprovePlan partitions the plan's assignments into confirmed and rejected
// sets and moves the plan to approved, partially_approved or rejected.
func (s *Service) ApprovePlan(ctx context.Context, req ApproveRequest) (*ApproveResult, error) {
	plan, err := s.plans.FindWithAssignments(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	approveAll := len(req.ApprovedIDs) == 0 && len(req.RejectedIDs) == 0
	approvedSet := toIDSet(req.ApprovedIDs)
	rejectedSet := toIDSet(req.RejectedIDs)

	targets := make([]model.AssignmentStatus, len(plan.Assignments))
	approved, rejected := 0, 0
	for i, a := range plan.Assignments {
		target := model.AssignmentRejected
		if approveAll || (approvedSet[a.ID] && !rejectedSet[a.ID]) {
			target = model.AssignmentConfirmed
		}
		targets[i] = target
		if target == model.AssignmentConfirmed {
			approved++
		} else {
			rejected++
		}
	}

	newStatus := model.PlanRejected
	switch {
	case approved > 0 && rejected == 0:
		newStatus = model.PlanApproved
	case approved > 0:
		newStatus = model.PlanPartiallyApproved
	}
	// A refused transition must leave every assignment untouched.
	if !model.CanTransition(plan.Status, newStatus) {
		return nil, apperrors.IllegalTransition(string(plan.Status), string(newStatus))
	}

	for i, a := range plan.Assignments {
		if _, err := s.assignments.UpdateStatus(ctx, a.ID, targets[i]); err != nil {
			return nil, err
		}
	}

	updated, err := s.plans.UpdateStatus(ctx, plan.ID, newStatus, req.ApprovedBy)
	if err != nil {
		return nil, err
	}
	s.log.PlanTransition(plan.ID.String(), string(plan.Status), string(newStatus), req.ApprovedBy)
	s.logAudit(ctx, "plan_approved", "plan", plan.ID, req.ApprovedBy, model.JSONMap{
		"from":     string(plan.Status),
		"to":       string(newStatus),
		"approved": approved,
		"rejected": rejected,
		"comment":  req.Comment,
	})

	return &ApproveResult{Plan: updated, ApprovedCount: approved, RejectedCount: rejected}, nil
}

// CommitPlan commits the confirmed assignments of an approved plan. Each
// assignment is checked against the already-committed schedule; conflicting
// ones are skipped and recorded, the rest go through. Partial success is
// success.
func (s *Service) CommitPlan(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	plan, err := s.plans.FindWithAssignments(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.Status != model.PlanApproved && plan.Status != model.PlanPartiallyApproved {
		return nil, apperrors.IllegalTransition(string(plan.Status), string(model.PlanCommitted))
	}

	committedSchedule, err := s.assignments.FindCommitted(ctx, plan.DateRange)
	if err != nil {
		return nil, err
	}

	result := &CommitResult{
		Committed:       make([]uuid.UUID, 0, len(plan.Assignments)),
		Skipped:         make([]uuid.UUID, 0),
		Errors:          make([]CommitError, 0),
		ConflictChecked: req.Validation != nil,
	}

	for i := range plan.Assignments {
		a := plan.Assignments[i]
		if a.Status != model.AssignmentConfirmed {
			continue
		}

		if req.Validation != nil {
			vctx := req.Validation.WithAdditionalAssignments(append(committedSchedule, &a)...)
			if conflicts := s.conflicts.Detect(&a, committedSchedule, vctx); len(conflicts) > 0 {
				result.Skipped = append(result.Skipped, a.ID)
				result.Errors = append(result.Errors, CommitError{AssignmentID: a.ID, Message: conflicts[0].Message})
				s.logAudit(ctx, "assignment_commit_skipped", "assignment", a.ID, req.CommittedBy, model.JSONMap{
					"reason": conflicts[0].Message,
				})
				continue
			}
		}

		updated, err := s.assignments.UpdateStatus(ctx, a.ID, model.AssignmentCommitted)
		if err != nil {
			result.Skipped = append(result.Skipped, a.ID)
			result.Errors = append(result.Errors, CommitError{AssignmentID: a.ID, Message: err.Error()})
			continue
		}
		result.Committed = append(result.Committed, a.ID)
		committedSchedule = append(committedSchedule, updated)
	}

	committedPlan, err := s.plans.CommitPlan(ctx, plan.ID, req.CommittedBy)
	if err != nil {
		return nil, err
	}
	result.Plan = committedPlan

	s.log.PlanTransition(plan.ID.String(), string(plan.Status), string(model.PlanCommitted), req.CommittedBy)
	s.logAudit(ctx, "plan_committed", "plan", plan.ID, req.CommittedBy, model.JSONMap{
		"committed": len(result.Committed),
		"skipped":   len(result.Skipped),
	})

	return result, nil
}

// RejectPlan rejects a plan from any non-committed status and rejects its
// still-proposed assignments.
func (s *Service) RejectPlan(ctx context.Context, planID uuid.UUID, by, reason string) (*model.Plan, error) {
	plan, err := s.plans.FindWithAssignments(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == model.PlanCommitted {
		return nil, apperrors.IllegalTransition(string(plan.Status), string(model.PlanRejected))
	}
	if plan.Status == model.PlanRejected {
		return plan, nil
	}

	for _, a := range plan.Assignments {
		if a.Status != model.AssignmentProposed {
			continue
		}
		if _, err := s.assignments.UpdateStatus(ctx, a.ID, model.AssignmentRejected); err != nil {
			return nil, err
		}
	}

	updated, err := s.plans.UpdateStatus(ctx, plan.ID, model.PlanRejected, by)
	if err != nil {
		return nil, err
	}
	s.log.PlanTransition(plan.ID.String(), string(plan.Status), string(model.PlanRejected), by)
	s.logAudit(ctx, "plan_rejected", "plan", plan.ID, by, model.JSONMap{
		"from":   string(plan.Status),
		"reason": reason,
	})

	return updated, nil
}

// ComparePlans diffs a plan against another plan, or against an empty
// baseline when no comparison plan is given.
func (s *Service) ComparePlans(ctx context.Context, planID uuid.UUID, comparedID *uuid.UUID) (*PlanDiff, error) {
	plan, err := s.plans.FindWithAssignments(ctx, planID)
	if err != nil {
		return nil, err
	}
	var baseline *model.Plan
	if comparedID != nil {
		baseline, err = s.plans.FindWithAssignments(ctx, *comparedID)
		if err != nil {
			return nil, err
		}
	}
	return DiffPlans(plan, baseline), nil
}

// logAudit records a state change; audit failures are logged, never fatal.
func (s *Service) logAudit(ctx context.Context, action, entityType string, entityID uuid.UUID, userID string, changes model.JSONMap) {
	if s.audit == nil {
		return
	}
	err := s.audit.LogAction(ctx, AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Changes:    changes,
	})
	if err != nil {
		logger.WithError(err).Str("action", action).Msg("audit write failed")
	}
}

// affectedEmployees collects the distinct employees touched by a diff.
func affectedEmployees(diff *PlanDiff) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, entry := range diff.Entries {
		if !seen[entry.EmployeeID] {
			seen[entry.EmployeeID] = true
			out = append(out, entry.EmployeeID)
		}
	}
	return out
}

// riskLevel grades the review from coverage and the violation picture.
func riskLevel(coverage float64, violationCount, blockingCount int) RiskLevel {
	level := RiskCritical
	switch {
	case coverage >= 95:
		level = RiskLow
	case coverage >= 85:
		level = RiskMedium
	case coverage >= 70:
		level = RiskHigh
	}
	if blockingCount > 0 && level == RiskLow {
		level = RiskMedium
	}
	if violationCount > 10 && level == RiskMedium {
		level = RiskHigh
	}
	return level
}

// toIDSet builds a lookup set from an id list.
func toIDSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
