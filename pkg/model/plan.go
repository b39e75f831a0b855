package model

import (
	"time"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
)

// PlanStatus tracks a plan through review and approval.
type PlanStatus string

const (
	PlanPendingApproval   PlanStatus = "pending_approval"
	PlanApproved          PlanStatus = "approved"
	PlanPartiallyApproved PlanStatus = "partially_approved"
	PlanRejected          PlanStatus = "rejected"
	PlanCommitted         PlanStatus = "committed"
)

// legalTransitions encodes the one-directional plan state machine.
// rejected and committed are terminal.
var legalTransitions = map[PlanStatus][]PlanStatus{
	PlanPendingApproval:   {PlanApproved, PlanPartiallyApproved, PlanRejected},
	PlanApproved:          {PlanCommitted, PlanRejected},
	PlanPartiallyApproved: {PlanCommitted, PlanRejected},
}

// CanTransition reports whether from -> to is a legal plan status change.
func CanTransition(from, to PlanStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CoverageStatus summarises how well a plan fills its demands.
type CoverageStatus struct {
	TotalSlots         int     `json:"total_slots"`
	FilledSlots        int     `json:"filled_slots"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// Plan is a versioned bundle of assignments for a date range.
type Plan struct {
	BaseModel
	Name        string         `json:"name" db:"name"`
	Status      PlanStatus     `json:"status" db:"status"`
	DateRange   DateRange      `json:"date_range" db:"date_range"`
	Version     int            `json:"version" db:"version"`
	Assignments []Assignment   `json:"assignments" db:"-"`
	Coverage    CoverageStatus `json:"coverage" db:"coverage"`
	CreatedBy   string         `json:"created_by,omitempty" db:"created_by"`
	ReviewedBy  string         `json:"reviewed_by,omitempty" db:"reviewed_by"`
	CommittedAt *time.Time     `json:"committed_at,omitempty" db:"committed_at"`
}

// Validate checks the plan's structural invariants.
func (p *Plan) Validate() error {
	if _, err := ParseDate(p.DateRange.StartDate); err != nil {
		return errors.InvalidInput("date_range.start_date", "must be YYYY-MM-DD")
	}
	if _, err := ParseDate(p.DateRange.EndDate); err != nil {
		return errors.InvalidInput("date_range.end_date", "must be YYYY-MM-DD")
	}
	if p.DateRange.EndDate < p.DateRange.StartDate {
		return errors.New(errors.CodeInvalidTimeRange, "plan end date precedes start date")
	}
	return nil
}

// IsTerminal reports whether the plan reached a terminal status.
func (p *Plan) IsTerminal() bool {
	return p.Status == PlanRejected || p.Status == PlanCommitted
}

// WithStatus returns a copy in the given status, enforcing the state machine.
func (p Plan) WithStatus(status PlanStatus) (Plan, error) {
	if !CanTransition(p.Status, status) {
		return p, errors.IllegalTransition(string(p.Status), string(status))
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	if status == PlanCommitted {
		now := time.Now()
		p.CommittedAt = &now
	}
	return p, nil
}

// WithAssignments returns a copy carrying the given assignment set.
func (p Plan) WithAssignments(assignments []Assignment) Plan {
	copied := make([]Assignment, len(assignments))
	copy(copied, assignments)
	p.Assignments = copied
	p.UpdatedAt = time.Now()
	return p
}

// AssignmentByID finds an assignment in the plan.
func (p *Plan) AssignmentByID(id string) (Assignment, bool) {
	for _, a := range p.Assignments {
		if a.ID.String() == id {
			return a, true
		}
	}
	return Assignment{}, false
}
