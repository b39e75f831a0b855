package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
)

// AssignmentStatus tracks an assignment through its lifecycle.
type AssignmentStatus string

const (
	AssignmentProposed  AssignmentStatus = "proposed"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentRejected  AssignmentStatus = "rejected"
	AssignmentCommitted AssignmentStatus = "committed"
)

// Assignment binds one employee to one demand. Treat values as immutable:
// changes go through the With* copies, and a committed assignment is final.
type Assignment struct {
	BaseModel
	DemandID    uuid.UUID        `json:"demand_id" db:"demand_id"`
	EmployeeID  uuid.UUID        `json:"employee_id" db:"employee_id"`
	Status      AssignmentStatus `json:"status" db:"status"`
	Score       int              `json:"score" db:"score"` // 0-100
	Explanation string           `json:"explanation,omitempty" db:"explanation"`
	CreatedBy   string           `json:"created_by,omitempty" db:"created_by"`
}

// NewAssignment creates a proposed assignment.
func NewAssignment(demandID, employeeID uuid.UUID, score int, createdBy string) (Assignment, error) {
	if score < 0 || score > 100 {
		return Assignment{}, errors.InvalidInput("score", "must be between 0 and 100")
	}
	return Assignment{
		BaseModel:  NewBaseModel(),
		DemandID:   demandID,
		EmployeeID: employeeID,
		Status:     AssignmentProposed,
		Score:      score,
		CreatedBy:  createdBy,
	}, nil
}

// IsCommitted reports whether the assignment reached its terminal state.
func (a Assignment) IsCommitted() bool {
	return a.Status == AssignmentCommitted
}

// IsActive reports whether the assignment occupies the employee's time.
func (a Assignment) IsActive() bool {
	return a.Status != AssignmentRejected
}

// WithStatus returns a copy in the given status. Committed assignments are
// immutable and return an error instead.
func (a Assignment) WithStatus(status AssignmentStatus) (Assignment, error) {
	if a.IsCommitted() {
		return a, errors.New(errors.CodeIllegalTransition, "committed assignments are immutable")
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return a, nil
}

// WithScore returns a copy with a recomputed score and explanation.
func (a Assignment) WithScore(score int, explanation string) (Assignment, error) {
	if score < 0 || score > 100 {
		return a, errors.InvalidInput("score", "must be between 0 and 100")
	}
	if a.IsCommitted() {
		return a, errors.New(errors.CodeIllegalTransition, "committed assignments are immutable")
	}
	a.Score = score
	a.Explanation = explanation
	a.UpdatedAt = time.Now()
	return a, nil
}
