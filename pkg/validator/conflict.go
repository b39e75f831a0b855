// Package validator detects scheduling collisions at commit time.
package validator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
)

// ConflictType classifies a commit-time collision.
type ConflictType string

const (
	ConflictOverlap     ConflictType = "time_overlap"
	ConflictDoubleBook  ConflictType = "double_booking"
	ConflictUnavailable ConflictType = "employee_unavailable"
)

// Conflict is one collision between an assignment being committed and the
// already-committed schedule.
type Conflict struct {
	Type          ConflictType `json:"type"`
	AssignmentID  uuid.UUID    `json:"assignment_id"`
	ConflictsWith uuid.UUID    `json:"conflicts_with,omitempty"`
	EmployeeID    uuid.UUID    `json:"employee_id"`
	Message       string       `json:"message"`
}

// ConflictDetector checks assignments against committed state before they
// are written through.
type ConflictDetector struct{}

// NewConflictDetector creates a conflict detector.
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// Detect returns every collision between the assignment and the committed
// assignments visible in the context. The committed set must already be part
// of the context so the shift windows can be resolved.
func (d *ConflictDetector) Detect(a *model.Assignment, committed []*model.Assignment, ctx *planner.Context) []Conflict {
	var conflicts []Conflict

	emp, ok := ctx.Employee(a.EmployeeID)
	if !ok || !emp.IsActive() {
		conflicts = append(conflicts, Conflict{
			Type:         ConflictUnavailable,
			AssignmentID: a.ID,
			EmployeeID:   a.EmployeeID,
			Message:      fmt.Sprintf("Employee %s is not active and cannot be committed.", a.EmployeeID),
		})
		return conflicts
	}

	start, end, ok := ctx.AssignmentWindow(a)
	if !ok {
		return conflicts
	}

	for _, other := range committed {
		if other.ID == a.ID || other.EmployeeID != a.EmployeeID || !other.IsActive() {
			continue
		}
		if other.DemandID == a.DemandID {
			conflicts = append(conflicts, Conflict{
				Type:          ConflictDoubleBook,
				AssignmentID:  a.ID,
				ConflictsWith: other.ID,
				EmployeeID:    a.EmployeeID,
				Message:       fmt.Sprintf("%s is already committed to this demand via assignment %s.", emp.Name, other.ID),
			})
			continue
		}
		oStart, oEnd, ok := ctx.AssignmentWindow(other)
		if !ok {
			continue
		}
		if start.Before(oEnd) && oStart.Before(end) {
			conflicts = append(conflicts, Conflict{
				Type:          ConflictOverlap,
				AssignmentID:  a.ID,
				ConflictsWith: other.ID,
				EmployeeID:    a.EmployeeID,
				Message: fmt.Sprintf("Assignment %s overlaps committed assignment %s for %s.",
					a.ID, other.ID, emp.Name),
			})
		}
	}

	return conflicts
}
