package approval

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
)

// ChangeType classifies one assignment's place in a plan comparison.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// FieldChange records one field-level difference on a modified assignment.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// AssignmentDiff is one classified assignment in a plan comparison.
type AssignmentDiff struct {
	DemandID     uuid.UUID     `json:"demand_id"`
	EmployeeID   uuid.UUID     `json:"employee_id"`
	AssignmentID uuid.UUID     `json:"assignment_id"`
	Change       ChangeType    `json:"change"`
	Changes      []FieldChange `json:"changes,omitempty"`
}

// DiffSummary counts the diff entries by change type.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// PlanDiff compares a plan against a baseline plan.
type PlanDiff struct {
	PlanID        uuid.UUID        `json:"plan_id"`
	BaselineID    *uuid.UUID       `json:"baseline_id,omitempty"`
	Entries       []AssignmentDiff `json:"entries"`
	Summary       DiffSummary      `json:"summary"`
	CoverageDelta float64          `json:"coverage_delta"`
}

// bindingKey identifies an assignment across plan versions by what it binds,
// not by its row id, so re-planned versions of the same binding line up.
type bindingKey struct {
	demandID   uuid.UUID
	employeeID uuid.UUID
}

// DiffPlans classifies every assignment of plan against the baseline. A nil
// baseline means an empty one: every assignment comes out added.
func DiffPlans(plan *model.Plan, baseline *model.Plan) *PlanDiff {
	diff := &PlanDiff{
		PlanID:  plan.ID,
		Entries: make([]AssignmentDiff, 0, len(plan.Assignments)),
	}

	var baseByKey map[bindingKey]model.Assignment
	if baseline != nil {
		id := baseline.ID
		diff.BaselineID = &id
		diff.CoverageDelta = plan.Coverage.CoveragePercentage - baseline.Coverage.CoveragePercentage
		baseByKey = make(map[bindingKey]model.Assignment, len(baseline.Assignments))
		for _, a := range baseline.Assignments {
			baseByKey[bindingKey{a.DemandID, a.EmployeeID}] = a
		}
	} else {
		diff.CoverageDelta = plan.Coverage.CoveragePercentage
	}

	seen := make(map[bindingKey]bool, len(plan.Assignments))
	for _, a := range plan.Assignments {
		key := bindingKey{a.DemandID, a.EmployeeID}
		seen[key] = true

		base, inBaseline := baseByKey[key]
		if !inBaseline {
			diff.Entries = append(diff.Entries, AssignmentDiff{
				DemandID:     a.DemandID,
				EmployeeID:   a.EmployeeID,
				AssignmentID: a.ID,
				Change:       ChangeAdded,
			})
			diff.Summary.Added++
			continue
		}

		changes := fieldChanges(base, a)
		if len(changes) > 0 {
			diff.Entries = append(diff.Entries, AssignmentDiff{
				DemandID:     a.DemandID,
				EmployeeID:   a.EmployeeID,
				AssignmentID: a.ID,
				Change:       ChangeModified,
				Changes:      changes,
			})
			diff.Summary.Modified++
		}
	}

	if baseline != nil {
		for _, a := range baseline.Assignments {
			key := bindingKey{a.DemandID, a.EmployeeID}
			if !seen[key] {
				diff.Entries = append(diff.Entries, AssignmentDiff{
					DemandID:     a.DemandID,
					EmployeeID:   a.EmployeeID,
					AssignmentID: a.ID,
					Change:       ChangeRemoved,
				})
				diff.Summary.Removed++
			}
		}
	}

	return diff
}

// fieldChanges lists the status, score and explanation differences.
func fieldChanges(from, to model.Assignment) []FieldChange {
	var changes []FieldChange
	if from.Status != to.Status {
		changes = append(changes, FieldChange{Field: "status", From: string(from.Status), To: string(to.Status)})
	}
	if from.Score != to.Score {
		changes = append(changes, FieldChange{Field: "score", From: fmt.Sprintf("%d", from.Score), To: fmt.Sprintf("%d", to.Score)})
	}
	if from.Explanation != to.Explanation {
		changes = append(changes, FieldChange{Field: "explanation", From: from.Explanation, To: to.Explanation})
	}
	return changes
}
