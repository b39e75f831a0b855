package builtin

import (
	"fmt"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// AvailabilityConstraint checks that the employee is active, not absent on
// the demand date, and free of overlapping assignments.
type AvailabilityConstraint struct {
	*BaseConstraint
}

// NewAvailabilityConstraint creates the availability constraint.
func NewAvailabilityConstraint() *AvailabilityConstraint {
	return &AvailabilityConstraint{
		BaseConstraint: NewBaseConstraint(
			constraint.IDAvailability,
			"Availability",
			constraint.TypeHard,
			95,
			constraint.SeverityCritical,
		),
	}
}

// Validate checks one assignment.
func (c *AvailabilityConstraint) Validate(a *model.Assignment, ctx *planner.Context) []constraint.Violation {
	emp, ok := ctx.Employee(a.EmployeeID)
	if !ok {
		return nil
	}
	demand, ok := ctx.Demand(a.DemandID)
	if !ok {
		return nil
	}

	var violations []constraint.Violation

	if !emp.IsActive() {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
			fmt.Sprintf("%s is inactive and cannot be assigned.", emp.Name),
			a.ID,
		).WithAdditionalActions("Pick an active employee for this demand"))
	}

	for _, ab := range ctx.EmployeeAbsencesOnDate(emp.ID, demand.Date) {
		if !ab.Blocks(demand.Date) {
			continue
		}
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
			fmt.Sprintf("%s has an approved %s absence from %s to %s covering %s.", emp.Name, ab.Type, ab.DateStart, ab.DateEnd, demand.Date),
			a.ID,
		).WithAdditionalActions("Reassign the demand to an available employee"))
	}

	violations = append(violations, c.checkOverlaps(a, emp, ctx)...)

	return violations
}

// checkOverlaps flags other active assignments whose shift window intersects
// this one. Windows are inclusive at the start, exclusive at the end, with
// overnight shifts rolled over to the next day.
func (c *AvailabilityConstraint) checkOverlaps(a *model.Assignment, emp *model.Employee, ctx *planner.Context) []constraint.Violation {
	start, end, ok := ctx.AssignmentWindow(a)
	if !ok {
		return nil
	}

	var violations []constraint.Violation
	for _, other := range ctx.EmployeeAssignments(emp.ID) {
		if other.ID == a.ID || !other.IsActive() {
			continue
		}
		oStart, oEnd, ok := ctx.AssignmentWindow(other)
		if !ok {
			continue
		}
		if start.Before(oEnd) && oStart.Before(end) {
			date, _ := ctx.AssignmentDate(other)
			violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
				fmt.Sprintf("%s already works an overlapping shift on %s (assignment %s).", emp.Name, date, other.ID),
				a.ID, other.ID,
			).WithAdditionalActions("Move one of the overlapping assignments to another employee"))
		}
	}
	return violations
}
