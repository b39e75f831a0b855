package builtin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// LaborLawConstraint enforces daily and weekly hour caps, minimum rest
// between shifts, and the consecutive working day cap.
type LaborLawConstraint struct {
	*BaseConstraint
	defaultMaxConsecutiveDays int
}

// NewLaborLawConstraint creates the labor law constraint.
func NewLaborLawConstraint(defaultMaxConsecutiveDays int) *LaborLawConstraint {
	return &LaborLawConstraint{
		BaseConstraint: NewBaseConstraint(
			constraint.IDLaborLaw,
			"Labor law",
			constraint.TypeHard,
			90,
			constraint.SeverityCritical,
		),
		defaultMaxConsecutiveDays: defaultMaxConsecutiveDays,
	}
}

// Validate checks one assignment.
func (c *LaborLawConstraint) Validate(a *model.Assignment, ctx *planner.Context) []constraint.Violation {
	emp, ok := ctx.Employee(a.EmployeeID)
	if !ok {
		return nil
	}
	demand, ok := ctx.Demand(a.DemandID)
	if !ok {
		return nil
	}

	newHours := ctx.AssignmentHours(a)

	var violations []constraint.Violation

	if newHours > emp.MaxHoursPerDay {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
			fmt.Sprintf("The shift lasts %.1fh, above %s's daily limit of %.1fh.", newHours, emp.Name, emp.MaxHoursPerDay),
			a.ID,
		).WithAdditionalActions("Split the demand across two shorter shifts"))
	}

	existingDay := c.hoursOnDateExcluding(ctx, emp.ID, demand.Date, a.ID)
	if total := existingDay + newHours; total > emp.MaxHoursPerDay {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
			fmt.Sprintf("%s would work %.1fh on %s, above the daily limit of %.1fh.", emp.Name, total, demand.Date, emp.MaxHoursPerDay),
			a.ID,
		).WithAdditionalActions("Drop one of the same-day shifts or reassign it"))
	}

	weekStart := model.WeekStart(demand.Date)
	existingWeek := c.weeklyHoursExcluding(ctx, emp.ID, weekStart, a.ID)
	if total := existingWeek + newHours; total > emp.WeeklyHours {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
			fmt.Sprintf("%s would reach %.1fh in the week of %s, above the contracted %.1fh.", emp.Name, total, weekStart, emp.WeeklyHours),
			a.ID,
		).WithAdditionalActions("Shift part of the weekly load to an under-utilised colleague"))
	}

	violations = append(violations, c.checkRest(a, emp, demand, ctx)...)

	cap := emp.MaxConsecutiveDays(c.defaultMaxConsecutiveDays)
	if days := ctx.EmployeeConsecutiveDays(emp.ID, demand.Date) + 1; days > cap {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityWarning,
			fmt.Sprintf("%s would work %d consecutive days, above the cap of %d.", emp.Name, days, cap),
			a.ID,
		).WithAdditionalActions("Plan a rest day inside the streak"))
	}

	return violations
}

// checkRest verifies the minimum wall-clock gap between this shift and the
// employee's shifts on the adjacent calendar days.
func (c *LaborLawConstraint) checkRest(a *model.Assignment, emp *model.Employee, demand *model.ShiftDemand, ctx *planner.Context) []constraint.Violation {
	if emp.MinRestHours <= 0 {
		return nil
	}
	start, end, ok := ctx.AssignmentWindow(a)
	if !ok {
		return nil
	}

	var violations []constraint.Violation
	for _, date := range []string{model.PreviousDate(demand.Date), model.NextDate(demand.Date)} {
		for _, other := range ctx.EmployeeAssignmentsOnDate(emp.ID, date) {
			if other.ID == a.ID {
				continue
			}
			oStart, oEnd, ok := ctx.AssignmentWindow(other)
			if !ok {
				continue
			}
			var gap float64
			switch {
			case !start.Before(oEnd):
				gap = start.Sub(oEnd).Hours()
			case !oStart.Before(end):
				gap = oStart.Sub(end).Hours()
			default:
				continue // overlap, reported by the availability constraint
			}
			if gap < emp.MinRestHours {
				violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
					fmt.Sprintf("%s would rest only %.1fh between assignments %s and %s, below the required %.1fh.", emp.Name, gap, a.ID, other.ID, emp.MinRestHours),
					a.ID, other.ID,
				).WithAdditionalActions("Pick a shift that leaves enough rest, or reassign the adjacent one"))
			}
		}
	}
	return violations
}

// hoursOnDateExcluding sums the employee's hours on one date, skipping the
// assignment under evaluation so re-validation does not double count.
func (c *LaborLawConstraint) hoursOnDateExcluding(ctx *planner.Context, employeeID uuid.UUID, date string, exclude uuid.UUID) float64 {
	var hours float64
	for _, a := range ctx.EmployeeAssignmentsOnDate(employeeID, date) {
		if a.ID == exclude {
			continue
		}
		hours += ctx.AssignmentHours(a)
	}
	return hours
}

// weeklyHoursExcluding sums the employee's hours across the 7 days starting
// at weekStart, skipping the assignment under evaluation.
func (c *LaborLawConstraint) weeklyHoursExcluding(ctx *planner.Context, employeeID uuid.UUID, weekStart string, exclude uuid.UUID) float64 {
	var hours float64
	date := weekStart
	for i := 0; i < 7; i++ {
		hours += c.hoursOnDateExcluding(ctx, employeeID, date, exclude)
		date = model.NextDate(date)
	}
	return hours
}
