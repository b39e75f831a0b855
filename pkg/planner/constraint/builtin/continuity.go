package builtin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// ContinuityConstraint compares the employee's recent familiarity with the
// station against the baseline of colleagues who worked it.
type ContinuityConstraint struct {
	*BaseConstraint
	windowDays int
}

// NewContinuityConstraint creates the continuity constraint.
func NewContinuityConstraint(windowDays int) *ContinuityConstraint {
	return &ContinuityConstraint{
		BaseConstraint: NewBaseConstraint(
			constraint.IDContinuity,
			"Continuity",
			constraint.TypeSoft,
			40,
			constraint.SeverityInfo,
		),
		windowDays: windowDays,
	}
}

// Validate checks one assignment.
func (c *ContinuityConstraint) Validate(a *model.Assignment, ctx *planner.Context) []constraint.Violation {
	emp, ok := ctx.Employee(a.EmployeeID)
	if !ok {
		return nil
	}
	demand, ok := ctx.Demand(a.DemandID)
	if !ok {
		return nil
	}
	station, ok := ctx.Station(demand.StationID)
	if !ok {
		return nil
	}

	from := model.AddDays(demand.Date, -(c.windowDays - 1))
	own := c.stationCount(ctx, emp.ID, station.ID, from, demand.Date, a.ID)
	if own > 0 {
		return nil
	}

	// Nobody has recent history at a brand-new station; stay quiet then.
	baseline := 0
	for _, other := range ctx.Employees() {
		if other.ID == emp.ID || !other.IsActive() {
			continue
		}
		if c.stationCount(ctx, other.ID, station.ID, from, demand.Date, a.ID) > 0 {
			baseline++
		}
	}
	if baseline == 0 {
		return nil
	}

	severity := constraint.SeverityInfo
	if station.Priority == model.PriorityHigh || station.Priority == model.PriorityCritical {
		severity = constraint.SeverityWarning
	}
	return []constraint.Violation{constraint.NewViolation(c.ID(), severity,
		fmt.Sprintf("%s has not worked station %s in the last %d days.", emp.Name, station.Name, c.windowDays),
		a.ID,
	).WithAdditionalActions(fmt.Sprintf("Pair %s with an experienced colleague at %s", emp.Name, station.Name))}
}

// stationCount counts the employee's active assignments at one station
// within the window.
func (c *ContinuityConstraint) stationCount(ctx *planner.Context, employeeID, stationID uuid.UUID, from, to string, exclude uuid.UUID) int {
	count := 0
	for _, a := range ctx.EmployeeAssignments(employeeID) {
		if a.ID == exclude || !a.IsActive() {
			continue
		}
		demand, ok := ctx.Demand(a.DemandID)
		if !ok || demand.StationID != stationID {
			continue
		}
		if demand.Date >= from && demand.Date <= to {
			count++
		}
	}
	return count
}
