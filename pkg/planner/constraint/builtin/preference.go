package builtin

import (
	"fmt"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// PreferenceConstraint scores the assignment against the employee's stated
// shift, station and day-off preferences.
type PreferenceConstraint struct {
	*BaseConstraint
}

// NewPreferenceConstraint creates the preference constraint.
func NewPreferenceConstraint() *PreferenceConstraint {
	return &PreferenceConstraint{
		BaseConstraint: NewBaseConstraint(
			constraint.IDPreference,
			"Preference",
			constraint.TypeSoft,
			50,
			constraint.SeverityWarning,
		),
	}
}

// Validate checks one assignment.
func (c *PreferenceConstraint) Validate(a *model.Assignment, ctx *planner.Context) []constraint.Violation {
	emp, ok := ctx.Employee(a.EmployeeID)
	if !ok || emp.Preferences == nil {
		return nil
	}
	demand, ok := ctx.Demand(a.DemandID)
	if !ok {
		return nil
	}

	var violations []constraint.Violation

	if template, ok := ctx.ShiftTemplate(demand.ShiftTemplateID); ok && emp.AvoidsShiftType(template.ShiftType) {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityWarning,
			fmt.Sprintf("%s asked to avoid %s shifts.", emp.Name, template.ShiftType),
			a.ID,
		).WithAdditionalActions(fmt.Sprintf("Offer the %s shift to an employee who prefers it", template.ShiftType)))
	}

	if day, err := model.ParseDate(demand.Date); err == nil && emp.PrefersDayOff(day.Weekday()) {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityWarning,
			fmt.Sprintf("%s prefers %ss off.", emp.Name, day.Weekday()),
			a.ID,
		).WithAdditionalActions(fmt.Sprintf("Swap the %s demand with a teammate", day.Weekday())))
	}

	if prefs := emp.Preferences.PreferredStations; len(prefs) > 0 && !emp.PrefersStation(demand.StationID.String()) {
		if station, ok := ctx.Station(demand.StationID); ok {
			violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityInfo,
				fmt.Sprintf("Station %s is not among %s's preferred stations.", station.Name, emp.Name),
				a.ID,
			))
		}
	}

	return violations
}
