package builtin

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// FairnessThresholds configures the fairness checks. The ratios are
// deliberately configuration, not constants baked into the rule.
type FairnessThresholds struct {
	WorkloadRatio       float64 // flag above this multiple of the team mean
	WeekendRatio        float64 // flag above this multiple of the team weekend mean
	ShiftTypeShare      float64 // flag above this share of one shift type
	MinShiftSample      int     // minimum shifts before the share check applies
	ShiftTypeWindowDays int     // trailing window for the share check
	WeekendWindowDays   int     // trailing window for the weekend check
}

// DefaultFairnessThresholds returns the production defaults.
func DefaultFairnessThresholds() FairnessThresholds {
	return FairnessThresholds{
		WorkloadRatio:       1.30,
		WeekendRatio:        1.50,
		ShiftTypeShare:      0.70,
		MinShiftSample:      5,
		ShiftTypeWindowDays: 30,
		WeekendWindowDays:   60,
	}
}

// FairnessConstraint compares the employee's load against the team baseline:
// weekly workload, trailing shift-type distribution, and weekend spread.
type FairnessConstraint struct {
	*BaseConstraint
	thresholds FairnessThresholds
}

// NewFairnessConstraint creates the fairness constraint.
func NewFairnessConstraint(thresholds FairnessThresholds) *FairnessConstraint {
	return &FairnessConstraint{
		BaseConstraint: NewBaseConstraint(
			constraint.IDFairness,
			"Fairness",
			constraint.TypeSoft,
			60,
			constraint.SeverityWarning,
		),
		thresholds: thresholds,
	}
}

// Validate checks one assignment.
func (c *FairnessConstraint) Validate(a *model.Assignment, ctx *planner.Context) []constraint.Violation {
	emp, ok := ctx.Employee(a.EmployeeID)
	if !ok {
		return nil
	}
	demand, ok := ctx.Demand(a.DemandID)
	if !ok {
		return nil
	}

	var violations []constraint.Violation
	violations = append(violations, c.checkWorkload(a, emp, demand, ctx)...)
	violations = append(violations, c.checkShiftTypeShare(a, emp, demand, ctx)...)
	if model.IsWeekend(demand.Date) {
		violations = append(violations, c.checkWeekendSpread(a, emp, demand, ctx)...)
	}
	return violations
}

// checkWorkload flags a projected weekly load far above the team mean and
// names under-loaded alternatives.
func (c *FairnessConstraint) checkWorkload(a *model.Assignment, emp *model.Employee, demand *model.ShiftDemand, ctx *planner.Context) []constraint.Violation {
	team := ctx.TeamMembers(emp.Team)
	if len(team) < 2 {
		return nil
	}

	weekStart := model.WeekStart(demand.Date)
	projected := c.weeklyHoursExcluding(ctx, emp.ID, weekStart, a.ID) + ctx.AssignmentHours(a)

	var total float64
	hoursByMember := make(map[uuid.UUID]float64, len(team))
	for _, member := range team {
		h := c.weeklyHoursExcluding(ctx, member.ID, weekStart, a.ID)
		hoursByMember[member.ID] = h
		total += h
	}
	mean := total / float64(len(team))
	if mean <= 0 || projected <= mean*c.thresholds.WorkloadRatio {
		return nil
	}

	v := constraint.NewViolation(c.ID(), constraint.SeverityWarning,
		fmt.Sprintf("%s would carry %.1fh in the week of %s, %.0f%% of the team mean of %.1fh.",
			emp.Name, projected, weekStart, projected/mean*100, mean),
		a.ID,
	)
	for _, alt := range c.underloadedMembers(team, hoursByMember, mean, emp.ID) {
		v = v.WithAdditionalActions(fmt.Sprintf("Consider %s (%.1fh this week) instead", alt.Name, hoursByMember[alt.ID]))
	}
	return []constraint.Violation{v}
}

// weeklyHoursExcluding sums an employee's active hours in the week starting
// at weekStart, skipping the assignment under evaluation. The proposal may
// already be layered into the context and must not count twice.
func (c *FairnessConstraint) weeklyHoursExcluding(ctx *planner.Context, employeeID uuid.UUID, weekStart string, exclude uuid.UUID) float64 {
	weekEnd := model.AddDays(weekStart, 6)
	var hours float64
	for _, a := range ctx.EmployeeAssignments(employeeID) {
		if a.ID == exclude || !a.IsActive() {
			continue
		}
		date, ok := ctx.AssignmentDate(a)
		if ok && date >= weekStart && date <= weekEnd {
			hours += ctx.AssignmentHours(a)
		}
	}
	return hours
}

// underloadedMembers lists up to three teammates below the mean, lightest first.
func (c *FairnessConstraint) underloadedMembers(team []*model.Employee, hours map[uuid.UUID]float64, mean float64, exclude uuid.UUID) []*model.Employee {
	var under []*model.Employee
	for _, member := range team {
		if member.ID != exclude && hours[member.ID] < mean {
			under = append(under, member)
		}
	}
	sort.Slice(under, func(i, j int) bool {
		return hours[under[i].ID] < hours[under[j].ID]
	})
	if len(under) > 3 {
		under = under[:3]
	}
	return under
}

// checkShiftTypeShare flags a lopsided trailing shift-type distribution.
func (c *FairnessConstraint) checkShiftTypeShare(a *model.Assignment, emp *model.Employee, demand *model.ShiftDemand, ctx *planner.Context) []constraint.Violation {
	from := model.AddDays(demand.Date, -(c.thresholds.ShiftTypeWindowDays - 1))
	counts := make(map[string]int)
	total := 0
	for _, other := range ctx.EmployeeAssignments(emp.ID) {
		if other.ID == a.ID || !other.IsActive() {
			continue
		}
		date, ok := ctx.AssignmentDate(other)
		if !ok || date < from || date > demand.Date {
			continue
		}
		if t := c.shiftTypeOf(ctx, other); t != "" {
			counts[t]++
			total++
		}
	}
	if total < c.thresholds.MinShiftSample {
		return nil
	}

	for shiftType, count := range counts {
		share := float64(count) / float64(total)
		if share > c.thresholds.ShiftTypeShare {
			return []constraint.Violation{constraint.NewViolation(c.ID(), constraint.SeverityInfo,
				fmt.Sprintf("%s worked %s shifts %.0f%% of the time over the last %d days.",
					emp.Name, shiftType, share*100, c.thresholds.ShiftTypeWindowDays),
				a.ID,
			).WithAdditionalActions(fmt.Sprintf("Mix other shift types into %s's rotation", emp.Name))}
		}
	}
	return nil
}

// checkWeekendSpread flags a weekend load far above the team mean.
func (c *FairnessConstraint) checkWeekendSpread(a *model.Assignment, emp *model.Employee, demand *model.ShiftDemand, ctx *planner.Context) []constraint.Violation {
	team := ctx.TeamMembers(emp.Team)
	if len(team) < 2 {
		return nil
	}

	from := model.AddDays(demand.Date, -(c.thresholds.WeekendWindowDays - 1))
	var total int
	countByMember := make(map[uuid.UUID]int, len(team))
	for _, member := range team {
		count := c.weekendCount(ctx, member.ID, from, demand.Date, a.ID)
		countByMember[member.ID] = count
		total += count
	}
	mean := float64(total) / float64(len(team))
	if mean <= 0 { // nobody worked a weekend yet, nothing to compare against
		return nil
	}

	projected := float64(countByMember[emp.ID] + 1)
	if projected <= mean*c.thresholds.WeekendRatio {
		return nil
	}

	return []constraint.Violation{constraint.NewViolation(c.ID(), constraint.SeverityWarning,
		fmt.Sprintf("%s would reach %d weekend shifts in %d days against a team mean of %.1f.",
			emp.Name, int(projected), c.thresholds.WeekendWindowDays, mean),
		a.ID,
	).WithAdditionalActions("Rotate the weekend demand to a teammate with fewer weekend shifts")}
}

// weekendCount counts the employee's active weekend assignments in a window.
func (c *FairnessConstraint) weekendCount(ctx *planner.Context, employeeID uuid.UUID, from, to string, exclude uuid.UUID) int {
	count := 0
	for _, a := range ctx.EmployeeAssignments(employeeID) {
		if a.ID == exclude || !a.IsActive() {
			continue
		}
		date, ok := ctx.AssignmentDate(a)
		if ok && date >= from && date <= to && model.IsWeekend(date) {
			count++
		}
	}
	return count
}

// shiftTypeOf resolves the shift type of an assignment via its template.
func (c *FairnessConstraint) shiftTypeOf(ctx *planner.Context, a *model.Assignment) string {
	demand, ok := ctx.Demand(a.DemandID)
	if !ok {
		return ""
	}
	template, ok := ctx.ShiftTemplate(demand.ShiftTemplateID)
	if !ok {
		return ""
	}
	return template.ShiftType
}
