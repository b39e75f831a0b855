package builtin

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// SkillMatchingConstraint checks the employee's certifications against every
// required skill of the assignment's station.
type SkillMatchingConstraint struct {
	*BaseConstraint
	expiryWarningDays int
}

// NewSkillMatchingConstraint creates the skill matching constraint.
func NewSkillMatchingConstraint(expiryWarningDays int) *SkillMatchingConstraint {
	return &SkillMatchingConstraint{
		BaseConstraint: NewBaseConstraint(
			constraint.IDSkillMatching,
			"Skill matching",
			constraint.TypeHard,
			100,
			constraint.SeverityCritical,
		),
		expiryWarningDays: expiryWarningDays,
	}
}

// Validate checks one assignment.
func (c *SkillMatchingConstraint) Validate(a *model.Assignment, ctx *planner.Context) []constraint.Violation {
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

	var violations []constraint.Violation
	for _, req := range station.RequiredSkills {
		violations = append(violations, c.checkRequirement(a, emp, station, req, ctx)...)
	}
	return violations
}

// checkRequirement validates one required skill of the station.
func (c *SkillMatchingConstraint) checkRequirement(
	a *model.Assignment,
	emp *model.Employee,
	station *model.Station,
	req model.SkillRequirement,
	ctx *planner.Context,
) []constraint.Violation {
	skillName := c.skillName(ctx, req.SkillID)

	record, ok := ctx.EmployeeSkill(emp.ID, req.SkillID)
	if !ok {
		severity := constraint.SeverityError
		if req.Mandatory {
			severity = constraint.SeverityCritical
		}
		v := constraint.NewViolation(c.ID(), severity,
			fmt.Sprintf("%s holds no certification for required skill '%s' at station %s.", emp.Name, skillName, station.Name),
			a.ID,
		).WithAdditionalActions(fmt.Sprintf("Train and certify %s for '%s'", emp.Name, skillName))
		return []constraint.Violation{v}
	}

	var violations []constraint.Violation

	if record.Level < req.MinLevel {
		severity := constraint.SeverityError
		if req.Mandatory {
			severity = constraint.SeverityCritical
		}
		violations = append(violations, constraint.NewViolation(c.ID(), severity,
			fmt.Sprintf("%s holds '%s' at level %d but station %s requires level %d.", emp.Name, skillName, record.Level, station.Name, req.MinLevel),
			a.ID,
		).WithAdditionalActions(fmt.Sprintf("Upskill %s to '%s' level %d", emp.Name, skillName, req.MinLevel)))
	}

	if record.IsExpired(ctx.AsOfDate) {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityCritical,
			fmt.Sprintf("%s's certification for '%s' expired on %s.", emp.Name, skillName, record.ValidUntil),
			a.ID,
		).WithAdditionalActions(fmt.Sprintf("Renew the '%s' certification for %s", skillName, emp.Name)))
	} else if record.ExpiresWithin(ctx.AsOfDate, c.expiryWarningDays) {
		violations = append(violations, constraint.NewViolation(c.ID(), constraint.SeverityWarning,
			fmt.Sprintf("%s's certification for '%s' expires on %s, within %d days.", emp.Name, skillName, record.ValidUntil, c.expiryWarningDays),
			a.ID,
		).WithAdditionalActions(fmt.Sprintf("Schedule recertification for %s before %s", emp.Name, record.ValidUntil)))
	}

	return violations
}

// skillName resolves a display name for a skill id.
func (c *SkillMatchingConstraint) skillName(ctx *planner.Context, id uuid.UUID) string {
	if s, ok := ctx.Skill(id); ok {
		return s.Name
	}
	return id.String()
}
