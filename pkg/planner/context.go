// Package planner holds the immutable validation context the constraint
// engine reads from.
package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
)

// Context is an immutable snapshot of the domain facts an evaluation needs.
// It is never mutated in place: WithAdditionalAssignments and WithMetadata
// return fresh instances layered on the same source data, which is how
// simulations and batch validation speculate without touching real data.
type Context struct {
	AsOfDate string // YYYY-MM-DD, the validation date

	employees   []*model.Employee
	demands     []*model.ShiftDemand
	stations    []*model.Station
	templates   []*model.ShiftTemplate
	absences    []*model.Absence
	skills      []*model.Skill
	empSkills   []*model.EmployeeSkill
	assignments []*model.Assignment

	metadata model.JSONMap

	// lookup indexes, rebuilt on construction
	employeeMap      map[uuid.UUID]*model.Employee
	demandMap        map[uuid.UUID]*model.ShiftDemand
	stationMap       map[uuid.UUID]*model.Station
	templateMap      map[uuid.UUID]*model.ShiftTemplate
	skillMap         map[uuid.UUID]*model.Skill
	skillsByEmp      map[uuid.UUID][]*model.EmployeeSkill
	absencesByEmp    map[uuid.UUID][]*model.Absence
	assignmentsByEmp map[uuid.UUID][]*model.Assignment
}

// Snapshot bundles the inputs for a new context.
type Snapshot struct {
	AsOfDate    string
	Employees   []*model.Employee
	Demands     []*model.ShiftDemand
	Stations    []*model.Station
	Templates   []*model.ShiftTemplate
	Absences    []*model.Absence
	Skills      []*model.Skill
	EmpSkills   []*model.EmployeeSkill
	Assignments []*model.Assignment
}

// NewContext builds a context from a full data snapshot.
func NewContext(snap Snapshot) *Context {
	ctx := &Context{
		AsOfDate:    snap.AsOfDate,
		employees:   snap.Employees,
		demands:     snap.Demands,
		stations:    snap.Stations,
		templates:   snap.Templates,
		absences:    snap.Absences,
		skills:      snap.Skills,
		empSkills:   snap.EmpSkills,
		assignments: snap.Assignments,
		metadata:    model.JSONMap{},
	}
	ctx.rebuildIndexes()
	return ctx
}

// rebuildIndexes constructs the lookup maps.
func (c *Context) rebuildIndexes() {
	c.employeeMap = make(map[uuid.UUID]*model.Employee, len(c.employees))
	for _, e := range c.employees {
		c.employeeMap[e.ID] = e
	}
	c.demandMap = make(map[uuid.UUID]*model.ShiftDemand, len(c.demands))
	for _, d := range c.demands {
		c.demandMap[d.ID] = d
	}
	c.stationMap = make(map[uuid.UUID]*model.Station, len(c.stations))
	for _, s := range c.stations {
		c.stationMap[s.ID] = s
	}
	c.templateMap = make(map[uuid.UUID]*model.ShiftTemplate, len(c.templates))
	for _, t := range c.templates {
		c.templateMap[t.ID] = t
	}
	c.skillMap = make(map[uuid.UUID]*model.Skill, len(c.skills))
	for _, s := range c.skills {
		c.skillMap[s.ID] = s
	}
	c.skillsByEmp = make(map[uuid.UUID][]*model.EmployeeSkill)
	for _, es := range c.empSkills {
		c.skillsByEmp[es.EmployeeID] = append(c.skillsByEmp[es.EmployeeID], es)
	}
	c.absencesByEmp = make(map[uuid.UUID][]*model.Absence)
	for _, a := range c.absences {
		c.absencesByEmp[a.EmployeeID] = append(c.absencesByEmp[a.EmployeeID], a)
	}
	c.assignmentsByEmp = make(map[uuid.UUID][]*model.Assignment)
	for _, a := range c.assignments {
		c.assignmentsByEmp[a.EmployeeID] = append(c.assignmentsByEmp[a.EmployeeID], a)
	}
}

// WithAdditionalAssignments returns a new context with extra assignments
// layered on top of the snapshot. The receiver is untouched.
func (c *Context) WithAdditionalAssignments(extra ...*model.Assignment) *Context {
	merged := make([]*model.Assignment, 0, len(c.assignments)+len(extra))
	merged = append(merged, c.assignments...)
	merged = append(merged, extra...)

	next := c.shallowCopy()
	next.assignments = merged
	next.rebuildIndexes()
	return next
}

// WithMetadata returns a new context carrying additional metadata.
func (c *Context) WithMetadata(key string, value interface{}) *Context {
	next := c.shallowCopy()
	meta := make(model.JSONMap, len(c.metadata)+1)
	for k, v := range c.metadata {
		meta[k] = v
	}
	meta[key] = value
	next.metadata = meta
	next.rebuildIndexes()
	return next
}

// shallowCopy clones the context's slice headers and scalar state.
func (c *Context) shallowCopy() *Context {
	clone := *c
	return &clone
}

// Metadata reads a metadata value.
func (c *Context) Metadata(key string) (interface{}, bool) {
	v, ok := c.metadata[key]
	return v, ok
}

// Employee looks up an employee by id.
func (c *Context) Employee(id uuid.UUID) (*model.Employee, bool) {
	e, ok := c.employeeMap[id]
	return e, ok
}

// Demand looks up a demand by id.
func (c *Context) Demand(id uuid.UUID) (*model.ShiftDemand, bool) {
	d, ok := c.demandMap[id]
	return d, ok
}

// Station looks up a station by id.
func (c *Context) Station(id uuid.UUID) (*model.Station, bool) {
	s, ok := c.stationMap[id]
	return s, ok
}

// ShiftTemplate looks up a shift template by id.
func (c *Context) ShiftTemplate(id uuid.UUID) (*model.ShiftTemplate, bool) {
	t, ok := c.templateMap[id]
	return t, ok
}

// Skill looks up a skill by id.
func (c *Context) Skill(id uuid.UUID) (*model.Skill, bool) {
	s, ok := c.skillMap[id]
	return s, ok
}

// Employees returns the employee snapshot (read-only view).
func (c *Context) Employees() []*model.Employee {
	return c.employees
}

// Demands returns the demand snapshot (read-only view).
func (c *Context) Demands() []*model.ShiftDemand {
	return c.demands
}

// Assignments returns the assignment snapshot (read-only view).
func (c *Context) Assignments() []*model.Assignment {
	return c.assignments
}

// Skills returns the skill snapshot (read-only view).
func (c *Context) Skills() []*model.Skill {
	return c.skills
}

// EmployeeSkills returns the employee's certification records.
func (c *Context) EmployeeSkills(employeeID uuid.UUID) []*model.EmployeeSkill {
	return c.skillsByEmp[employeeID]
}

// EmployeeSkill finds the employee's record for one skill.
func (c *Context) EmployeeSkill(employeeID, skillID uuid.UUID) (*model.EmployeeSkill, bool) {
	for _, es := range c.skillsByEmp[employeeID] {
		if es.SkillID == skillID {
			return es, true
		}
	}
	return nil, false
}

// EmployeeAssignments returns all of the employee's assignments.
func (c *Context) EmployeeAssignments(employeeID uuid.UUID) []*model.Assignment {
	return c.assignmentsByEmp[employeeID]
}

// EmployeeAssignmentsOnDate returns the employee's active assignments whose
// demand falls on the given date.
func (c *Context) EmployeeAssignmentsOnDate(employeeID uuid.UUID, date string) []*model.Assignment {
	var result []*model.Assignment
	for _, a := range c.assignmentsByEmp[employeeID] {
		if !a.IsActive() {
			continue
		}
		if d, ok := c.demandMap[a.DemandID]; ok && d.Date == date {
			result = append(result, a)
		}
	}
	return result
}

// AssignmentsForDemand returns the active assignments filling one demand.
func (c *Context) AssignmentsForDemand(demandID uuid.UUID) []*model.Assignment {
	var result []*model.Assignment
	for _, a := range c.assignments {
		if a.DemandID == demandID && a.IsActive() {
			result = append(result, a)
		}
	}
	return result
}

// AssignmentDate resolves the calendar date of an assignment via its demand.
func (c *Context) AssignmentDate(a *model.Assignment) (string, bool) {
	d, ok := c.demandMap[a.DemandID]
	if !ok {
		return "", false
	}
	return d.Date, true
}

// AssignmentWindow resolves the concrete start/end instants of an assignment
// via its demand's shift template, with overnight wraparound applied.
func (c *Context) AssignmentWindow(a *model.Assignment) (time.Time, time.Time, bool) {
	d, ok := c.demandMap[a.DemandID]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	t, ok := c.templateMap[d.ShiftTemplateID]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, end := t.WindowOn(d.Date)
	return start, end, true
}

// AssignmentHours returns the shift duration of an assignment in hours.
func (c *Context) AssignmentHours(a *model.Assignment) float64 {
	d, ok := c.demandMap[a.DemandID]
	if !ok {
		return 0
	}
	t, ok := c.templateMap[d.ShiftTemplateID]
	if !ok {
		return 0
	}
	return t.DurationHours()
}

// EmployeeHoursOnDate sums the employee's shift durations on one date.
// Overnight shifts count as (end - start) mod 24h.
func (c *Context) EmployeeHoursOnDate(employeeID uuid.UUID, date string) float64 {
	var hours float64
	for _, a := range c.EmployeeAssignmentsOnDate(employeeID, date) {
		hours += c.AssignmentHours(a)
	}
	return hours
}

// EmployeeWeeklyHours sums the employee's hours over the 7 calendar days
// starting at weekStart.
func (c *Context) EmployeeWeeklyHours(employeeID uuid.UUID, weekStart string) float64 {
	var hours float64
	date := weekStart
	for i := 0; i < 7; i++ {
		hours += c.EmployeeHoursOnDate(employeeID, date)
		date = model.NextDate(date)
	}
	return hours
}

// EmployeeAbsencesOnDate returns the employee's absences covering one date.
func (c *Context) EmployeeAbsencesOnDate(employeeID uuid.UUID, date string) []*model.Absence {
	var result []*model.Absence
	for _, ab := range c.absencesByEmp[employeeID] {
		if ab.Covers(date) {
			result = append(result, ab)
		}
	}
	return result
}

// IsEmployeeAvailable reports whether the employee is active and has no
// approved absence on the given date.
func (c *Context) IsEmployeeAvailable(employeeID uuid.UUID, date string) bool {
	emp, ok := c.employeeMap[employeeID]
	if !ok || !emp.IsActive() {
		return false
	}
	for _, ab := range c.absencesByEmp[employeeID] {
		if ab.Blocks(date) {
			return false
		}
	}
	return true
}

// EmployeeConsecutiveDays counts the working days adjacent to targetDate by
// walking backward and forward until a day with zero assignments is found.
// The target day itself is not counted; callers add 1 for the new assignment.
func (c *Context) EmployeeConsecutiveDays(employeeID uuid.UUID, targetDate string) int {
	worked := make(map[string]bool)
	for _, a := range c.assignmentsByEmp[employeeID] {
		if !a.IsActive() {
			continue
		}
		if d, ok := c.demandMap[a.DemandID]; ok {
			worked[d.Date] = true
		}
	}

	before := 0
	date := model.PreviousDate(targetDate)
	for worked[date] {
		before++
		date = model.PreviousDate(date)
		if before > 30 { // guard against runaway walks
			break
		}
	}

	after := 0
	date = model.NextDate(targetDate)
	for worked[date] {
		after++
		date = model.NextDate(date)
		if after > 30 {
			break
		}
	}

	return before + after
}

// TeamMembers returns the active employees on one team.
func (c *Context) TeamMembers(team string) []*model.Employee {
	var result []*model.Employee
	for _, e := range c.employees {
		if e.Team == team && e.IsActive() {
			result = append(result, e)
		}
	}
	return result
}
