package builtin

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// plant is the shared test fixture: a welding station that requires welding
// level 2, three shift templates, and a week of demands starting Monday
// 2026-03-02.
type plant struct {
	welding  *model.Skill
	station  *model.Station
	early    *model.ShiftTemplate
	late     *model.ShiftTemplate
	night    *model.ShiftTemplate
	demands  map[string]*model.ShiftDemand // early shift by date
	snapshot planner.Snapshot
}

func newPlant(t *testing.T) *plant {
	t.Helper()

	welding := &model.Skill{BaseModel: model.NewBaseModel(), Name: "welding", LevelScale: 5}
	station := &model.Station{
		BaseModel: model.NewBaseModel(),
		Name:      "Welding Line 1",
		Priority:  model.PriorityHigh,
		RequiredSkills: []model.SkillRequirement{
			{SkillID: welding.ID, MinLevel: 2, Count: 1, Mandatory: true},
		},
	}
	early := &model.ShiftTemplate{BaseModel: model.NewBaseModel(), Name: "early", StartTime: "06:00", EndTime: "14:00", ShiftType: "day"}
	late := &model.ShiftTemplate{BaseModel: model.NewBaseModel(), Name: "late", StartTime: "14:00", EndTime: "22:00", ShiftType: "late"}
	night := &model.ShiftTemplate{BaseModel: model.NewBaseModel(), Name: "night", StartTime: "22:00", EndTime: "06:00", ShiftType: "night"}

	p := &plant{
		welding: welding,
		station: station,
		early:   early,
		late:    late,
		night:   night,
		demands: make(map[string]*model.ShiftDemand),
	}
	p.snapshot = planner.Snapshot{
		AsOfDate:  "2026-03-02",
		Stations:  []*model.Station{station},
		Templates: []*model.ShiftTemplate{early, late, night},
		Skills:    []*model.Skill{welding},
	}

	date := "2026-03-02"
	for i := 0; i < 7; i++ {
		p.demands[date] = p.addDemand(date, early)
		date = model.NextDate(date)
	}
	return p
}

// addTemplate registers an extra shift template.
func (p *plant) addTemplate(name, start, end, shiftType string) *model.ShiftTemplate {
	tmpl := &model.ShiftTemplate{
		BaseModel: model.NewBaseModel(),
		Name:      name,
		StartTime: start,
		EndTime:   end,
		ShiftType: shiftType,
	}
	p.snapshot.Templates = append(p.snapshot.Templates, tmpl)
	return tmpl
}

// addDemand registers a demand for a template on a date.
func (p *plant) addDemand(date string, tmpl *model.ShiftTemplate) *model.ShiftDemand {
	d := &model.ShiftDemand{
		BaseModel:       model.NewBaseModel(),
		Date:            date,
		StationID:       p.station.ID,
		ShiftTemplateID: tmpl.ID,
		RequiredCount:   1,
		Priority:        model.PriorityHigh,
	}
	p.snapshot.Demands = append(p.snapshot.Demands, d)
	return d
}

// addEmployee registers a full-time welder-shaped employee.
func (p *plant) addEmployee(name string) *model.Employee {
	e := &model.Employee{
		BaseModel:      model.NewBaseModel(),
		Name:           name,
		ContractType:   model.ContractFullTime,
		WeeklyHours:    40,
		MaxHoursPerDay: 8,
		MinRestHours:   11,
		Team:           "assembly",
		Active:         true,
	}
	p.snapshot.Employees = append(p.snapshot.Employees, e)
	return e
}

// certify records a welding certification for an employee.
func (p *plant) certify(e *model.Employee, level int, validUntil string) {
	p.snapshot.EmpSkills = append(p.snapshot.EmpSkills, &model.EmployeeSkill{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: e.ID,
		SkillID:    p.welding.ID,
		Level:      level,
		ValidUntil: validUntil,
	})
}

// assign creates a confirmed assignment for a demand.
func (p *plant) assign(e *model.Employee, d *model.ShiftDemand) *model.Assignment {
	return &model.Assignment{
		BaseModel:  model.NewBaseModel(),
		DemandID:   d.ID,
		EmployeeID: e.ID,
		Status:     model.AssignmentConfirmed,
		Score:      75,
	}
}

// context builds the evaluation context with extra assignments layered in.
func (p *plant) context(extra ...*model.Assignment) *planner.Context {
	return planner.NewContext(p.snapshot).WithAdditionalAssignments(extra...)
}

// countSeverity tallies violations of one severity.
func countSeverity(violations []constraint.Violation, s constraint.Severity) int {
	n := 0
	for _, v := range violations {
		if v.Severity == s {
			n++
		}
	}
	return n
}

// affects reports whether any violation names the assignment id.
func affects(violations []constraint.Violation, id uuid.UUID) bool {
	for _, v := range violations {
		for _, a := range v.AffectedAssignments {
			if a == id {
				return true
			}
		}
	}
	return false
}
