package planner

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
)

// fixture builds a small plant with one employee, one station and a daily
// 8h early shift across one week.
type fixture struct {
	employee *model.Employee
	station  *model.Station
	template *model.ShiftTemplate
	demands  map[string]*model.ShiftDemand // by date
	snap     Snapshot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	employee := &model.Employee{
		BaseModel:      model.NewBaseModel(),
		Name:           "Mara Vogel",
		ContractType:   model.ContractFullTime,
		WeeklyHours:    40,
		MaxHoursPerDay: 8,
		MinRestHours:   11,
		Team:           "assembly",
		Active:         true,
	}
	skillID := uuid.New()
	station := &model.Station{
		BaseModel:      model.NewBaseModel(),
		Name:           "Welding Line 1",
		RequiredSkills: []model.SkillRequirement{{SkillID: skillID, MinLevel: 1, Count: 1, Mandatory: true}},
		Priority:       model.PriorityHigh,
	}
	template := &model.ShiftTemplate{
		BaseModel: model.NewBaseModel(),
		Name:      "early",
		StartTime: "06:00",
		EndTime:   "14:00",
		ShiftType: "day",
	}

	f := &fixture{
		employee: employee,
		station:  station,
		template: template,
		demands:  make(map[string]*model.ShiftDemand),
	}
	date := "2026-03-02"
	for i := 0; i < 7; i++ {
		d := &model.ShiftDemand{
			BaseModel:       model.NewBaseModel(),
			Date:            date,
			StationID:       station.ID,
			ShiftTemplateID: template.ID,
			RequiredCount:   1,
			Priority:        model.PriorityHigh,
		}
		f.demands[date] = d
		date = model.NextDate(date)
	}

	f.snap = Snapshot{
		AsOfDate:  "2026-03-02",
		Employees: []*model.Employee{employee},
		Stations:  []*model.Station{station},
		Templates: []*model.ShiftTemplate{template},
	}
	for _, d := range f.demands {
		f.snap.Demands = append(f.snap.Demands, d)
	}
	return f
}

func (f *fixture) assignment(date string) *model.Assignment {
	return &model.Assignment{
		BaseModel:  model.NewBaseModel(),
		DemandID:   f.demands[date].ID,
		EmployeeID: f.employee.ID,
		Status:     model.AssignmentConfirmed,
		Score:      80,
	}
}

func TestContextWithAdditionalAssignmentsIsImmutable(t *testing.T) {
	f := newFixture(t)
	base := NewContext(f.snap)

	extended := base.WithAdditionalAssignments(f.assignment("2026-03-02"))

	if len(base.Assignments()) != 0 {
		t.Errorf("base context gained %d assignments, want 0", len(base.Assignments()))
	}
	if len(extended.Assignments()) != 1 {
		t.Errorf("extended context holds %d assignments, want 1", len(extended.Assignments()))
	}
}

func TestContextEmployeeHours(t *testing.T) {
	f := newFixture(t)
	ctx := NewContext(f.snap).WithAdditionalAssignments(
		f.assignment("2026-03-02"),
		f.assignment("2026-03-03"),
	)

	if got := ctx.EmployeeHoursOnDate(f.employee.ID, "2026-03-02"); got != 8 {
		t.Errorf("hours on Monday = %v, want 8", got)
	}
	if got := ctx.EmployeeWeeklyHours(f.employee.ID, "2026-03-02"); got != 16 {
		t.Errorf("weekly hours = %v, want 16", got)
	}
}

func TestContextRejectedAssignmentsDoNotCount(t *testing.T) {
	f := newFixture(t)
	rejected := f.assignment("2026-03-02")
	rejected.Status = model.AssignmentRejected

	ctx := NewContext(f.snap).WithAdditionalAssignments(rejected)
	if got := ctx.EmployeeHoursOnDate(f.employee.ID, "2026-03-02"); got != 0 {
		t.Errorf("rejected assignment contributed %v hours, want 0", got)
	}
}

func TestContextConsecutiveDays(t *testing.T) {
	f := newFixture(t)
	ctx := NewContext(f.snap).WithAdditionalAssignments(
		f.assignment("2026-03-02"),
		f.assignment("2026-03-03"),
		f.assignment("2026-03-04"),
		f.assignment("2026-03-06"),
	)

	// Target Thursday: Mon-Wed is a 3-day streak behind it, Friday ahead.
	if got := ctx.EmployeeConsecutiveDays(f.employee.ID, "2026-03-05"); got != 4 {
		t.Errorf("consecutive days around Thursday = %d, want 4", got)
	}
	// Target Monday of the next week: nothing adjacent.
	if got := ctx.EmployeeConsecutiveDays(f.employee.ID, "2026-03-09"); got != 0 {
		t.Errorf("consecutive days with no neighbours = %d, want 0", got)
	}
}

func TestContextAssignmentWindowOvernight(t *testing.T) {
	f := newFixture(t)
	f.template.StartTime = "22:00"
	f.template.EndTime = "06:00"

	ctx := NewContext(f.snap)
	a := f.assignment("2026-03-02")
	start, end, ok := ctx.AssignmentWindow(a)
	if !ok {
		t.Fatal("window resolution failed")
	}
	if got := end.Sub(start).Hours(); got != 8 {
		t.Errorf("overnight window = %vh, want 8h", got)
	}
	if end.Day() != 3 {
		t.Errorf("overnight shift must end on the next day, got day %d", end.Day())
	}
}

func TestContextIsEmployeeAvailable(t *testing.T) {
	f := newFixture(t)
	f.snap.Absences = []*model.Absence{{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: f.employee.ID,
		Type:       model.AbsenceVacation,
		DateStart:  "2026-03-04",
		DateEnd:    "2026-03-05",
		Approved:   true,
	}}
	ctx := NewContext(f.snap)

	if ctx.IsEmployeeAvailable(f.employee.ID, "2026-03-04") {
		t.Error("employee on approved vacation must be unavailable")
	}
	if !ctx.IsEmployeeAvailable(f.employee.ID, "2026-03-06") {
		t.Error("employee must be available after the vacation ends")
	}
}
