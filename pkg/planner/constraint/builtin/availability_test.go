package builtin

import (
	"strings"
	"testing"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

func TestAvailabilityInactiveEmployee(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Jonas Keller")
	emp.Active = false
	a := p.assign(emp, p.demands["2026-03-02"])

	violations := NewAvailabilityConstraint().Validate(a, p.context(a))
	if countSeverity(violations, constraint.SeverityCritical) != 1 {
		t.Fatalf("inactive employee: got %v, want one critical", violations)
	}
}

func TestAvailabilityApprovedAbsenceBlocks(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Jonas Keller")
	p.snapshot.Absences = append(p.snapshot.Absences, &model.Absence{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: emp.ID,
		Type:       model.AbsenceSick,
		DateStart:  "2026-03-02",
		DateEnd:    "2026-03-03",
		Approved:   true,
	})
	a := p.assign(emp, p.demands["2026-03-02"])

	violations := NewAvailabilityConstraint().Validate(a, p.context(a))
	if countSeverity(violations, constraint.SeverityCritical) != 1 {
		t.Fatalf("approved sick absence: got %v, want one critical", violations)
	}
	if !strings.Contains(violations[0].Message, "sick") {
		t.Errorf("message %q should name the absence type", violations[0].Message)
	}
}

func TestAvailabilityUnapprovedAbsenceDoesNotBlock(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Jonas Keller")
	p.snapshot.Absences = append(p.snapshot.Absences, &model.Absence{
		BaseModel:  model.NewBaseModel(),
		EmployeeID: emp.ID,
		Type:       model.AbsenceVacation,
		DateStart:  "2026-03-02",
		DateEnd:    "2026-03-03",
		Approved:   false,
	})
	a := p.assign(emp, p.demands["2026-03-02"])

	if violations := NewAvailabilityConstraint().Validate(a, p.context(a)); len(violations) != 0 {
		t.Errorf("pending absence request must not block: %v", violations)
	}
}

func TestAvailabilityOverlappingAssignments(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Jonas Keller")

	// Two templates sharing the 10:00-14:00 span on the same day.
	overlapping := p.addTemplate("mid", "10:00", "18:00", "day")
	other := p.assign(emp, p.demands["2026-03-02"])
	proposed := p.assign(emp, p.addDemand("2026-03-02", overlapping))

	violations := NewAvailabilityConstraint().Validate(proposed, p.context(other, proposed))
	if countSeverity(violations, constraint.SeverityCritical) != 1 {
		t.Fatalf("overlapping shifts: got %v, want one critical", violations)
	}
	if !affects(violations, proposed.ID) || !affects(violations, other.ID) {
		t.Error("overlap violation must name both assignment ids")
	}
}

func TestAvailabilityOvernightOverlapNextDay(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Jonas Keller")

	// Night shift Monday 22:00-06:00 still runs when a Tuesday 04:00 shift starts.
	dawn := p.addTemplate("dawn", "04:00", "12:00", "day")
	night := p.assign(emp, p.addDemand("2026-03-02", p.night))
	proposed := p.assign(emp, p.addDemand("2026-03-03", dawn))

	violations := NewAvailabilityConstraint().Validate(proposed, p.context(night, proposed))
	if countSeverity(violations, constraint.SeverityCritical) != 1 {
		t.Errorf("overnight window must roll into the next day: %v", violations)
	}
}

func TestAvailabilityNightThenEarlyIsNotAnOverlap(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Jonas Keller")

	// Night ends 06:00 Tuesday exactly when the early shift starts.
	night := p.assign(emp, p.addDemand("2026-03-02", p.night))
	earlyTuesday := p.assign(emp, p.demands["2026-03-03"])

	if violations := NewAvailabilityConstraint().Validate(earlyTuesday, p.context(night, earlyTuesday)); len(violations) != 0 {
		t.Errorf("shift windows are end-exclusive, boundary contact is no overlap: %v", violations)
	}
}

func TestAvailabilityBackToBackShiftsDoNotOverlap(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Jonas Keller")

	early := p.assign(emp, p.demands["2026-03-02"])
	late := p.assign(emp, p.addDemand("2026-03-02", p.late)) // starts 14:00 as early ends

	if violations := NewAvailabilityConstraint().Validate(late, p.context(early, late)); len(violations) != 0 {
		t.Errorf("back-to-back shifts share only a boundary instant: %v", violations)
	}
}
