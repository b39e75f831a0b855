package builtin

import (
	"strings"
	"testing"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

func TestLaborLawSecondShiftSameDay(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Mara Vogel") // maxHoursPerDay=8, weeklyHours=40
	monday := "2026-03-02"

	existing := p.assign(emp, p.demands[monday]) // 8h early shift

	// A 4h special demand on the same Monday.
	short := p.addTemplate("short", "15:00", "19:00", "day")
	extraDemand := p.addDemand(monday, short)
	proposed := p.assign(emp, extraDemand)

	c := NewLaborLawConstraint(6)
	violations := c.Validate(proposed, p.context(existing, proposed))

	var daily *constraint.Violation
	for i, v := range violations {
		if v.Severity == constraint.SeverityCritical && strings.Contains(v.Message, "12.0h") {
			daily = &violations[i]
		}
	}
	if daily == nil {
		t.Fatalf("want a critical violation citing 12.0h above the 8.0h daily limit, got %v", violations)
	}
	if !strings.Contains(daily.Message, "8.0h") {
		t.Errorf("message %q should cite the daily limit", daily.Message)
	}
}

func TestLaborLawShiftLongerThanDailyLimit(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Mara Vogel")
	long := p.addTemplate("long", "06:00", "18:00", "day") // 12h
	d := p.addDemand("2026-03-02", long)
	a := p.assign(emp, d)

	violations := NewLaborLawConstraint(6).Validate(a, p.context(a))
	if countSeverity(violations, constraint.SeverityCritical) == 0 {
		t.Errorf("12h shift against an 8h daily limit must be critical: %v", violations)
	}
}

func TestLaborLawWeeklyLimit(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Mara Vogel") // weeklyHours=40

	// Five 8h shifts Monday through Friday fill the contract.
	var assignments []*model.Assignment
	date := "2026-03-02"
	for i := 0; i < 5; i++ {
		assignments = append(assignments, p.assign(emp, p.demands[date]))
		date = model.NextDate(date)
	}
	proposed := p.assign(emp, p.demands["2026-03-07"]) // Saturday, 8h more
	assignments = append(assignments, proposed)

	violations := NewLaborLawConstraint(6).Validate(proposed, p.context(assignments...))

	found := false
	for _, v := range violations {
		if v.Severity == constraint.SeverityCritical && strings.Contains(v.Message, "48.0h") {
			found = true
		}
	}
	if !found {
		t.Errorf("48h against a 40h week must be critical: %v", violations)
	}
}

func TestLaborLawRestPeriod(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Mara Vogel") // minRestHours=11

	// Late shift Monday until 22:00, early shift Tuesday from 06:00: 8h rest.
	lateDemand := p.addDemand("2026-03-02", p.late)
	lateAssignment := p.assign(emp, lateDemand)
	earlyAssignment := p.assign(emp, p.demands["2026-03-03"])

	violations := NewLaborLawConstraint(6).Validate(earlyAssignment, p.context(lateAssignment, earlyAssignment))

	var rest *constraint.Violation
	for i, v := range violations {
		if strings.Contains(v.Message, "rest") {
			rest = &violations[i]
		}
	}
	if rest == nil {
		t.Fatalf("8h rest below an 11h minimum must be flagged: %v", violations)
	}
	if rest.Severity != constraint.SeverityCritical {
		t.Errorf("rest violation severity = %s, want critical", rest.Severity)
	}
	if !affects([]constraint.Violation{*rest}, earlyAssignment.ID) || !affects([]constraint.Violation{*rest}, lateAssignment.ID) {
		t.Error("rest violation must name both assignment ids")
	}
}

func TestLaborLawConsecutiveDaysIsWarning(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Mara Vogel")
	emp.WeeklyHours = 80 // keep the weekly cap out of the way

	// Monday through Saturday worked; Sunday would be day seven.
	var assignments []*model.Assignment
	date := "2026-03-02"
	for i := 0; i < 6; i++ {
		assignments = append(assignments, p.assign(emp, p.demands[date]))
		date = model.NextDate(date)
	}
	proposed := p.assign(emp, p.demands["2026-03-08"])
	assignments = append(assignments, proposed)

	violations := NewLaborLawConstraint(6).Validate(proposed, p.context(assignments...))

	found := false
	for _, v := range violations {
		if strings.Contains(v.Message, "consecutive") {
			found = true
			if v.Severity != constraint.SeverityWarning {
				t.Errorf("consecutive-days severity = %s, want warning", v.Severity)
			}
		}
	}
	if !found {
		t.Errorf("7 consecutive days above a cap of 6 must be flagged: %v", violations)
	}
}

func TestLaborLawCleanWeekPasses(t *testing.T) {
	p := newPlant(t)
	emp := p.addEmployee("Mara Vogel")
	a := p.assign(emp, p.demands["2026-03-02"])

	if violations := NewLaborLawConstraint(6).Validate(a, p.context(a)); len(violations) != 0 {
		t.Errorf("a single 8h shift must pass clean: %v", violations)
	}
}
