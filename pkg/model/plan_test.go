package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from PlanStatus
		to   PlanStatus
		want bool
	}{
		{PlanPendingApproval, PlanApproved, true},
		{PlanPendingApproval, PlanPartiallyApproved, true},
		{PlanPendingApproval, PlanRejected, true},
		{PlanPendingApproval, PlanCommitted, false},
		{PlanApproved, PlanCommitted, true},
		{PlanPartiallyApproved, PlanCommitted, true},
		{PlanRejected, PlanCommitted, false},
		{PlanCommitted, PlanRejected, false},
		{PlanCommitted, PlanApproved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPlanWithStatus(t *testing.T) {
	plan := Plan{BaseModel: NewBaseModel(), Status: PlanApproved}

	committed, err := plan.WithStatus(PlanCommitted)
	if err != nil {
		t.Fatalf("approved -> committed: %v", err)
	}
	if committed.CommittedAt == nil {
		t.Error("committing must stamp CommittedAt")
	}
	if plan.Status != PlanApproved {
		t.Error("original plan must not be mutated")
	}

	if _, err := committed.WithStatus(PlanRejected); err == nil {
		t.Error("committed -> rejected must fail")
	}
	pending := Plan{BaseModel: NewBaseModel(), Status: PlanPendingApproval}
	if _, err := pending.WithStatus(PlanCommitted); err == nil {
		t.Error("pending_approval -> committed must fail")
	}
}

func TestPlanIsTerminal(t *testing.T) {
	for _, status := range []PlanStatus{PlanRejected, PlanCommitted} {
		p := &Plan{Status: status}
		if !p.IsTerminal() {
			t.Errorf("%s should be terminal", status)
		}
	}
	p := &Plan{Status: PlanPartiallyApproved}
	if p.IsTerminal() {
		t.Error("partially_approved should not be terminal")
	}
}

func TestAssignmentImmutableOnceCommitted(t *testing.T) {
	a, err := NewAssignment(uuid.New(), uuid.New(), 80, "planner")
	if err != nil {
		t.Fatalf("NewAssignment: %v", err)
	}
	if a.Status != AssignmentProposed {
		t.Errorf("new assignment status = %s, want proposed", a.Status)
	}

	committed, err := a.WithStatus(AssignmentCommitted)
	if err != nil {
		t.Fatalf("proposed -> committed: %v", err)
	}
	if _, err := committed.WithStatus(AssignmentRejected); err == nil {
		t.Error("committed assignment must refuse status changes")
	}
	if _, err := committed.WithScore(50, "rescored"); err == nil {
		t.Error("committed assignment must refuse rescoring")
	}
}

func TestAssignmentIsActive(t *testing.T) {
	a := Assignment{Status: AssignmentRejected}
	if a.IsActive() {
		t.Error("rejected assignment must not count as active")
	}
	for _, status := range []AssignmentStatus{AssignmentProposed, AssignmentConfirmed, AssignmentCommitted} {
		a := Assignment{Status: status}
		if !a.IsActive() {
			t.Errorf("%s assignment should count as active", status)
		}
	}
}

func TestNewAssignmentScoreBounds(t *testing.T) {
	if _, err := NewAssignment(uuid.New(), uuid.New(), 101, ""); err == nil {
		t.Error("score above 100 must be rejected")
	}
	if _, err := NewAssignment(uuid.New(), uuid.New(), -1, ""); err == nil {
		t.Error("negative score must be rejected")
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-03-02", "2026-03-02"}, // Monday
		{"2026-03-04", "2026-03-02"}, // Wednesday
		{"2026-03-08", "2026-03-02"}, // Sunday belongs to the Monday week
	}
	for _, tc := range cases {
		if got := WeekStart(tc.date); got != tc.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestDateRangeOverlaps(t *testing.T) {
	a := DateRange{StartDate: "2026-03-01", EndDate: "2026-03-07"}
	b := DateRange{StartDate: "2026-03-07", EndDate: "2026-03-14"}
	c := DateRange{StartDate: "2026-03-08", EndDate: "2026-03-14"}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Error("ranges sharing a boundary day must overlap")
	}
	if a.Overlaps(c) {
		t.Error("disjoint ranges must not overlap")
	}
}
