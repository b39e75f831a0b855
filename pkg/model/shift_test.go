package model

import (
	"testing"
	"time"
)

func TestShiftTemplateDurationHours(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"day shift", "06:00", "14:00", 8},
		{"late shift", "14:00", "22:00", 8},
		{"overnight shift", "22:00", "06:00", 8},
		{"long overnight", "20:00", "08:00", 12},
		{"half hours", "09:30", "17:15", 7.75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tmpl := &ShiftTemplate{StartTime: tc.start, EndTime: tc.end}
			got := tmpl.DurationHours()
			if got != tc.want {
				t.Errorf("DurationHours(%s-%s) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
			if got < 0 {
				t.Errorf("duration must never be negative, got %v", got)
			}
		})
	}
}

func TestShiftTemplateIsOvernight(t *testing.T) {
	night := &ShiftTemplate{StartTime: "22:00", EndTime: "06:00"}
	if !night.IsOvernight() {
		t.Error("22:00-06:00 should be overnight")
	}
	day := &ShiftTemplate{StartTime: "06:00", EndTime: "14:00"}
	if day.IsOvernight() {
		t.Error("06:00-14:00 should not be overnight")
	}
}

func TestShiftTemplateWindowOn(t *testing.T) {
	night := &ShiftTemplate{StartTime: "22:00", EndTime: "06:00"}
	start, end := night.WindowOn("2026-03-02")

	if start.Day() != 2 || start.Hour() != 22 {
		t.Errorf("start = %v, want 2026-03-02 22:00", start)
	}
	if end.Day() != 3 || end.Hour() != 6 {
		t.Errorf("end = %v, want 2026-03-03 06:00", end)
	}
	if got := end.Sub(start); got != 8*time.Hour {
		t.Errorf("window length = %v, want 8h", got)
	}
}

func TestShiftTemplateValidate(t *testing.T) {
	valid := &ShiftTemplate{Name: "early", StartTime: "06:00", EndTime: "14:00", BreakMinutes: 30}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}

	tooShort := &ShiftTemplate{StartTime: "06:00", EndTime: "07:00"}
	if err := tooShort.Validate(); err == nil {
		t.Error("1h shift should be rejected")
	}

	badClock := &ShiftTemplate{StartTime: "6am", EndTime: "14:00"}
	if err := badClock.Validate(); err == nil {
		t.Error("malformed start time should be rejected")
	}

	breakTooLong := &ShiftTemplate{StartTime: "06:00", EndTime: "14:00", BreakMinutes: 600}
	if err := breakTooLong.Validate(); err == nil {
		t.Error("break longer than the shift should be rejected")
	}
}

func TestShiftDemandWithRequiredCount(t *testing.T) {
	d := ShiftDemand{BaseModel: NewBaseModel(), Date: "2026-03-02", RequiredCount: 2}
	patched := d.WithRequiredCount(5)

	if patched.RequiredCount != 5 {
		t.Errorf("patched count = %d, want 5", patched.RequiredCount)
	}
	if d.RequiredCount != 2 {
		t.Error("original demand must not be mutated")
	}
	if patched.Date != d.Date {
		t.Error("date must survive the copy unchanged")
	}
}

func TestStationValidate(t *testing.T) {
	ok := &Station{Name: "welding line 1", RequiredSkills: []SkillRequirement{{MinLevel: 2}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid station rejected: %v", err)
	}
	noSkills := &Station{Name: "welding line 1"}
	if err := noSkills.Validate(); err == nil {
		t.Error("station without skill requirements should be rejected")
	}
}
