package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
)

// ShiftTemplate is a recurring shift shape.
type ShiftTemplate struct {
	BaseModel
	Name         string `json:"name" db:"name"`
	StartTime    string `json:"start_time" db:"start_time"` // HH:MM
	EndTime      string `json:"end_time" db:"end_time"`     // HH:MM
	BreakMinutes int    `json:"break_minutes" db:"break_minutes"`
	ShiftType    string `json:"shift_type" db:"shift_type"` // day/late/night/split
}

// Validate checks the template's structural invariants.
func (s *ShiftTemplate) Validate() error {
	start, ok := ClockMinutes(s.StartTime)
	if !ok {
		return errors.InvalidInput("start_time", "must be HH:MM")
	}
	end, ok := ClockMinutes(s.EndTime)
	if !ok {
		return errors.InvalidInput("end_time", "must be HH:MM")
	}
	duration := end - start
	if duration <= 0 {
		duration += 24 * 60
	}
	if duration < 2*60 || duration > 16*60 {
		return errors.InvalidInput("end_time", "shift duration must be between 2 and 16 hours")
	}
	if s.BreakMinutes < 0 || s.BreakMinutes >= duration {
		return errors.InvalidInput("break_minutes", "break time must be shorter than the shift")
	}
	return nil
}

// DurationHours returns the shift length in hours. Overnight shifts that
// cross midnight are counted as (end - start) mod 24h.
func (s *ShiftTemplate) DurationHours() float64 {
	start, ok1 := ClockMinutes(s.StartTime)
	end, ok2 := ClockMinutes(s.EndTime)
	if !ok1 || !ok2 {
		return 0
	}
	duration := end - start
	if duration <= 0 {
		duration += 24 * 60
	}
	return float64(duration) / 60.0
}

// IsOvernight reports whether the shift crosses midnight.
func (s *ShiftTemplate) IsOvernight() bool {
	start, ok1 := ClockMinutes(s.StartTime)
	end, ok2 := ClockMinutes(s.EndTime)
	return ok1 && ok2 && end <= start
}

// WindowOn anchors the template to a calendar date and returns the concrete
// start and end instants. The end of an overnight shift lands on the next day.
func (s *ShiftTemplate) WindowOn(date string) (time.Time, time.Time) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}
	}
	start, _ := ClockMinutes(s.StartTime)
	end, _ := ClockMinutes(s.EndTime)
	if end <= start {
		end += 24 * 60
	}
	return day.Add(time.Duration(start) * time.Minute), day.Add(time.Duration(end) * time.Minute)
}

// SkillRequirement is one skill a station demands of its workers.
type SkillRequirement struct {
	SkillID   uuid.UUID `json:"skill_id"`
	MinLevel  int       `json:"min_level"`
	Count     int       `json:"count"`
	Mandatory bool      `json:"mandatory"`
}

// Station is a work location on the line.
type Station struct {
	BaseModel
	Name           string             `json:"name" db:"name"`
	Line           string             `json:"line,omitempty" db:"line"`
	RequiredSkills []SkillRequirement `json:"required_skills" db:"required_skills"`
	Priority       Priority           `json:"priority" db:"priority"`
}

// Validate checks the station's structural invariants.
func (s *Station) Validate() error {
	if s.Name == "" {
		return errors.InvalidInput("name", "must not be empty")
	}
	if len(s.RequiredSkills) == 0 {
		return errors.InvalidInput("required_skills", "must not be empty")
	}
	for _, req := range s.RequiredSkills {
		if req.MinLevel < 1 {
			return errors.InvalidInput("required_skills", "min_level must be at least 1")
		}
	}
	return nil
}

// Priority ranks demands and stations.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank returns the numeric rank of a priority (critical=4 .. low=1).
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// ShiftDemand is a staffing need: a station and shift template on a date.
// The date is immutable once the demand is created.
type ShiftDemand struct {
	BaseModel
	Date            string    `json:"date" db:"date"` // YYYY-MM-DD
	StationID       uuid.UUID `json:"station_id" db:"station_id"`
	ShiftTemplateID uuid.UUID `json:"shift_template_id" db:"shift_template_id"`
	RequiredCount   int       `json:"required_count" db:"required_count"`
	Priority        Priority  `json:"priority" db:"priority"`
}

// Validate checks the demand's structural invariants.
func (d *ShiftDemand) Validate() error {
	if _, err := ParseDate(d.Date); err != nil {
		return errors.InvalidInput("date", "must be YYYY-MM-DD")
	}
	if d.RequiredCount < 1 {
		return errors.InvalidInput("required_count", "must be at least 1")
	}
	return nil
}

// WithRequiredCount returns a copy with a patched head count. The date is
// never patched.
func (d ShiftDemand) WithRequiredCount(count int) ShiftDemand {
	d.RequiredCount = count
	return d
}
