// Package model defines the core planning data model.
package model

import (
	"time"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
)

// ContractType classifies employment contracts.
type ContractType string

const (
	ContractFullTime ContractType = "full_time"
	ContractPartTime ContractType = "part_time"
	ContractTemp     ContractType = "temp"
)

// Employee is a worker that can be assigned to demands.
type Employee struct {
	BaseModel
	Name           string               `json:"name" db:"name"`
	ContractType   ContractType         `json:"contract_type" db:"contract_type"`
	WeeklyHours    float64              `json:"weekly_hours" db:"weekly_hours"`
	MaxHoursPerDay float64              `json:"max_hours_per_day" db:"max_hours_per_day"`
	MinRestHours   float64              `json:"min_rest_hours" db:"min_rest_hours"`
	Team           string               `json:"team" db:"team"`
	Active         bool                 `json:"active" db:"active"`
	Preferences    *EmployeePreferences `json:"preferences,omitempty" db:"preferences"`
}

// EmployeePreferences captures an employee's stated scheduling wishes.
type EmployeePreferences struct {
	PreferredShiftTypes []string       `json:"preferred_shift_types,omitempty"`
	AvoidShiftTypes     []string       `json:"avoid_shift_types,omitempty"`
	PreferredStations   []string       `json:"preferred_stations,omitempty"`
	PreferredDaysOff    []time.Weekday `json:"preferred_days_off,omitempty"`
	MaxConsecutiveDays  int            `json:"max_consecutive_days,omitempty"`
}

// Validate checks the employee's structural invariants.
func (e *Employee) Validate() error {
	if e.Name == "" {
		return errors.InvalidInput("name", "must not be empty")
	}
	if e.WeeklyHours <= 0 {
		return errors.InvalidInput("weekly_hours", "must be positive")
	}
	if e.MaxHoursPerDay <= 0 {
		return errors.InvalidInput("max_hours_per_day", "must be positive")
	}
	if e.MaxHoursPerDay > e.WeeklyHours {
		return errors.InvalidInput("max_hours_per_day", "must not exceed weekly hours")
	}
	if e.MinRestHours < 0 {
		return errors.InvalidInput("min_rest_hours", "must not be negative")
	}
	return nil
}

// IsActive reports whether the employee is assignable.
func (e *Employee) IsActive() bool {
	return e.Active
}

// MaxConsecutiveDays returns the consecutive-day cap, honouring the
// employee's preference override when set.
func (e *Employee) MaxConsecutiveDays(defaultCap int) int {
	if e.Preferences != nil && e.Preferences.MaxConsecutiveDays > 0 {
		return e.Preferences.MaxConsecutiveDays
	}
	return defaultCap
}

// PrefersDayOff reports whether the employee prefers weekday off.
func (e *Employee) PrefersDayOff(weekday time.Weekday) bool {
	if e.Preferences == nil {
		return false
	}
	for _, d := range e.Preferences.PreferredDaysOff {
		if d == weekday {
			return true
		}
	}
	return false
}

// AvoidsShiftType reports whether the employee wants to avoid a shift type.
func (e *Employee) AvoidsShiftType(shiftType string) bool {
	if e.Preferences == nil {
		return false
	}
	for _, t := range e.Preferences.AvoidShiftTypes {
		if t == shiftType {
			return true
		}
	}
	return false
}

// PrefersShiftType reports whether the employee prefers a shift type.
func (e *Employee) PrefersShiftType(shiftType string) bool {
	if e.Preferences == nil {
		return false
	}
	for _, t := range e.Preferences.PreferredShiftTypes {
		if t == shiftType {
			return true
		}
	}
	return false
}

// PrefersStation reports whether the employee prefers a station.
func (e *Employee) PrefersStation(stationID string) bool {
	if e.Preferences == nil {
		return false
	}
	for _, s := range e.Preferences.PreferredStations {
		if s == stationID {
			return true
		}
	}
	return false
}
