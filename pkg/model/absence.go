package model

import (
	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
)

// AbsenceType classifies time off.
type AbsenceType string

const (
	AbsenceVacation AbsenceType = "vacation"
	AbsenceSick     AbsenceType = "sick"
	AbsenceTraining AbsenceType = "training"
	AbsencePersonal AbsenceType = "personal"
)

// maxAbsenceDays caps the duration per absence type (calendar days).
var maxAbsenceDays = map[AbsenceType]int{
	AbsenceVacation: 30,
	AbsenceSick:     90,
	AbsenceTraining: 14,
	AbsencePersonal: 5,
}

// Absence is approved or pending time off.
type Absence struct {
	BaseModel
	EmployeeID uuid.UUID   `json:"employee_id" db:"employee_id"`
	Type       AbsenceType `json:"type" db:"type"`
	DateStart  string      `json:"date_start" db:"date_start"` // YYYY-MM-DD
	DateEnd    string      `json:"date_end" db:"date_end"`     // YYYY-MM-DD
	Approved   bool        `json:"approved" db:"approved"`
	Reason     string      `json:"reason,omitempty" db:"reason"`
}

// Validate checks the absence's structural invariants.
func (a *Absence) Validate() error {
	start, err := ParseDate(a.DateStart)
	if err != nil {
		return errors.InvalidInput("date_start", "must be YYYY-MM-DD")
	}
	end, err := ParseDate(a.DateEnd)
	if err != nil {
		return errors.InvalidInput("date_end", "must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return errors.InvalidInput("date_end", "must not precede date_start")
	}
	if cap, ok := maxAbsenceDays[a.Type]; ok {
		days := int(end.Sub(start).Hours()/24) + 1
		if days > cap {
			return errors.InvalidInput("date_end", "absence exceeds the maximum duration for its type")
		}
	}
	return nil
}

// Covers reports whether the absence spans the given date.
func (a *Absence) Covers(date string) bool {
	return date >= a.DateStart && date <= a.DateEnd
}

// Blocks reports whether the absence makes the employee unavailable on date.
// Only approved absences block assignment.
func (a *Absence) Blocks(date string) bool {
	return a.Approved && a.Covers(date)
}
