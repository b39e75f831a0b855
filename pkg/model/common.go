// Package model defines the core planning data model.
package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for shift clock times.
const ClockLayout = "15:04"

// BaseModel carries the common entity fields.
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel creates a fresh base model.
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// JSONMap stores JSONB payloads.
type JSONMap map[string]interface{}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Contains reports whether date falls inside the range.
func (dr DateRange) Contains(date string) bool {
	return date >= dr.StartDate && date <= dr.EndDate
}

// Overlaps reports whether two date ranges intersect.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.StartDate <= other.EndDate && other.StartDate <= dr.EndDate
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// AddDays shifts a date string by n calendar days.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// PreviousDate returns the preceding calendar day.
func PreviousDate(date string) string {
	return AddDays(date, -1)
}

// NextDate returns the following calendar day.
func NextDate(date string) string {
	return AddDays(date, 1)
}

// WeekStart returns the Monday of the ISO week containing date.
func WeekStart(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ClockMinutes converts an HH:MM clock string to minutes since midnight.
func ClockMinutes(clock string) (int, bool) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
