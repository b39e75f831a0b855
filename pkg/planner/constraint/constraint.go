// Package constraint defines the rule interface, the violation model and the
// constraint manager.
package constraint

import (
	"time"

	"github.com/google/uuid"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
)

// Type classifies a constraint as hard or soft.
type Type string

const (
	TypeHard Type = "hard" // violations block the assignment
	TypeSoft Type = "soft" // violations only inform scoring
)

// Severity ranks how serious a violation is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Level returns the numeric rank of a severity (critical=4 .. info=1).
func (s Severity) Level() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}

// Well-known constraint ids.
const (
	IDSkillMatching = "skill_matching"
	IDAvailability  = "availability"
	IDLaborLaw      = "labor_law"
	IDFairness      = "fairness"
	IDPreference    = "preference"
	IDContinuity    = "continuity"
)

// Violation is an immutable record of a detected rule breach. Violations are
// never mutated after creation, only superseded via the With* copies.
type Violation struct {
	ConstraintID        string      `json:"constraint_id"`
	Severity            Severity    `json:"severity"`
	Message             string      `json:"message"`
	AffectedAssignments []uuid.UUID `json:"affected_assignments,omitempty"`
	SuggestedActions    []string    `json:"suggested_actions,omitempty"`
	Timestamp           time.Time   `json:"timestamp"`
}

// NewViolation creates a violation stamped with the current time.
func NewViolation(constraintID string, severity Severity, message string, affected ...uuid.UUID) Violation {
	return Violation{
		ConstraintID:        constraintID,
		Severity:            severity,
		Message:             message,
		AffectedAssignments: affected,
		Timestamp:           time.Now(),
	}
}

// IsCritical reports critical severity.
func (v Violation) IsCritical() bool { return v.Severity == SeverityCritical }

// IsError reports error severity.
func (v Violation) IsError() bool { return v.Severity == SeverityError }

// IsWarning reports warning severity.
func (v Violation) IsWarning() bool { return v.Severity == SeverityWarning }

// IsInfo reports info severity.
func (v Violation) IsInfo() bool { return v.Severity == SeverityInfo }

// IsBlocking reports whether the violation blocks feasibility.
func (v Violation) IsBlocking() bool {
	return v.Severity == SeverityCritical || v.Severity == SeverityError
}

// SeverityLevel returns the numeric severity rank.
func (v Violation) SeverityLevel() int {
	return v.Severity.Level()
}

// WithMessage returns a copy carrying a replacement message.
func (v Violation) WithMessage(message string) Violation {
	v.Message = message
	v.AffectedAssignments = copyIDs(v.AffectedAssignments)
	v.SuggestedActions = copyStrings(v.SuggestedActions)
	return v
}

// WithSeverity returns a copy carrying a replacement severity.
func (v Violation) WithSeverity(severity Severity) Violation {
	v.Severity = severity
	v.AffectedAssignments = copyIDs(v.AffectedAssignments)
	v.SuggestedActions = copyStrings(v.SuggestedActions)
	return v
}

// WithAdditionalActions returns a copy with extra suggested actions appended.
func (v Violation) WithAdditionalActions(actions ...string) Violation {
	merged := make([]string, 0, len(v.SuggestedActions)+len(actions))
	merged = append(merged, v.SuggestedActions...)
	merged = append(merged, actions...)
	v.SuggestedActions = merged
	v.AffectedAssignments = copyIDs(v.AffectedAssignments)
	return v
}

func copyIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}

func copyStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	copy(out, ss)
	return out
}

// Constraint is a named, typed rule over one assignment. Implementations are
// pure: they never mutate the context or the assignment.
type Constraint interface {
	// ID returns the stable constraint identifier.
	ID() string

	// Name returns the display name.
	Name() string

	// Type returns hard or soft.
	Type() Type

	// Priority returns the constraint priority (0-100).
	Priority() int

	// DefaultSeverity returns the severity used when none is more specific.
	DefaultSeverity() Severity

	// IsEnabled reports whether the constraint participates in evaluation.
	IsEnabled() bool

	// Validate inspects one assignment against the context and returns zero
	// or more violations.
	Validate(a *model.Assignment, ctx *planner.Context) []Violation
}
