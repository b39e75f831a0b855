// Package builtin provides the built-in constraint implementations.
package builtin

import (
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// BaseConstraint carries the identity shared by all built-in constraints.
type BaseConstraint struct {
	id       string
	name     string
	typ      constraint.Type
	priority int
	severity constraint.Severity
	enabled  bool
}

// NewBaseConstraint creates the shared constraint base.
func NewBaseConstraint(id, name string, typ constraint.Type, priority int, severity constraint.Severity) *BaseConstraint {
	return &BaseConstraint{
		id:       id,
		name:     name,
		typ:      typ,
		priority: priority,
		severity: severity,
		enabled:  true,
	}
}

// ID returns the constraint identifier.
func (c *BaseConstraint) ID() string { return c.id }

// Name returns the display name.
func (c *BaseConstraint) Name() string { return c.name }

// Type returns hard or soft.
func (c *BaseConstraint) Type() constraint.Type { return c.typ }

// Priority returns the constraint priority.
func (c *BaseConstraint) Priority() int { return c.priority }

// DefaultSeverity returns the default violation severity.
func (c *BaseConstraint) DefaultSeverity() constraint.Severity { return c.severity }

// IsEnabled reports whether the constraint participates in evaluation.
func (c *BaseConstraint) IsEnabled() bool { return c.enabled }

// SetEnabled toggles the constraint on or off.
func (c *BaseConstraint) SetEnabled(enabled bool) { c.enabled = enabled }
