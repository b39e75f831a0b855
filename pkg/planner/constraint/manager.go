package constraint

import (
	"sort"
	"sync"
	"time"

	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/logger"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
)

// Manager orchestrates the constraint set: it runs every enabled rule against
// an assignment, aggregates violations and exposes the feasibility verdict.
type Manager struct {
	constraints []Constraint
	mu          sync.RWMutex
	logger      *logger.PlannerLogger
}

// NewManager creates an empty constraint manager.
func NewManager() *Manager {
	return &Manager{
		constraints: make([]Constraint, 0),
		logger:      logger.NewPlannerLogger(),
	}
}

// Register adds a constraint, replacing any existing one with the same id.
// The set stays ordered: hard constraints first by descending priority, then
// soft constraints by descending priority.
func (m *Manager) Register(c Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.constraints {
		if existing.ID() == c.ID() {
			m.constraints[i] = c
			m.sortLocked()
			return
		}
	}

	m.constraints = append(m.constraints, c)
	m.sortLocked()
}

// sortLocked orders constraints; callers hold the write lock.
func (m *Manager) sortLocked() {
	sort.SliceStable(m.constraints, func(i, j int) bool {
		ci, cj := m.constraints[i], m.constraints[j]
		if ci.Type() != cj.Type() {
			return ci.Type() == TypeHard
		}
		return ci.Priority() > cj.Priority()
	})
}

// Unregister removes a constraint by id.
func (m *Manager) Unregister(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.constraints {
		if c.ID() == id {
			m.constraints = append(m.constraints[:i], m.constraints[i+1:]...)
			return
		}
	}
}

// Constraint fetches a registered constraint by id.
func (m *Manager) Constraint(id string) Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.constraints {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// All returns a copy of the registered constraint set in evaluation order.
func (m *Manager) All() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Constraint, len(m.constraints))
	copy(result, m.constraints)
	return result
}

// ByType returns the registered constraints of one type.
func (m *Manager) ByType(t Type) []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Constraint
	for _, c := range m.constraints {
		if c.Type() == t {
			result = append(result, c)
		}
	}
	return result
}

// Count returns the number of registered constraints.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.constraints)
}

// Evaluate runs every enabled constraint against the assignment and
// concatenates the violations in evaluation order (hard constraints first by
// descending priority, then soft). Identical inputs always yield an identical
// violation set and ordering.
func (m *Manager) Evaluate(a *model.Assignment, ctx *planner.Context) []Violation {
	constraints := m.All()

	started := time.Now()
	violations := make([]Violation, 0)
	for _, c := range constraints {
		if !c.IsEnabled() {
			continue
		}
		for _, v := range c.Validate(a, ctx) {
			violations = append(violations, v)
			if v.IsBlocking() {
				m.logger.ConstraintViolation(c.Name(), string(v.Severity), v.Message)
			}
		}
	}
	m.logger.EvaluationComplete(a.ID.String(), len(violations), m.IsFeasible(violations), time.Since(started))

	return violations
}

// BatchResult pairs an assignment with its violation set.
type BatchResult struct {
	Assignment *model.Assignment
	Violations []Violation
	Feasible   bool
}

// EvaluateBatch evaluates many assignments concurrently, one goroutine per
// assignment with fan-in, preserving input order in the result.
func (m *Manager) EvaluateBatch(assignments []*model.Assignment, ctx *planner.Context) []BatchResult {
	results := make([]BatchResult, len(assignments))

	var wg sync.WaitGroup
	for i, a := range assignments {
		wg.Add(1)
		go func(i int, a *model.Assignment) {
			defer wg.Done()
			violations := m.Evaluate(a, ctx)
			results[i] = BatchResult{
				Assignment: a,
				Violations: violations,
				Feasible:   m.IsFeasible(violations),
			}
		}(i, a)
	}
	wg.Wait()

	return results
}

// IsFeasible reports false iff any violation has critical or error severity.
func (m *Manager) IsFeasible(violations []Violation) bool {
	for _, v := range violations {
		if v.IsBlocking() {
			return false
		}
	}
	return true
}

// Rank sorts violations by severity level descending, then by constraint
// priority descending. Used for display and for picking the single most
// material issue.
func (m *Manager) Rank(violations []Violation) []Violation {
	priorities := make(map[string]int)
	for _, c := range m.All() {
		priorities[c.ID()] = c.Priority()
	}

	ranked := make([]Violation, len(violations))
	copy(ranked, violations)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].SeverityLevel() != ranked[j].SeverityLevel() {
			return ranked[i].SeverityLevel() > ranked[j].SeverityLevel()
		}
		return priorities[ranked[i].ConstraintID] > priorities[ranked[j].ConstraintID]
	})
	return ranked
}

// Summary returns counts by constraint type.
func (m *Manager) Summary() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hard, soft := 0, 0
	for _, c := range m.constraints {
		if c.Type() == TypeHard {
			hard++
		} else {
			soft++
		}
	}
	return map[string]int{"total": len(m.constraints), "hard": hard, "soft": soft}
}
