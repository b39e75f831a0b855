// Package explain turns scored assignments into human-readable reasoning.
package explain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
)

// Decision labels for the five reasoning steps, in order.
const (
	DecisionDemandRequirements     = "demand_requirements"
	DecisionCandidatePool          = "candidate_pool"
	DecisionSkillCompatibility     = "skill_compatibility"
	DecisionConstraintSatisfaction = "constraint_satisfaction"
	DecisionFinalRationale         = "final_rationale"
)

// Candidate is one employee the planner considered for the demand.
type Candidate struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Score      int       `json:"score"`
}

// Input bundles everything the engine needs to explain one assignment.
type Input struct {
	Assignment *model.Assignment
	Context    *planner.Context
	Candidates []Candidate
	Violations []constraint.Violation
}

// ReasoningStep is one step of the ordered explanation chain.
type ReasoningStep struct {
	Step      int      `json:"step"`
	Decision  string   `json:"decision"`
	Factors   []string `json:"factors"`
	Rationale string   `json:"rationale"`
}

// Alternative is a non-selected candidate with the reason it lost.
type Alternative struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Score        int       `json:"score"`
	Reason       string    `json:"reason"`
}

// ScoreBreakdown decomposes the assignment score. Total always equals the
// score stored on the assignment; the sub-scores are derived independently
// from the same context.
type ScoreBreakdown struct {
	Total        int `json:"total"`
	SkillMatch   int `json:"skill_match"`
	Availability int `json:"availability"`
	Fairness     int `json:"fairness"`
	Preferences  int `json:"preferences"`
	Continuity   int `json:"continuity"`
}

// ConstraintReport states the outcome of one evaluated constraint.
type ConstraintReport struct {
	ConstraintID string `json:"constraint_id"`
	Name         string `json:"name"`
	Satisfied    bool   `json:"satisfied"`
	Impact       string `json:"impact,omitempty"`
}

// Explanation is the full reasoning output for one assignment.
type Explanation struct {
	AssignmentID   uuid.UUID          `json:"assignment_id"`
	EmployeeID     uuid.UUID          `json:"employee_id"`
	ReasoningSteps []ReasoningStep    `json:"reasoning_steps"`
	Alternatives   []Alternative      `json:"alternatives"`
	Score          ScoreBreakdown     `json:"score"`
	Constraints    []ConstraintReport `json:"constraints"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// Engine builds explanations from the constraint manager's view of the world.
type Engine struct {
	manager *constraint.Manager
}

// NewEngine creates an explanation engine.
func NewEngine(manager *constraint.Manager) *Engine {
	return &Engine{manager: manager}
}

// GenerateExplanation produces exactly five ordered reasoning steps, at most
// five alternatives, a score breakdown whose total equals the assignment's
// stored score, and a per-constraint satisfaction report.
func (e *Engine) GenerateExplanation(in Input) (*Explanation, error) {
	if in.Assignment == nil {
		return nil, apperrors.InvalidInput("assignment", "assignment is required")
	}
	if in.Context == nil {
		return nil, apperrors.InvalidInput("context", "validation context is required")
	}

	emp, ok := in.Context.Employee(in.Assignment.EmployeeID)
	if !ok {
		return nil, apperrors.NotFound("employee", in.Assignment.EmployeeID.String())
	}
	demand, ok := in.Context.Demand(in.Assignment.DemandID)
	if !ok {
		return nil, apperrors.NotFound("demand", in.Assignment.DemandID.String())
	}
	station, ok := in.Context.Station(demand.StationID)
	if !ok {
		return nil, apperrors.NotFound("station", demand.StationID.String())
	}

	alternatives := e.buildAlternatives(in, emp)

	steps := []ReasoningStep{
		e.demandStep(in, demand, station),
		e.candidateStep(in, emp, station, alternatives),
		e.skillStep(in, emp, station),
		e.constraintStep(in, emp),
		e.finalStep(in, emp, station, demand),
	}
	for i := range steps {
		steps[i].Step = i + 1
	}

	return &Explanation{
		AssignmentID:   in.Assignment.ID,
		EmployeeID:     emp.ID,
		ReasoningSteps: steps,
		Alternatives:   alternatives,
		Score:          e.scoreBreakdown(in, emp, demand),
		Constraints:    e.constraintReports(in.Violations),
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// demandStep summarises what the demand asks for.
func (e *Engine) demandStep(in Input, demand *model.ShiftDemand, station *model.Station) ReasoningStep {
	factors := []string{
		fmt.Sprintf("station: %s", station.Name),
		fmt.Sprintf("date: %s", demand.Date),
		fmt.Sprintf("required headcount: %d", demand.RequiredCount),
		fmt.Sprintf("priority: %s", demand.Priority),
	}
	for _, req := range station.RequiredSkills {
		kind := "optional"
		if req.Mandatory {
			kind = "mandatory"
		}
		factors = append(factors, fmt.Sprintf("%s skill '%s' at level %d or above", kind, skillName(in.Context, req.SkillID), req.MinLevel))
	}
	return ReasoningStep{
		Decision: DecisionDemandRequirements,
		Factors:  factors,
		Rationale: fmt.Sprintf("Station %s needs %d worker(s) on %s at %s priority with %d skill requirement(s).",
			station.Name, demand.RequiredCount, demand.Date, demand.Priority, len(station.RequiredSkills)),
	}
}

// candidateStep summarises the pool the selection was made from.
func (e *Engine) candidateStep(in Input, emp *model.Employee, station *model.Station, alternatives []Alternative) ReasoningStep {
	factors := []string{
		fmt.Sprintf("candidates considered: %d", len(in.Candidates)),
		fmt.Sprintf("selected: %s with score %d", emp.Name, in.Assignment.Score),
	}
	for _, alt := range alternatives {
		factors = append(factors, fmt.Sprintf("alternative: %s with score %d", alt.EmployeeName, alt.Score))
	}
	rationale := fmt.Sprintf("Out of %d candidate(s) for station %s, %s was selected with a score of %d.",
		len(in.Candidates), station.Name, emp.Name, in.Assignment.Score)
	if len(in.Candidates) == 0 {
		rationale = fmt.Sprintf("%s was proposed directly for station %s without a wider candidate pool.", emp.Name, station.Name)
	}
	return ReasoningStep{
		Decision:  DecisionCandidatePool,
		Factors:   factors,
		Rationale: rationale,
	}
}

// skillStep assesses the employee against the station's requirements.
func (e *Engine) skillStep(in Input, emp *model.Employee, station *model.Station) ReasoningStep {
	var factors []string
	met := 0
	for _, req := range station.RequiredSkills {
		name := skillName(in.Context, req.SkillID)
		es, ok := in.Context.EmployeeSkill(emp.ID, req.SkillID)
		switch {
		case !ok:
			factors = append(factors, fmt.Sprintf("%s: no record, level %d required", name, req.MinLevel))
		case es.Level < req.MinLevel:
			factors = append(factors, fmt.Sprintf("%s: level %d, below required %d", name, es.Level, req.MinLevel))
		default:
			met++
			factors = append(factors, fmt.Sprintf("%s: level %d meets required %d", name, es.Level, req.MinLevel))
		}
	}
	total := len(station.RequiredSkills)
	rationale := fmt.Sprintf("%s meets %d of %d skill requirement(s) at station %s.", emp.Name, met, total, station.Name)
	if total == 0 {
		factors = append(factors, "no skill requirements defined")
		rationale = fmt.Sprintf("Station %s defines no skill requirements, so %s qualifies by default.", station.Name, emp.Name)
	}
	return ReasoningStep{
		Decision:  DecisionSkillCompatibility,
		Factors:   factors,
		Rationale: rationale,
	}
}

// constraintStep summarises the violation picture.
func (e *Engine) constraintStep(in Input, emp *model.Employee) ReasoningStep {
	counts := make(map[constraint.Severity]int)
	blocking := 0
	for _, v := range in.Violations {
		counts[v.Severity]++
		if v.IsBlocking() {
			blocking++
		}
	}
	factors := []string{
		fmt.Sprintf("critical: %d", counts[constraint.SeverityCritical]),
		fmt.Sprintf("error: %d", counts[constraint.SeverityError]),
		fmt.Sprintf("warning: %d", counts[constraint.SeverityWarning]),
		fmt.Sprintf("info: %d", counts[constraint.SeverityInfo]),
	}
	rationale := fmt.Sprintf("All evaluated constraints are satisfied for %s.", emp.Name)
	if len(in.Violations) > 0 {
		ranked := e.manager.Rank(in.Violations)
		top := ranked[0]
		if blocking > 0 {
			rationale = fmt.Sprintf("The assignment has %d blocking violation(s); the most material one is: %s", blocking, top.Message)
		} else {
			rationale = fmt.Sprintf("No blocking violations were found, but %d advisory finding(s) apply; the most material one is: %s", len(in.Violations), top.Message)
		}
	}
	return ReasoningStep{
		Decision:  DecisionConstraintSatisfaction,
		Factors:   factors,
		Rationale: rationale,
	}
}

// finalStep states the overall verdict.
func (e *Engine) finalStep(in Input, emp *model.Employee, station *model.Station, demand *model.ShiftDemand) ReasoningStep {
	feasible := e.manager.IsFeasible(in.Violations)
	factors := []string{
		fmt.Sprintf("score: %d", in.Assignment.Score),
		fmt.Sprintf("feasible: %t", feasible),
		fmt.Sprintf("status: %s", in.Assignment.Status),
	}
	rationale := fmt.Sprintf("%s is assigned to station %s on %s with a score of %d and no blocking violations.",
		emp.Name, station.Name, demand.Date, in.Assignment.Score)
	if !feasible {
		rationale = fmt.Sprintf("%s was proposed for station %s on %s with a score of %d, but blocking violations make the assignment infeasible as it stands.",
			emp.Name, station.Name, demand.Date, in.Assignment.Score)
	}
	return ReasoningStep{
		Decision:  DecisionFinalRationale,
		Factors:   factors,
		Rationale: rationale,
	}
}

// buildAlternatives keeps the top five non-selected candidates by score.
func (e *Engine) buildAlternatives(in Input, selected *model.Employee) []Alternative {
	var alts []Alternative
	for _, cand := range in.Candidates {
		if cand.EmployeeID == selected.ID {
			continue
		}
		name := cand.EmployeeID.String()
		if other, ok := in.Context.Employee(cand.EmployeeID); ok {
			name = other.Name
		}
		reason := fmt.Sprintf("Scored %d, below %s's score of %d.", cand.Score, selected.Name, in.Assignment.Score)
		if cand.Score >= in.Assignment.Score {
			reason = fmt.Sprintf("Scored %d but was not selected for this demand.", cand.Score)
		}
		alts = append(alts, Alternative{
			EmployeeID:   cand.EmployeeID,
			EmployeeName: name,
			Score:        cand.Score,
			Reason:       reason,
		})
	}
	sort.SliceStable(alts, func(i, j int) bool { return alts[i].Score > alts[j].Score })
	if len(alts) > 5 {
		alts = alts[:5]
	}
	return alts
}

// scoreBreakdown derives the sub-scores from the context. The total is the
// assignment's stored score.
func (e *Engine) scoreBreakdown(in Input, emp *model.Employee, demand *model.ShiftDemand) ScoreBreakdown {
	return ScoreBreakdown{
		Total:        in.Assignment.Score,
		SkillMatch:   e.skillMatchScore(in, emp, demand),
		Availability: e.violationScore(in.Violations, constraint.IDAvailability),
		Fairness:     e.fairnessScore(in, emp, demand),
		Preferences:  e.violationScore(in.Violations, constraint.IDPreference),
		Continuity:   e.violationScore(in.Violations, constraint.IDContinuity),
	}
}

// skillMatchScore scores the share of met requirements, weighted by level.
func (e *Engine) skillMatchScore(in Input, emp *model.Employee, demand *model.ShiftDemand) int {
	station, ok := in.Context.Station(demand.StationID)
	if !ok || len(station.RequiredSkills) == 0 {
		return 100
	}
	var sum float64
	for _, req := range station.RequiredSkills {
		es, ok := in.Context.EmployeeSkill(emp.ID, req.SkillID)
		if !ok || es.IsExpired(in.Context.AsOfDate) {
			continue
		}
		if es.Level >= req.MinLevel {
			sum += 1
		} else if req.MinLevel > 0 {
			sum += float64(es.Level) / float64(req.MinLevel)
		}
	}
	return clampScore(sum / float64(len(station.RequiredSkills)) * 100)
}

// fairnessScore is 100 while projected weekly hours stay below contract and
// scales down as utilization approaches and passes capacity.
func (e *Engine) fairnessScore(in Input, emp *model.Employee, demand *model.ShiftDemand) int {
	if emp.WeeklyHours <= 0 {
		return 100
	}
	weekStart := model.WeekStart(demand.Date)
	projected := in.Context.EmployeeWeeklyHours(emp.ID, weekStart)
	if !containsAssignment(in.Context.EmployeeAssignments(emp.ID), in.Assignment.ID) {
		projected += in.Context.AssignmentHours(in.Assignment)
	}
	utilization := projected / emp.WeeklyHours
	switch {
	case utilization <= 0.8:
		return 100
	case utilization <= 1.0:
		// 100 down to 60 as the week fills up.
		return clampScore(100 - (utilization-0.8)*200)
	default:
		// 60 down to 0 at 150% of contract.
		return clampScore(60 - (utilization-1.0)*120)
	}
}

// violationScore starts at 100 and deducts per violation of one constraint.
func (e *Engine) violationScore(violations []constraint.Violation, constraintID string) int {
	score := 100.0
	for _, v := range violations {
		if v.ConstraintID != constraintID {
			continue
		}
		switch v.Severity {
		case constraint.SeverityCritical:
			score -= 100
		case constraint.SeverityError:
			score -= 60
		case constraint.SeverityWarning:
			score -= 25
		default:
			score -= 10
		}
	}
	return clampScore(score)
}

// constraintReports emits one entry per evaluated constraint; constraints
// absent from the violations are reported satisfied.
func (e *Engine) constraintReports(violations []constraint.Violation) []ConstraintReport {
	byConstraint := make(map[string][]string)
	for _, v := range violations {
		byConstraint[v.ConstraintID] = append(byConstraint[v.ConstraintID], v.Message)
	}
	constraints := e.manager.All()
	reports := make([]ConstraintReport, 0, len(constraints))
	for _, c := range constraints {
		messages := byConstraint[c.ID()]
		reports = append(reports, ConstraintReport{
			ConstraintID: c.ID(),
			Name:         c.Name(),
			Satisfied:    len(messages) == 0,
			Impact:       strings.Join(messages, " "),
		})
	}
	return reports
}

// skillName resolves a display name for a skill id.
func skillName(ctx *planner.Context, id uuid.UUID) string {
	if s, ok := ctx.Skill(id); ok {
		return s.Name
	}
	return id.String()
}

// containsAssignment reports whether the slice already holds the assignment.
func containsAssignment(assignments []*model.Assignment, id uuid.UUID) bool {
	for _, a := range assignments {
		if a.ID == id {
			return true
		}
	}
	return false
}

// clampScore rounds to an int in 0..100.
func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v + 0.5)
}
