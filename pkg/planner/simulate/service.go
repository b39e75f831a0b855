// Package simulate runs what-if scenarios against the planning pipeline.
package simulate

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/logger"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/stats"
)

// ModificationType names one kind of scenario overlay.
type ModificationType string

const (
	ModAddAbsence    ModificationType = "add_absence"
	ModRemoveAbsence ModificationType = "remove_absence"
	ModChangeDemand  ModificationType = "change_demand"
	ModModifySkills  ModificationType = "modify_skills"
)

// Modification is one overlay applied to the scenario's context. Only the
// fields relevant to its type are read.
type Modification struct {
	Type ModificationType `json:"type"`

	Absence   *model.Absence `json:"absence,omitempty"`    // add_absence
	AbsenceID uuid.UUID      `json:"absence_id,omitempty"` // remove_absence

	DemandID      uuid.UUID `json:"demand_id,omitempty"` // change_demand
	RequiredCount *int      `json:"required_count,omitempty"`

	EmployeeID uuid.UUID `json:"employee_id,omitempty"` // modify_skills
	SkillID    uuid.UUID `json:"skill_id,omitempty"`
	Level      *int      `json:"level,omitempty"`
	ValidUntil *string   `json:"valid_until,omitempty"`
}

// Scenario is one what-if question.
type Scenario struct {
	Name          string         `json:"name"`
	BaseDate      string         `json:"base_date"` // YYYY-MM-DD
	Modifications []Modification `json:"modifications"`
}

// RiskLevel grades the modified schedule.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// LegSummary is the outcome of one pipeline run.
type LegSummary struct {
	CoveragePercentage    float64 `json:"coverage_percentage"`
	TotalSlots            int     `json:"total_slots"`
	FilledSlots           int     `json:"filled_slots"`
	CriticalGaps          int     `json:"critical_gaps"`
	HighGaps              int     `json:"high_gaps"`
	InfeasibleAssignments int     `json:"infeasible_assignments"`
	RiskScore             float64 `json:"risk_score"`
}

// Result is the diff between the baseline and modified runs.
type Result struct {
	Scenario         string        `json:"scenario"`
	Baseline         LegSummary    `json:"baseline"`
	Modified         LegSummary    `json:"modified"`
	CoverageChange   float64       `json:"coverage_change"`
	NewGaps          []stats.Gap   `json:"new_gaps"`
	AffectedStations []uuid.UUID   `json:"affected_stations"`
	RiskDelta        float64       `json:"risk_delta"`
	RiskLevel        RiskLevel     `json:"risk_level"`
	Recommendations  []string      `json:"recommendations"`
	Duration         time.Duration `json:"duration"`
}

// Comparison reports which of two scenarios degrades the schedule less.
type Comparison struct {
	First       *Result `json:"first"`
	Second      *Result `json:"second"`
	FirstScore  float64 `json:"first_score"`
	SecondScore float64 `json:"second_score"`
	Recommended string  `json:"recommended"`
}

// Service runs scenarios as pure overlays over a data snapshot. Nothing the
// simulation touches is ever written back.
type Service struct {
	manager  *constraint.Manager
	analyzer *stats.CoverageAnalyzer
	log      *logger.PlannerLogger
}

// NewService creates a simulation service.
func NewService(manager *constraint.Manager) *Service {
	return &Service{
		manager:  manager,
		analyzer: stats.NewCoverageAnalyzer(),
		log:      logger.NewPlannerLogger(),
	}
}

// SimulateScenario runs the pipeline twice, unmodified and with the
// scenario's modifications overlaid, and diffs the two coverage reports.
// The two legs run concurrently.
func (s *Service) SimulateScenario(snap planner.Snapshot, scenario Scenario) (*Result, error) {
	if scenario.BaseDate != "" {
		if _, err := model.ParseDate(scenario.BaseDate); err != nil {
			return nil, apperrors.InvalidInput("base_date", "must be YYYY-MM-DD")
		}
		snap.AsOfDate = scenario.BaseDate
	}
	modified, err := applyModifications(snap, scenario.Modifications)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	var baseLeg, modLeg legOutcome
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		baseLeg = s.runLeg(snap)
	}()
	go func() {
		defer wg.Done()
		modLeg = s.runLeg(modified)
	}()
	wg.Wait()

	result := &Result{
		Scenario:       scenario.Name,
		Baseline:       baseLeg.summary,
		Modified:       modLeg.summary,
		CoverageChange: modLeg.summary.CoveragePercentage - baseLeg.summary.CoveragePercentage,
		NewGaps:        newGaps(baseLeg.report, modLeg.report),
		RiskDelta:      modLeg.summary.RiskScore - baseLeg.summary.RiskScore,
		Duration:       time.Since(started),
	}
	result.AffectedStations = affectedStations(result.NewGaps)
	result.RiskLevel = riskLevel(modLeg.summary.CoveragePercentage, modLeg.summary.RiskScore)
	result.Recommendations = recommendations(result)

	s.log.SimulationComplete(scenario.Name, result.CoverageChange, result.RiskDelta, result.Duration)
	return result, nil
}

// CompareScenarios runs both scenarios against the same snapshot and
// recommends the one with the higher composite score.
func (s *Service) CompareScenarios(snap planner.Snapshot, first, second Scenario) (*Comparison, error) {
	firstResult, err := s.SimulateScenario(snap, first)
	if err != nil {
		return nil, err
	}
	secondResult, err := s.SimulateScenario(snap, second)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		First:       firstResult,
		Second:      secondResult,
		FirstScore:  compositeScore(firstResult),
		SecondScore: compositeScore(secondResult),
	}
	cmp.Recommended = firstResult.Scenario
	if cmp.SecondScore > cmp.FirstScore {
		cmp.Recommended = secondResult.Scenario
	}
	return cmp, nil
}

// legOutcome carries one pipeline run's report and summary.
type legOutcome struct {
	report  *stats.Report
	summary LegSummary
}

// runLeg evaluates one context. Assignments that turn infeasible under the
// overlay stop counting toward coverage, which is how an injected absence or
// a raised head count shows up in the diff.
func (s *Service) runLeg(snap planner.Snapshot) legOutcome {
	ctx := planner.NewContext(snap)

	infeasible := 0
	feasible := make([]*model.Assignment, 0, len(snap.Assignments))
	for _, batch := range s.manager.EvaluateBatch(snap.Assignments, ctx) {
		if batch.Feasible {
			feasible = append(feasible, batch.Assignment)
		} else {
			infeasible++
		}
	}
	report := s.analyzer.Analyze(snap.Demands, feasible)

	summary := LegSummary{
		CoveragePercentage:    report.CoveragePercentage,
		TotalSlots:            report.TotalSlots,
		FilledSlots:           report.FilledSlots,
		CriticalGaps:          report.GapCount(stats.GapCritical),
		HighGaps:              report.GapCount(stats.GapHigh),
		InfeasibleAssignments: infeasible,
	}
	summary.RiskScore = riskScore(report)
	return legOutcome{report: report, summary: summary}
}

// riskScore weighs missing coverage and gap severities, capped at 100.
func riskScore(report *stats.Report) float64 {
	score := (100-report.CoveragePercentage)*0.8 +
		float64(report.GapCount(stats.GapCritical))*15 +
		float64(report.GapCount(stats.GapHigh))*8
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// riskLevel maps coverage to a level, then bumps it where the weighted score
// crosses 30/60/80.
func riskLevel(coverage, score float64) RiskLevel {
	level := RiskCritical
	switch {
	case coverage >= 95:
		level = RiskLow
	case coverage >= 85:
		level = RiskMedium
	case coverage >= 70:
		level = RiskHigh
	}
	switch {
	case score > 80:
		level = RiskCritical
	case score > 60 && level != RiskCritical:
		level = maxLevel(level, RiskHigh)
	case score > 30:
		level = maxLevel(level, RiskMedium)
	}
	return level
}

// maxLevel keeps the more severe of two levels.
func maxLevel(a, b RiskLevel) RiskLevel {
	if levelRank(a) >= levelRank(b) {
		return a
	}
	return b
}

// levelRank orders risk levels for comparison.
func levelRank(l RiskLevel) int {
	switch l {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	default:
		return 1
	}
}

// newGaps lists the gaps present in the modified run but not the baseline.
func newGaps(baseline, modified *stats.Report) []stats.Gap {
	existing := make(map[uuid.UUID]int, len(baseline.Gaps))
	for _, g := range baseline.Gaps {
		existing[g.DemandID] = g.Shortage
	}
	out := make([]stats.Gap, 0)
	for _, g := range modified.Gaps {
		if g.Shortage > existing[g.DemandID] {
			out = append(out, g)
		}
	}
	return out
}

// affectedStations collects the distinct stations behind the new gaps.
func affectedStations(gaps []stats.Gap) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	for _, g := range gaps {
		if !seen[g.StationID] {
			seen[g.StationID] = true
			out = append(out, g.StationID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// recommendations derives prioritized actions from the scenario diff.
func recommendations(r *Result) []string {
	var recs []string
	if r.CoverageChange < -15 {
		recs = append(recs, "Coverage drops by more than 15 points; propose temporary hiring to absorb the loss.")
	}
	newCritical := 0
	for _, g := range r.NewGaps {
		if g.Severity == stats.GapCritical {
			newCritical++
		}
	}
	if newCritical > 0 {
		recs = append(recs, "New critical gaps appear; seek overtime approval for qualified employees.")
	}
	if len(r.AffectedStations) > 2 {
		recs = append(recs, "More than two stations are affected; invest in cross-training to widen the qualified pool.")
	}
	if len(recs) == 0 {
		recs = append(recs, "The scenario is absorbed by the current schedule without material risk.")
	}
	return recs
}

// compositeScore ranks a scenario outcome: coverage minus half the risk
// increase minus weighted gap counts.
func compositeScore(r *Result) float64 {
	riskIncrease := r.RiskDelta
	if riskIncrease < 0 {
		riskIncrease = 0
	}
	return r.Modified.CoveragePercentage -
		0.5*riskIncrease -
		float64(r.Modified.CriticalGaps)*4 -
		float64(r.Modified.HighGaps)*2
}

// applyModifications overlays the scenario onto a copy of the snapshot.
// Shared, untouched records stay shared; everything changed is a fresh value.
func applyModifications(snap planner.Snapshot, mods []Modification) (planner.Snapshot, error) {
	out := snap
	out.Absences = append([]*model.Absence(nil), snap.Absences...)
	out.Demands = append([]*model.ShiftDemand(nil), snap.Demands...)
	out.EmpSkills = append([]*model.EmployeeSkill(nil), snap.EmpSkills...)

	for _, mod := range mods {
		switch mod.Type {
		case ModAddAbsence:
			if mod.Absence == nil {
				return out, apperrors.InvalidInput("absence", "add_absence requires an absence record")
			}
			added := *mod.Absence
			if added.ID == uuid.Nil {
				added.BaseModel = model.NewBaseModel()
			}
			out.Absences = append(out.Absences, &added)

		case ModRemoveAbsence:
			kept := out.Absences[:0:0]
			for _, a := range out.Absences {
				if a.ID != mod.AbsenceID {
					kept = append(kept, a)
				}
			}
			out.Absences = kept

		case ModChangeDemand:
			if mod.RequiredCount == nil {
				return out, apperrors.InvalidInput("required_count", "change_demand requires a head count")
			}
			found := false
			for i, d := range out.Demands {
				if d.ID == mod.DemandID {
					patched := d.WithRequiredCount(*mod.RequiredCount)
					out.Demands[i] = &patched
					found = true
					break
				}
			}
			if !found {
				return out, apperrors.NotFound("demand", mod.DemandID.String())
			}

		case ModModifySkills:
			found := false
			for i, es := range out.EmpSkills {
				if es.EmployeeID == mod.EmployeeID && es.SkillID == mod.SkillID {
					patched := *es
					if mod.Level != nil {
						patched.Level = *mod.Level
					}
					if mod.ValidUntil != nil {
						patched.ValidUntil = *mod.ValidUntil
					}
					out.EmpSkills[i] = &patched
					found = true
					break
				}
			}
			if !found {
				if mod.Level == nil {
					return out, apperrors.NotFound("employee_skill", mod.SkillID.String())
				}
				added := &model.EmployeeSkill{
					BaseModel:  model.NewBaseModel(),
					EmployeeID: mod.EmployeeID,
					SkillID:    mod.SkillID,
					Level:      *mod.Level,
				}
				if mod.ValidUntil != nil {
					added.ValidUntil = *mod.ValidUntil
				}
				out.EmpSkills = append(out.EmpSkills, added)
			}

		default:
			return out, apperrors.InvalidInput("type", "unknown modification type")
		}
	}

	return out, nil
}
