package explain

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/constraint/builtin"
)

type explainFixture struct {
	engine   *Engine
	manager  *constraint.Manager
	welding  *model.Skill
	station  *model.Station
	template *model.ShiftTemplate
	demand   *model.ShiftDemand
	selected *model.Employee
	others   []*model.Employee
	ctx      *planner.Context
}

func newExplainFixture(t *testing.T) *explainFixture {
	t.Helper()

	welding := &model.Skill{BaseModel: model.NewBaseModel(), Name: "welding", LevelScale: 5}
	station := &model.Station{
		BaseModel: model.NewBaseModel(),
		Name:      "Welding Line 1",
		Priority:  model.PriorityHigh,
		RequiredSkills: []model.SkillRequirement{
			{SkillID: welding.ID, MinLevel: 2, Count: 1, Mandatory: true},
		},
	}
	template := &model.ShiftTemplate{BaseModel: model.NewBaseModel(), Name: "early", StartTime: "06:00", EndTime: "14:00", ShiftType: "day"}
	demand := &model.ShiftDemand{
		BaseModel:       model.NewBaseModel(),
		Date:            "2026-03-02",
		StationID:       station.ID,
		ShiftTemplateID: template.ID,
		RequiredCount:   1,
		Priority:        model.PriorityHigh,
	}

	selected := newWorker("Mara Vogel")
	others := []*model.Employee{
		newWorker("Jonas Keller"),
		newWorker("Lena Roth"),
		newWorker("Timo Brandt"),
		newWorker("Sofia Engel"),
		newWorker("Nils Weber"),
		newWorker("Aylin Demir"),
	}

	snap := planner.Snapshot{
		AsOfDate:  "2026-03-02",
		Employees: append([]*model.Employee{selected}, others...),
		Demands:   []*model.ShiftDemand{demand},
		Stations:  []*model.Station{station},
		Templates: []*model.ShiftTemplate{template},
		Skills:    []*model.Skill{welding},
		EmpSkills: []*model.EmployeeSkill{
			{BaseModel: model.NewBaseModel(), EmployeeID: selected.ID, SkillID: welding.ID, Level: 3, ValidUntil: "2026-12-31"},
		},
	}

	manager := constraint.NewManager()
	builtin.RegisterDefaultConstraints(manager, builtin.DefaultRuleConfig())

	return &explainFixture{
		engine:   NewEngine(manager),
		manager:  manager,
		welding:  welding,
		station:  station,
		template: template,
		demand:   demand,
		selected: selected,
		others:   others,
		ctx:      planner.NewContext(snap),
	}
}

func newWorker(name string) *model.Employee {
	return &model.Employee{
		BaseModel:      model.NewBaseModel(),
		Name:           name,
		ContractType:   model.ContractFullTime,
		WeeklyHours:    40,
		MaxHoursPerDay: 8,
		MinRestHours:   11,
		Team:           "assembly",
		Active:         true,
	}
}

func (f *explainFixture) assignment(score int) *model.Assignment {
	return &model.Assignment{
		BaseModel:  model.NewBaseModel(),
		DemandID:   f.demand.ID,
		EmployeeID: f.selected.ID,
		Status:     model.AssignmentProposed,
		Score:      score,
	}
}

// candidatePool lists the selected employee plus every other worker, scores
// descending from the selected one.
func (f *explainFixture) candidatePool(selectedScore int) []Candidate {
	pool := []Candidate{{EmployeeID: f.selected.ID, Score: selectedScore}}
	for i, other := range f.others {
		pool = append(pool, Candidate{EmployeeID: other.ID, Score: selectedScore - 5*(i+1)})
	}
	return pool
}

func TestGenerateExplanationHasFiveOrderedSteps(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(82)

	exp, err := f.engine.GenerateExplanation(Input{
		Assignment: a,
		Context:    f.ctx,
		Candidates: f.candidatePool(82),
	})
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}

	wantDecisions := []string{
		DecisionDemandRequirements,
		DecisionCandidatePool,
		DecisionSkillCompatibility,
		DecisionConstraintSatisfaction,
		DecisionFinalRationale,
	}
	if len(exp.ReasoningSteps) != len(wantDecisions) {
		t.Fatalf("got %d reasoning steps, want %d", len(exp.ReasoningSteps), len(wantDecisions))
	}
	for i, step := range exp.ReasoningSteps {
		if step.Step != i+1 {
			t.Errorf("step %d numbered %d", i, step.Step)
		}
		if step.Decision != wantDecisions[i] {
			t.Errorf("step %d decision = %q, want %q", i, step.Decision, wantDecisions[i])
		}
		if step.Rationale == "" {
			t.Errorf("step %d has an empty rationale", i)
		}
	}
}

func TestGenerateExplanationDemandStepNamesSkills(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(82)

	exp, err := f.engine.GenerateExplanation(Input{Assignment: a, Context: f.ctx})
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}

	demandStep := exp.ReasoningSteps[0]
	var skillFactor string
	for _, factor := range demandStep.Factors {
		if strings.Contains(factor, "skill") {
			skillFactor = factor
		}
	}
	if !strings.Contains(skillFactor, "welding") {
		t.Errorf("demand factor %q should carry the skill's display name", skillFactor)
	}
	if strings.Contains(skillFactor, f.welding.ID.String()) {
		t.Errorf("demand factor %q should not expose the raw skill id", skillFactor)
	}
}

func TestGenerateExplanationAlternativesCapAndExclusion(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(82)

	// Six non-selected candidates, only five survive.
	exp, err := f.engine.GenerateExplanation(Input{
		Assignment: a,
		Context:    f.ctx,
		Candidates: f.candidatePool(82),
	})
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}

	if len(exp.Alternatives) != 5 {
		t.Fatalf("got %d alternatives, want 5", len(exp.Alternatives))
	}
	for _, alt := range exp.Alternatives {
		if alt.EmployeeID == f.selected.ID {
			t.Error("alternatives must not include the selected employee")
		}
		if alt.Reason == "" {
			t.Errorf("alternative %s has no reason", alt.EmployeeName)
		}
	}
	for i := 1; i < len(exp.Alternatives); i++ {
		if exp.Alternatives[i].Score > exp.Alternatives[i-1].Score {
			t.Error("alternatives must be ordered by score descending")
		}
	}
}

func TestGenerateExplanationScoreTotalMatchesAssignment(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(67)

	exp, err := f.engine.GenerateExplanation(Input{Assignment: a, Context: f.ctx})
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}
	if exp.Score.Total != 67 {
		t.Errorf("score total = %d, want the stored assignment score 67", exp.Score.Total)
	}
	if exp.Score.SkillMatch != 100 {
		t.Errorf("skill match = %d, want 100 for a fully met requirement", exp.Score.SkillMatch)
	}
	if exp.Score.Fairness != 100 {
		t.Errorf("fairness = %d, want 100 for a nearly empty week", exp.Score.Fairness)
	}
}

func TestGenerateExplanationConstraintReports(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(82)

	violations := []constraint.Violation{
		constraint.NewViolation(constraint.IDPreference, constraint.SeverityWarning,
			"Mara Vogel asked to avoid night shifts.", a.ID),
	}
	exp, err := f.engine.GenerateExplanation(Input{
		Assignment: a,
		Context:    f.ctx,
		Violations: violations,
	})
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}

	if len(exp.Constraints) != f.manager.Count() {
		t.Fatalf("got %d constraint reports, want one per registered constraint (%d)", len(exp.Constraints), f.manager.Count())
	}
	byID := make(map[string]ConstraintReport)
	for _, r := range exp.Constraints {
		byID[r.ConstraintID] = r
	}
	if r := byID[constraint.IDPreference]; r.Satisfied || !strings.Contains(r.Impact, "night") {
		t.Errorf("preference report = %+v, want unsatisfied with impact text", r)
	}
	for _, id := range []string{constraint.IDSkillMatching, constraint.IDAvailability, constraint.IDLaborLaw} {
		if !byID[id].Satisfied {
			t.Errorf("constraint %s had no violations and must be reported satisfied", id)
		}
	}
}

func TestGenerateExplanationInfeasibleRationale(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(40)

	violations := []constraint.Violation{
		constraint.NewViolation(constraint.IDAvailability, constraint.SeverityCritical,
			"Mara Vogel has an approved vacation absence covering 2026-03-02.", a.ID),
	}
	exp, err := f.engine.GenerateExplanation(Input{Assignment: a, Context: f.ctx, Violations: violations})
	if err != nil {
		t.Fatalf("GenerateExplanation: %v", err)
	}

	final := exp.ReasoningSteps[len(exp.ReasoningSteps)-1]
	if !strings.Contains(final.Rationale, "infeasible") {
		t.Errorf("final rationale %q should call the assignment infeasible", final.Rationale)
	}
	if exp.Score.Availability != 0 {
		t.Errorf("availability sub-score = %d, want 0 after a critical violation", exp.Score.Availability)
	}
}

func TestGenerateExplanationUnknownEmployee(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(50)
	a.EmployeeID = uuid.New()

	_, err := f.engine.GenerateExplanation(Input{Assignment: a, Context: f.ctx})
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Errorf("unknown employee error = %v, want not found", err)
	}
}

func TestGenerateExplanationUnknownDemand(t *testing.T) {
	f := newExplainFixture(t)
	a := f.assignment(50)
	a.DemandID = uuid.New()

	_, err := f.engine.GenerateExplanation(Input{Assignment: a, Context: f.ctx})
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		t.Errorf("unknown demand error = %v, want not found", err)
	}
}

func TestGenerateExplanationRequiresAssignmentAndContext(t *testing.T) {
	f := newExplainFixture(t)

	if _, err := f.engine.GenerateExplanation(Input{Context: f.ctx}); !apperrors.Is(err, apperrors.CodeInvalidInput) {
		t.Errorf("missing assignment error = %v, want invalid input", err)
	}
	if _, err := f.engine.GenerateExplanation(Input{Assignment: f.assignment(50)}); !apperrors.Is(err, apperrors.CodeInvalidInput) {
		t.Errorf("missing context error = %v, want invalid input", err)
	}
}
