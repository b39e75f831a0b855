package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
)

// PlanRepository persists plans and loads them with their assignments.
type PlanRepository struct {
	db DB
}

// NewPlanRepository creates a plan repository.
func NewPlanRepository(db DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create inserts a plan and its assignments.
func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	if plan.ID == uuid.Nil {
		plan.BaseModel = model.NewBaseModel()
	}
	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	query := `
		INSERT INTO plans (
			id, name, status, start_date, end_date, version,
			total_slots, filled_slots, coverage_percentage,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		plan.ID, plan.Name, plan.Status, plan.DateRange.StartDate, plan.DateRange.EndDate, plan.Version,
		plan.Coverage.TotalSlots, plan.Coverage.FilledSlots, plan.Coverage.CoveragePercentage,
		plan.CreatedBy, plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert plan failed")
	}

	assignments := NewAssignmentRepository(r.db)
	for i := range plan.Assignments {
		if err := assignments.Create(ctx, plan.ID, &plan.Assignments[i]); err != nil {
			return err
		}
	}
	return nil
}

// FindWithAssignments loads one plan and its full assignment set.
func (r *PlanRepository) FindWithAssignments(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	query := `
		SELECT id, name, status, start_date, end_date, version,
			total_slots, filled_slots, coverage_percentage,
			created_by, reviewed_by, committed_at, created_at, updated_at
		FROM plans
		WHERE id = $1 AND deleted_at IS NULL
	`
	plan, err := scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperrors.NotFound("plan", id.String())
	}

	assignments, err := NewAssignmentRepository(r.db).FindByPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Assignments = make([]model.Assignment, len(assignments))
	for i, a := range assignments {
		plan.Assignments[i] = *a
	}
	return plan, nil
}

// FindByStatus lists plans in one status, newest first.
func (r *PlanRepository) FindByStatus(ctx context.Context, status model.PlanStatus) ([]*model.Plan, error) {
	query := `
		SELECT id, name, status, start_date, end_date, version,
			total_slots, filled_slots, coverage_percentage,
			created_by, reviewed_by, committed_at, created_at, updated_at
		FROM plans
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "query plans failed")
	}
	defer rows.Close()

	var plans []*model.Plan
	for rows.Next() {
		plan, err := scanPlanRow(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// UpdateStatus moves a plan to a new status and returns the updated plan.
func (r *PlanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.PlanStatus, actor string) (*model.Plan, error) {
	query := `
		UPDATE plans SET status = $2, reviewed_by = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id, status, actor, time.Now())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "update plan status failed")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, apperrors.NotFound("plan", id.String())
	}
	return r.FindWithAssignments(ctx, id)
}

// CommitPlan marks a plan committed and stamps the commit time.
func (r *PlanRepository) CommitPlan(ctx context.Context, id uuid.UUID, actor string) (*model.Plan, error) {
	now := time.Now()
	query := `
		UPDATE plans SET status = $2, reviewed_by = $3, committed_at = $4, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, id, model.PlanCommitted, actor, now)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "commit plan failed")
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, apperrors.NotFound("plan", id.String())
	}
	return r.FindWithAssignments(ctx, id)
}

// scanPlan scans a single-row query; a missing row comes back as (nil, nil).
func scanPlan(row *sql.Row) (*model.Plan, error) {
	plan, err := scanPlanFields(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return plan, err
}

// scanPlanRow scans one row of a multi-row result.
func scanPlanRow(rows *sql.Rows) (*model.Plan, error) {
	return scanPlanFields(rows)
}

func scanPlanFields(s Scanner) (*model.Plan, error) {
	plan := &model.Plan{}
	var reviewedBy sql.NullString
	var committedAt sql.NullTime

	err := s.Scan(
		&plan.ID, &plan.Name, &plan.Status, &plan.DateRange.StartDate, &plan.DateRange.EndDate, &plan.Version,
		&plan.Coverage.TotalSlots, &plan.Coverage.FilledSlots, &plan.Coverage.CoveragePercentage,
		&plan.CreatedBy, &reviewedBy, &committedAt, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan plan failed")
	}
	if reviewedBy.Valid {
		plan.ReviewedBy = reviewedBy.String
	}
	if committedAt.Valid {
		t := committedAt.Time
		plan.CommittedAt = &t
	}
	return plan, nil
}
