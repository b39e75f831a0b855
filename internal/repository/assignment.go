package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/model"
)

// AssignmentRepository persists assignments.
type AssignmentRepository struct {
	db DB
}

// NewAssignmentRepository creates an assignment repository.
func NewAssignmentRepository(db DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts an assignment under a plan.
func (r *AssignmentRepository) Create(ctx context.Context, planID uuid.UUID, a *model.Assignment) error {
	if a.ID == uuid.Nil {
		a.BaseModel = model.NewBaseModel()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	query := `
		INSERT INTO assignments (
			id, plan_id, demand_id, employee_id, status, score, explanation,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, planID, a.DemandID, a.EmployeeID, a.Status, a.Score, a.Explanation,
		a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert assignment failed")
	}
	return nil
}

// FindByPlan lists a plan's assignments in creation order.
func (r *AssignmentRepository) FindByPlan(ctx context.Context, planID uuid.UUID) ([]*model.Assignment, error) {
	query := `
		SELECT id, demand_id, employee_id, status, score, explanation, created_by, created_at, updated_at
		FROM assignments
		WHERE plan_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "query assignments failed")
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// FindCommitted lists every committed assignment whose demand date falls in
// the range, across all plans.
func (r *AssignmentRepository) FindCommitted(ctx context.Context, rng model.DateRange) ([]*model.Assignment, error) {
	query := `
		SELECT a.id, a.demand_id, a.employee_id, a.status, a.score, a.explanation, a.created_by, a.created_at, a.updated_at
		FROM assignments a
		JOIN shift_demands d ON d.id = a.demand_id
		WHERE a.status = $1 AND a.deleted_at IS NULL
			AND d.date >= $2 AND d.date <= $3
		ORDER BY d.date
	`
	rows, err := r.db.QueryContext(ctx, query, model.AssignmentCommitted, rng.StartDate, rng.EndDate)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "query committed assignments failed")
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// UpdateStatus moves an assignment to a new status and returns the updated
// record. Committed assignments stay immutable.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AssignmentStatus) (*model.Assignment, error) {
	current, err := r.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := current.WithStatus(status)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE assignments SET status = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, id, updated.Status, updated.UpdatedAt); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "update assignment status failed")
	}
	return &updated, nil
}

// findByID loads one assignment.
func (r *AssignmentRepository) findByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	query := `
		SELECT id, demand_id, employee_id, status, score, explanation, created_by, created_at, updated_at
		FROM assignments
		WHERE id = $1 AND deleted_at IS NULL
	`
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NotFound("assignment", id.String())
	}
	return a, nil
}

// collectAssignments drains a multi-row result.
func collectAssignments(rows *sql.Rows) ([]*model.Assignment, error) {
	var assignments []*model.Assignment
	for rows.Next() {
		a, err := scanAssignmentFields(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// scanAssignment scans a single-row query; a missing row is (nil, nil).
func scanAssignment(row *sql.Row) (*model.Assignment, error) {
	a, err := scanAssignmentFields(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func scanAssignmentFields(s Scanner) (*model.Assignment, error) {
	a := &model.Assignment{}
	var explanation, createdBy sql.NullString

	err := s.Scan(
		&a.ID, &a.DemandID, &a.EmployeeID, &a.Status, &a.Score, &explanation,
		&createdBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan assignment failed")
	}
	a.Explanation = explanation.String
	a.CreatedBy = createdBy.String
	return a, nil
}
