package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/errors"
	"github.com/Philbertano/shiftwise-workforce-planning-sub004/pkg/planner/approval"
)

// AuditRecord is one persisted state change.
type AuditRecord struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	UserID     string    `json:"user_id"`
	Changes    []byte    `json:"changes"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditRepository writes the audit trail and satisfies the approval
// service's audit collaborator.
type AuditRepository struct {
	db DB
}

// NewAuditRepository creates an audit repository.
func NewAuditRepository(db DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// LogAction appends one audit record.
func (r *AuditRepository) LogAction(ctx context.Context, entry approval.AuditEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "marshal audit changes failed")
	}

	query := `
		INSERT INTO audit_log (id, action, entity_type, entity_id, user_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		uuid.New(), entry.Action, entry.EntityType, entry.EntityID, entry.UserID, changes, time.Now(),
	)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "insert audit record failed")
	}
	return nil
}

// FindByEntity lists an entity's audit trail, newest first.
func (r *AuditRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]*AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, action, entity_type, entity_id, user_id, changes, created_at
		FROM audit_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "query audit log failed")
	}
	defer rows.Close()

	var records []*AuditRecord
	for rows.Next() {
		rec := &AuditRecord{}
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.EntityType, &rec.EntityID, &rec.UserID, &rec.Changes, &rec.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "scan audit record failed")
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
