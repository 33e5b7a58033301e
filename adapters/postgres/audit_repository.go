package postgres

import (
	"context"

	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AuditRepositoryImpl implements AuditRepository for PostgreSQL
type AuditRepositoryImpl struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new PostgreSQL audit repository
func NewAuditRepository(db *sqlx.DB) ports.AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

// Record appends an audit entry
func (r *AuditRepositoryImpl) Record(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO audit_log (id, org_id, actor_id, action, target_type, target_id, ip, ua_hash, metadata, created_at)
		VALUES (:id, :org_id, :actor_id, :action, :target_type, :target_id, :ip, :ua_hash, :metadata, NOW())
	`, entry)

	return err
}

// ListForOrg returns the most recent entries for an org, newest first
func (r *AuditRepositoryImpl) ListForOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]*models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var entries []*models.AuditEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, org_id, actor_id, action, target_type, target_id, ip, ua_hash, metadata, created_at
		FROM audit_log
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, orgID, limit)

	if err != nil {
		return nil, err
	}

	return entries, nil
}
