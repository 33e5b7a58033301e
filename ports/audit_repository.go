package ports

import (
	"context"

	"clientportal/models"

	"github.com/google/uuid"
)

// AuditRepository defines the interface for the append-only audit trail
type AuditRepository interface {
	// Record appends an audit entry
	Record(ctx context.Context, entry *models.AuditEntry) error

	// ListForOrg returns the most recent entries for an org, newest first
	ListForOrg(ctx context.Context, orgID uuid.UUID, limit int) ([]*models.AuditEntry, error)
}
