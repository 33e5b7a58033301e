package ports

import (
	"context"

	"clientportal/models"

	"github.com/google/uuid"
)

// ModuleGrantRepository defines the interface for per-org module grants
type ModuleGrantRepository interface {
	// SetGrant enables or disables a module for an org (upsert)
	SetGrant(ctx context.Context, grant *models.ModuleGrant) error

	// GetGrant retrieves a single grant
	GetGrant(ctx context.Context, orgID uuid.UUID, key models.ModuleKey) (*models.ModuleGrant, error)

	// ListGrants returns all grants of an org
	ListGrants(ctx context.Context, orgID uuid.UUID) ([]*models.ModuleGrant, error)
}
