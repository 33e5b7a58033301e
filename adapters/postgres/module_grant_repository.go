package postgres

import (
	"context"

	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ModuleGrantRepositoryImpl implements ModuleGrantRepository for PostgreSQL
type ModuleGrantRepositoryImpl struct {
	db *sqlx.DB
}

// NewModuleGrantRepository creates a new PostgreSQL module grant repository
func NewModuleGrantRepository(db *sqlx.DB) ports.ModuleGrantRepository {
	return &ModuleGrantRepositoryImpl{db: db}
}

// SetGrant enables or disables a module for an org
func (r *ModuleGrantRepositoryImpl) SetGrant(ctx context.Context, grant *models.ModuleGrant) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO module_grants (org_id, module_key, enabled, created_at, updated_at)
		VALUES (:org_id, :module_key, :enabled, NOW(), NOW())
		ON CONFLICT (org_id, module_key)
		DO UPDATE SET enabled = :enabled, updated_at = NOW()
	`, grant)

	return err
}

// GetGrant retrieves a single grant
func (r *ModuleGrantRepositoryImpl) GetGrant(ctx context.Context, orgID uuid.UUID, key models.ModuleKey) (*models.ModuleGrant, error) {
	var grant models.ModuleGrant
	err := r.db.GetContext(ctx, &grant, `
		SELECT org_id, module_key, enabled, created_at, updated_at
		FROM module_grants
		WHERE org_id = $1 AND module_key = $2
	`, orgID, key)

	if err != nil {
		return nil, err
	}

	return &grant, nil
}

// ListGrants returns all grants of an org
func (r *ModuleGrantRepositoryImpl) ListGrants(ctx context.Context, orgID uuid.UUID) ([]*models.ModuleGrant, error) {
	var grants []*models.ModuleGrant
	err := r.db.SelectContext(ctx, &grants, `
		SELECT org_id, module_key, enabled, created_at, updated_at
		FROM module_grants
		WHERE org_id = $1
		ORDER BY module_key
	`, orgID)

	if err != nil {
		return nil, err
	}

	return grants, nil
}
