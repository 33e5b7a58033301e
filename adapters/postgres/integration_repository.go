package postgres

import (
	"context"

	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// IntegrationRepositoryImpl implements IntegrationRepository for PostgreSQL
type IntegrationRepositoryImpl struct {
	db *sqlx.DB
}

// NewIntegrationRepository creates a new PostgreSQL integration repository
func NewIntegrationRepository(db *sqlx.DB) ports.IntegrationRepository {
	return &IntegrationRepositoryImpl{db: db}
}

// SaveIntegration creates or replaces the integration for an org
func (r *IntegrationRepositoryImpl) SaveIntegration(ctx context.Context, integ *models.Integration) error {
	if integ.ID == uuid.Nil {
		integ.ID = uuid.New()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO integrations (id, org_id, sheet_id, gid_map, created_at, updated_at)
		VALUES (:id, :org_id, :sheet_id, :gid_map, NOW(), NOW())
		ON CONFLICT (org_id)
		DO UPDATE SET sheet_id = :sheet_id, gid_map = :gid_map, updated_at = NOW()
	`, integ)

	return err
}

// GetIntegrationForOrg retrieves an org's integration
func (r *IntegrationRepositoryImpl) GetIntegrationForOrg(ctx context.Context, orgID uuid.UUID) (*models.Integration, error) {
	var integ models.Integration
	err := r.db.GetContext(ctx, &integ, `
		SELECT id, org_id, sheet_id, gid_map, created_at, updated_at
		FROM integrations
		WHERE org_id = $1
	`, orgID)

	if err != nil {
		return nil, err
	}

	return &integ, nil
}

// DeleteIntegrationForOrg removes an org's integration
func (r *IntegrationRepositoryImpl) DeleteIntegrationForOrg(ctx context.Context, orgID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM integrations WHERE org_id = $1`, orgID)
	return err
}
