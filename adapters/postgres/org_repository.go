package postgres

import (
	"context"

	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OrgRepositoryImpl implements OrgRepository for PostgreSQL
type OrgRepositoryImpl struct {
	db *sqlx.DB
}

// NewOrgRepository creates a new PostgreSQL organization repository
func NewOrgRepository(db *sqlx.DB) ports.OrgRepository {
	return &OrgRepositoryImpl{db: db}
}

// CreateOrg creates a new organization
func (r *OrgRepositoryImpl) CreateOrg(ctx context.Context, org *models.Organization) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO organizations (id, name, slug, support_notes, is_active, created_at, updated_at)
		VALUES (:id, :name, :slug, :support_notes, :is_active, NOW(), NOW())
	`, org)

	return err
}

// GetOrgByID retrieves an organization by its ID
func (r *OrgRepositoryImpl) GetOrgByID(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	err := r.db.GetContext(ctx, &org, `
		SELECT id, name, slug, support_notes, is_active, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, orgID)

	if err != nil {
		return nil, err
	}

	return &org, nil
}

// UpdateOrg updates an organization's mutable fields
func (r *OrgRepositoryImpl) UpdateOrg(ctx context.Context, org *models.Organization) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE organizations
		SET name = :name, slug = :slug, support_notes = :support_notes,
		    is_active = :is_active, updated_at = NOW()
		WHERE id = :id
	`, org)

	return err
}

// DeleteOrg removes an organization; dependent rows cascade
func (r *OrgRepositoryImpl) DeleteOrg(ctx context.Context, orgID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, orgID)
	return err
}

// ListOrgs returns all organizations ordered by name
func (r *OrgRepositoryImpl) ListOrgs(ctx context.Context) ([]*models.Organization, error) {
	var orgs []*models.Organization
	err := r.db.SelectContext(ctx, &orgs, `
		SELECT id, name, slug, support_notes, is_active, created_at, updated_at
		FROM organizations
		ORDER BY name
	`)

	if err != nil {
		return nil, err
	}

	return orgs, nil
}

// ListOrgsForUser returns the organizations the user belongs to
func (r *OrgRepositoryImpl) ListOrgsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error) {
	var orgs []*models.Organization
	err := r.db.SelectContext(ctx, &orgs, `
		SELECT o.id, o.name, o.slug, o.support_notes, o.is_active, o.created_at, o.updated_at
		FROM organizations o
		JOIN org_memberships m ON m.org_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.name
	`, userID)

	if err != nil {
		return nil, err
	}

	return orgs, nil
}
