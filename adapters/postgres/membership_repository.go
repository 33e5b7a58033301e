package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "clientportal/internal/errors"
	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MembershipRepositoryImpl implements MembershipRepository for PostgreSQL.
// Role changes and removals run inside a transaction so the last-owner check
// and the mutation see the same membership state.
type MembershipRepositoryImpl struct {
	db *sqlx.DB
}

// NewMembershipRepository creates a new PostgreSQL membership repository
func NewMembershipRepository(db *sqlx.DB) ports.MembershipRepository {
	return &MembershipRepositoryImpl{db: db}
}

// GetMembership retrieves the membership of a user in an org
func (r *MembershipRepositoryImpl) GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*models.OrgMembership, error) {
	var m models.OrgMembership
	err := r.db.GetContext(ctx, &m, `
		SELECT user_id, org_id, role, created_at
		FROM org_memberships
		WHERE user_id = $1 AND org_id = $2
	`, userID, orgID)

	if err != nil {
		return nil, err
	}

	return &m, nil
}

// ListMemberships returns all memberships of an org
func (r *MembershipRepositoryImpl) ListMemberships(ctx context.Context, orgID uuid.UUID) ([]*models.OrgMembership, error) {
	var members []*models.OrgMembership
	err := r.db.SelectContext(ctx, &members, `
		SELECT user_id, org_id, role, created_at
		FROM org_memberships
		WHERE org_id = $1
		ORDER BY created_at
	`, orgID)

	if err != nil {
		return nil, err
	}

	return members, nil
}

// AddMember creates a membership
func (r *MembershipRepositoryImpl) AddMember(ctx context.Context, m *models.OrgMembership) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO org_memberships (user_id, org_id, role, created_at)
		VALUES (:user_id, :org_id, :role, NOW())
	`, m)

	return err
}

// UpdateRole changes a member's role, refusing to demote the last owner
func (r *MembershipRepositoryImpl) UpdateRole(ctx context.Context, userID, orgID uuid.UUID, role models.Role) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if role != models.RoleOwner {
		if err := assertNotLastOwner(ctx, tx, userID, orgID); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE org_memberships SET role = $3
		WHERE user_id = $1 AND org_id = $2
	`, userID, orgID, role)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveMember deletes a membership, refusing to remove the last owner
func (r *MembershipRepositoryImpl) RemoveMember(ctx context.Context, userID, orgID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := assertNotLastOwner(ctx, tx, userID, orgID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM org_memberships
		WHERE user_id = $1 AND org_id = $2
	`, userID, orgID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CountOwners returns the number of OWNER memberships in an org
func (r *MembershipRepositoryImpl) CountOwners(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM org_memberships
		WHERE org_id = $1 AND role = $2
	`, orgID, models.RoleOwner)

	return count, err
}

// assertNotLastOwner fails when the target membership is the org's only
// OWNER and the pending change would move it away from OWNER. A missing
// membership is not guarded; the mutation itself becomes a no-op.
func assertNotLastOwner(ctx context.Context, tx *sqlx.Tx, userID, orgID uuid.UUID) error {
	var current models.Role
	err := tx.GetContext(ctx, &current, `
		SELECT role FROM org_memberships
		WHERE user_id = $1 AND org_id = $2
		FOR UPDATE
	`, userID, orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if current != models.RoleOwner {
		return nil
	}

	var owners int
	err = tx.GetContext(ctx, &owners, `
		SELECT COUNT(*) FROM org_memberships
		WHERE org_id = $1 AND role = $2
	`, orgID, models.RoleOwner)
	if err != nil {
		return err
	}

	if owners <= 1 {
		return apperrors.LastOwner()
	}
	return nil
}
