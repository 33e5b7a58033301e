package ports

import (
	"context"

	"clientportal/models"

	"github.com/google/uuid"
)

// OrgRepository defines the interface for organization data operations
type OrgRepository interface {
	// CreateOrg creates a new organization
	CreateOrg(ctx context.Context, org *models.Organization) error

	// GetOrgByID retrieves an organization by its ID
	GetOrgByID(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// UpdateOrg updates an organization's mutable fields (name, slug, support notes, active flag)
	UpdateOrg(ctx context.Context, org *models.Organization) error

	// DeleteOrg removes an organization and its dependent records
	DeleteOrg(ctx context.Context, orgID uuid.UUID) error

	// ListOrgs returns all organizations
	ListOrgs(ctx context.Context) ([]*models.Organization, error)

	// ListOrgsForUser returns the organizations the user is a member of
	ListOrgsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Organization, error)
}

// MembershipRepository defines the interface for org membership operations.
// Implementations must uphold the last-owner invariant: an organization can
// never lose its only OWNER through a role change or removal.
type MembershipRepository interface {
	// GetMembership retrieves the membership of a user in an org
	GetMembership(ctx context.Context, userID, orgID uuid.UUID) (*models.OrgMembership, error)

	// ListMemberships returns all memberships of an org
	ListMemberships(ctx context.Context, orgID uuid.UUID) ([]*models.OrgMembership, error)

	// AddMember creates a membership
	AddMember(ctx context.Context, m *models.OrgMembership) error

	// UpdateRole changes a member's role, guarding the last owner
	UpdateRole(ctx context.Context, userID, orgID uuid.UUID, role models.Role) error

	// RemoveMember deletes a membership, guarding the last owner
	RemoveMember(ctx context.Context, userID, orgID uuid.UUID) error

	// CountOwners returns the number of OWNER memberships in an org
	CountOwners(ctx context.Context, orgID uuid.UUID) (int, error)
}
