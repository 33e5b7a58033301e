package app

import (
	"context"
	"strings"

	apperrors "clientportal/internal/errors"
	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
)

// PortalService implements the platform-owner management operations:
// organizations, memberships, module grants, and sheet integrations.
type PortalService struct {
	orgs         ports.OrgRepository
	memberships  ports.MembershipRepository
	grants       ports.ModuleGrantRepository
	integrations ports.IntegrationRepository
	audit        *AuditService
}

// NewPortalService creates a portal management service
func NewPortalService(orgs ports.OrgRepository, memberships ports.MembershipRepository, grants ports.ModuleGrantRepository, integrations ports.IntegrationRepository, audit *AuditService) *PortalService {
	return &PortalService{
		orgs:         orgs,
		memberships:  memberships,
		grants:       grants,
		integrations: integrations,
		audit:        audit,
	}
}

// CreateOrg creates an organization with a generated slug when none is given
func (s *PortalService) CreateOrg(ctx context.Context, actor *models.User, name, slug string, req RequestInfo) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ValidationError("organization name required")
	}
	if slug == "" {
		slug = slugify(name)
	}

	org := &models.Organization{
		ID:       uuid.New(),
		Name:     name,
		Slug:     slug,
		IsActive: true,
	}
	if err := s.orgs.CreateOrg(ctx, org); err != nil {
		return nil, apperrors.Wrap(err, "failed to create organization")
	}

	s.audit.Record(ctx, AuditEvent{
		OrgID:      &org.ID,
		ActorID:    &actor.ID,
		Action:     "org.create",
		TargetType: "organization",
		TargetID:   org.ID.String(),
		Request:    req,
	})
	return org, nil
}

// UpdateOrg applies changes to an organization's mutable fields
func (s *PortalService) UpdateOrg(ctx context.Context, actor *models.User, org *models.Organization, req RequestInfo) error {
	if strings.TrimSpace(org.Name) == "" {
		return apperrors.ValidationError("organization name required")
	}
	if err := s.orgs.UpdateOrg(ctx, org); err != nil {
		return apperrors.Wrap(err, "failed to update organization")
	}

	s.audit.Record(ctx, AuditEvent{
		OrgID:      &org.ID,
		ActorID:    &actor.ID,
		Action:     "org.update",
		TargetType: "organization",
		TargetID:   org.ID.String(),
		Request:    req,
	})
	return nil
}

// DeleteOrg removes an organization
func (s *PortalService) DeleteOrg(ctx context.Context, actor *models.User, orgID uuid.UUID, req RequestInfo) error {
	if err := s.orgs.DeleteOrg(ctx, orgID); err != nil {
		return apperrors.Wrap(err, "failed to delete organization")
	}

	s.audit.Record(ctx, AuditEvent{
		ActorID:    &actor.ID,
		Action:     "org.delete",
		TargetType: "organization",
		TargetID:   orgID.String(),
		Request:    req,
	})
	return nil
}

// AddMember adds a user to an organization with the given role
func (s *PortalService) AddMember(ctx context.Context, actor *models.User, userID, orgID uuid.UUID, role models.Role, req RequestInfo) error {
	if !role.IsValid() {
		return apperrors.ValidationError("unknown role")
	}

	m := &models.OrgMembership{UserID: userID, OrgID: orgID, Role: role}
	if err := s.memberships.AddMember(ctx, m); err != nil {
		return apperrors.Wrap(err, "failed to add member")
	}

	s.audit.Record(ctx, AuditEvent{
		OrgID:      &orgID,
		ActorID:    &actor.ID,
		Action:     "membership.add",
		TargetType: "user",
		TargetID:   userID.String(),
		Request:    req,
		Metadata:   models.Metadata{"role": string(role)},
	})
	return nil
}

// UpdateMemberRole changes a member's role; the repository guards the last owner
func (s *PortalService) UpdateMemberRole(ctx context.Context, actor *models.User, userID, orgID uuid.UUID, role models.Role, req RequestInfo) error {
	if !role.IsValid() {
		return apperrors.ValidationError("unknown role")
	}

	if err := s.memberships.UpdateRole(ctx, userID, orgID, role); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEvent{
		OrgID:      &orgID,
		ActorID:    &actor.ID,
		Action:     "membership.role",
		TargetType: "user",
		TargetID:   userID.String(),
		Request:    req,
		Metadata:   models.Metadata{"role": string(role)},
	})
	return nil
}

// RemoveMember removes a member; the repository guards the last owner
func (s *PortalService) RemoveMember(ctx context.Context, actor *models.User, userID, orgID uuid.UUID, req RequestInfo) error {
	if err := s.memberships.RemoveMember(ctx, userID, orgID); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEvent{
		OrgID:      &orgID,
		ActorID:    &actor.ID,
		Action:     "membership.remove",
		TargetType: "user",
		TargetID:   userID.String(),
		Request:    req,
	})
	return nil
}

// SetModuleGrant enables or disables a module for an organization
func (s *PortalService) SetModuleGrant(ctx context.Context, actor *models.User, orgID uuid.UUID, key models.ModuleKey, enabled bool, req RequestInfo) error {
	if !key.IsValid() {
		return apperrors.ValidationError("unknown module key")
	}

	grant := &models.ModuleGrant{OrgID: orgID, ModuleKey: key, Enabled: enabled}
	if err := s.grants.SetGrant(ctx, grant); err != nil {
		return apperrors.Wrap(err, "failed to set module grant")
	}

	s.audit.Record(ctx, AuditEvent{
		OrgID:      &orgID,
		ActorID:    &actor.ID,
		Action:     "module.grant",
		TargetType: "module",
		TargetID:   string(key),
		Request:    req,
		Metadata:   models.Metadata{"enabled": enabled},
	})
	return nil
}

// SaveIntegration validates and stores an org's sheet configuration
func (s *PortalService) SaveIntegration(ctx context.Context, actor *models.User, orgID uuid.UUID, sheetID string, gidMap models.GidMap, req RequestInfo) (*models.Integration, error) {
	if !models.ValidSheetID(sheetID) {
		return nil, apperrors.ValidationError("invalid sheet ID")
	}
	if err := gidMap.Validate(); err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	integ := &models.Integration{
		OrgID:   orgID,
		SheetID: sheetID,
		GidMap:  gidMap,
	}
	if err := s.integrations.SaveIntegration(ctx, integ); err != nil {
		return nil, apperrors.Wrap(err, "failed to save integration")
	}

	s.audit.Record(ctx, AuditEvent{
		OrgID:      &orgID,
		ActorID:    &actor.ID,
		Action:     "integration.save",
		TargetType: "integration",
		TargetID:   integ.ID.String(),
		Request:    req,
	})
	return integ, nil
}

// slugify lowercases a name and collapses runs of non-alphanumerics to dashes
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
