package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "clientportal/internal/errors"
	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type fakeGrantRepo struct {
	grants map[string]*models.ModuleGrant
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: make(map[string]*models.ModuleGrant)}
}

func grantKey(orgID uuid.UUID, key models.ModuleKey) string {
	return fmt.Sprintf("%s/%s", orgID, key)
}

func (f *fakeGrantRepo) SetGrant(_ context.Context, g *models.ModuleGrant) error {
	f.grants[grantKey(g.OrgID, g.ModuleKey)] = g
	return nil
}

func (f *fakeGrantRepo) GetGrant(_ context.Context, orgID uuid.UUID, key models.ModuleKey) (*models.ModuleGrant, error) {
	g, ok := f.grants[grantKey(orgID, key)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return g, nil
}

func (f *fakeGrantRepo) ListGrants(_ context.Context, orgID uuid.UUID) ([]*models.ModuleGrant, error) {
	var out []*models.ModuleGrant
	for _, g := range f.grants {
		if g.OrgID == orgID {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeIntegrationRepo struct {
	byOrg map[uuid.UUID]*models.Integration
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{byOrg: make(map[uuid.UUID]*models.Integration)}
}

func (f *fakeIntegrationRepo) SaveIntegration(_ context.Context, integ *models.Integration) error {
	if integ.ID == uuid.Nil {
		integ.ID = uuid.New()
	}
	f.byOrg[integ.OrgID] = integ
	return nil
}

func (f *fakeIntegrationRepo) GetIntegrationForOrg(_ context.Context, orgID uuid.UUID) (*models.Integration, error) {
	integ, ok := f.byOrg[orgID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return integ, nil
}

func (f *fakeIntegrationRepo) DeleteIntegrationForOrg(_ context.Context, orgID uuid.UUID) error {
	delete(f.byOrg, orgID)
	return nil
}

type stubSource struct {
	text  string
	err   error
	calls int
}

func (s *stubSource) FetchCSV(_ context.Context, _ string, _ int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID uuid.UUID) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) UpsertUserByEmail(_ context.Context, email, name string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	u := &models.User{ID: uuid.New(), Email: email, Name: name, IsActive: true}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byEmail {
		out = append(out, u)
	}
	return out, nil
}

type fakeTokenRepo struct {
	tokens []*models.VerificationToken
}

func (f *fakeTokenRepo) CreateToken(_ context.Context, t *models.VerificationToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	f.tokens = append(f.tokens, t)
	return nil
}

func (f *fakeTokenRepo) LatestTokenForEmail(_ context.Context, email string) (*models.VerificationToken, error) {
	for i := len(f.tokens) - 1; i >= 0; i-- {
		t := f.tokens[i]
		if t.Email == email && !t.Consumed {
			return t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTokenRepo) ConsumeToken(_ context.Context, id uuid.UUID) error {
	for _, t := range f.tokens {
		if t.ID == id {
			t.Consumed = true
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionRepo) CreateSession(_ context.Context, s *models.Session) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetSession(_ context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeSessionRepo) SetImpersonatedOrg(_ context.Context, id string, orgID *uuid.UUID) error {
	s, ok := f.sessions[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.ImpersonatedOrg = orgID
	return nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, s := range f.sessions {
		if s.ExpiresAt.Before(before) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeOrgRepo struct {
	orgs map[uuid.UUID]*models.Organization
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[uuid.UUID]*models.Organization)}
}

func (f *fakeOrgRepo) CreateOrg(_ context.Context, org *models.Organization) error {
	for _, existing := range f.orgs {
		if existing.Slug == org.Slug {
			return fmt.Errorf("slug %q already taken", org.Slug)
		}
	}
	f.orgs[org.ID] = org
	return nil
}

func (f *fakeOrgRepo) GetOrgByID(_ context.Context, orgID uuid.UUID) (*models.Organization, error) {
	org, ok := f.orgs[orgID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return org, nil
}

func (f *fakeOrgRepo) UpdateOrg(_ context.Context, org *models.Organization) error {
	if _, ok := f.orgs[org.ID]; !ok {
		return sql.ErrNoRows
	}
	f.orgs[org.ID] = org
	return nil
}

func (f *fakeOrgRepo) DeleteOrg(_ context.Context, orgID uuid.UUID) error {
	delete(f.orgs, orgID)
	return nil
}

func (f *fakeOrgRepo) ListOrgs(_ context.Context) ([]*models.Organization, error) {
	var out []*models.Organization
	for _, org := range f.orgs {
		out = append(out, org)
	}
	return out, nil
}

func (f *fakeOrgRepo) ListOrgsForUser(_ context.Context, _ uuid.UUID) ([]*models.Organization, error) {
	return nil, nil
}

type fakeMembershipRepo struct {
	members map[string]*models.OrgMembership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: make(map[string]*models.OrgMembership)}
}

func memberKey(userID, orgID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", userID, orgID)
}

func (f *fakeMembershipRepo) GetMembership(_ context.Context, userID, orgID uuid.UUID) (*models.OrgMembership, error) {
	m, ok := f.members[memberKey(userID, orgID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeMembershipRepo) ListMemberships(_ context.Context, orgID uuid.UUID) ([]*models.OrgMembership, error) {
	var out []*models.OrgMembership
	for _, m := range f.members {
		if m.OrgID == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) AddMember(_ context.Context, m *models.OrgMembership) error {
	f.members[memberKey(m.UserID, m.OrgID)] = m
	return nil
}

func (f *fakeMembershipRepo) UpdateRole(ctx context.Context, userID, orgID uuid.UUID, role models.Role) error {
	m, ok := f.members[memberKey(userID, orgID)]
	if !ok {
		return sql.ErrNoRows
	}
	if m.Role == models.RoleOwner && role != models.RoleOwner {
		if err := f.guardLastOwner(ctx, orgID); err != nil {
			return err
		}
	}
	m.Role = role
	return nil
}

func (f *fakeMembershipRepo) RemoveMember(ctx context.Context, userID, orgID uuid.UUID) error {
	key := memberKey(userID, orgID)
	m, ok := f.members[key]
	if !ok {
		return sql.ErrNoRows
	}
	if m.Role == models.RoleOwner {
		if err := f.guardLastOwner(ctx, orgID); err != nil {
			return err
		}
	}
	delete(f.members, key)
	return nil
}

func (f *fakeMembershipRepo) CountOwners(_ context.Context, orgID uuid.UUID) (int, error) {
	n := 0
	for _, m := range f.members {
		if m.OrgID == orgID && m.Role == models.RoleOwner {
			n++
		}
	}
	return n, nil
}

func (f *fakeMembershipRepo) guardLastOwner(ctx context.Context, orgID uuid.UUID) error {
	n, _ := f.CountOwners(ctx, orgID)
	if n <= 1 {
		return apperrors.LastOwner()
	}
	return nil
}

type recordingMailer struct {
	emails []string
	codes  []string
	err    error
}

func (m *recordingMailer) SendOTP(_ context.Context, email, code string) error {
	m.emails = append(m.emails, email)
	m.codes = append(m.codes, code)
	return m.err
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

var (
	_ ports.OrgRepository         = (*fakeOrgRepo)(nil)
	_ ports.MembershipRepository  = (*fakeMembershipRepo)(nil)
	_ ports.ModuleGrantRepository = (*fakeGrantRepo)(nil)
	_ ports.IntegrationRepository = (*fakeIntegrationRepo)(nil)
	_ ports.SheetSource           = (*stubSource)(nil)
	_ ports.UserRepository        = (*fakeUserRepo)(nil)
	_ ports.TokenRepository       = (*fakeTokenRepo)(nil)
	_ ports.SessionRepository     = (*fakeSessionRepo)(nil)
	_ ports.Mailer                = (*recordingMailer)(nil)
	_ ports.Clock                 = (*testClock)(nil)
)
