package ui

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

// In-memory repositories backing the handler tests.

type memStore struct {
	users        map[uuid.UUID]*models.User
	orgs         map[uuid.UUID]*models.Organization
	memberships  map[string]*models.OrgMembership
	grants       map[string]*models.ModuleGrant
	integrations map[uuid.UUID]*models.Integration
	sessions     map[string]*models.Session
	tokens       []*models.VerificationToken
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*models.User),
		orgs:         make(map[uuid.UUID]*models.Organization),
		memberships:  make(map[string]*models.OrgMembership),
		grants:       make(map[string]*models.ModuleGrant),
		integrations: make(map[uuid.UUID]*models.Integration),
		sessions:     make(map[string]*models.Session),
	}
}

func pairKey(a, b fmt.Stringer) string { return a.String() + "/" + b.String() }

func (m *memStore) GetUserByID(_ context.Context, userID uuid.UUID) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) UpsertUserByEmail(ctx context.Context, email, name string) (*models.User, error) {
	if u, err := m.GetUserByEmail(ctx, email); err == nil {
		return u, nil
	}
	u := &models.User{ID: uuid.New(), Email: email, Name: name, IsActive: true}
	m.users[u.ID] = u
	return u, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) CreateOrg(_ context.Context, org *models.Organization) error {
	m.orgs[org.ID] = org
	return nil
}

func (m *memStore) GetOrgByID(_ context.Context, orgID uuid.UUID) (*models.Organization, error) {
	org, ok := m.orgs[orgID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return org, nil
}

func (m *memStore) UpdateOrg(_ context.Context, org *models.Organization) error {
	m.orgs[org.ID] = org
	return nil
}

func (m *memStore) DeleteOrg(_ context.Context, orgID uuid.UUID) error {
	delete(m.orgs, orgID)
	return nil
}

func (m *memStore) ListOrgs(_ context.Context) ([]*models.Organization, error) {
	var out []*models.Organization
	for _, org := range m.orgs {
		out = append(out, org)
	}
	return out, nil
}

func (m *memStore) ListOrgsForUser(_ context.Context, userID uuid.UUID) ([]*models.Organization, error) {
	var out []*models.Organization
	for _, mem := range m.memberships {
		if mem.UserID == userID {
			if org, ok := m.orgs[mem.OrgID]; ok {
				out = append(out, org)
			}
		}
	}
	return out, nil
}

func (m *memStore) GetMembership(_ context.Context, userID, orgID uuid.UUID) (*models.OrgMembership, error) {
	mem, ok := m.memberships[pairKey(userID, orgID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return mem, nil
}

func (m *memStore) ListMemberships(_ context.Context, orgID uuid.UUID) ([]*models.OrgMembership, error) {
	var out []*models.OrgMembership
	for _, mem := range m.memberships {
		if mem.OrgID == orgID {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *memStore) AddMember(_ context.Context, mem *models.OrgMembership) error {
	m.memberships[pairKey(mem.UserID, mem.OrgID)] = mem
	return nil
}

func (m *memStore) UpdateRole(ctx context.Context, userID, orgID uuid.UUID, role models.Role) error {
	mem, ok := m.memberships[pairKey(userID, orgID)]
	if !ok {
		return sql.ErrNoRows
	}
	if mem.Role == models.RoleOwner && role != models.RoleOwner {
		if err := m.guardLastOwner(ctx, orgID); err != nil {
			return err
		}
	}
	mem.Role = role
	return nil
}

func (m *memStore) RemoveMember(ctx context.Context, userID, orgID uuid.UUID) error {
	key := pairKey(userID, orgID)
	mem, ok := m.memberships[key]
	if !ok {
		return sql.ErrNoRows
	}
	if mem.Role == models.RoleOwner {
		if err := m.guardLastOwner(ctx, orgID); err != nil {
			return err
		}
	}
	delete(m.memberships, key)
	return nil
}

func (m *memStore) CountOwners(_ context.Context, orgID uuid.UUID) (int, error) {
	n := 0
	for _, mem := range m.memberships {
		if mem.OrgID == orgID && mem.Role == models.RoleOwner {
			n++
		}
	}
	return n, nil
}

func (m *memStore) guardLastOwner(ctx context.Context, orgID uuid.UUID) error {
	if n, _ := m.CountOwners(ctx, orgID); n <= 1 {
		return apperrors.LastOwner()
	}
	return nil
}

func (m *memStore) SetGrant(_ context.Context, g *models.ModuleGrant) error {
	m.grants[g.OrgID.String()+"/"+string(g.ModuleKey)] = g
	return nil
}

func (m *memStore) GetGrant(_ context.Context, orgID uuid.UUID, key models.ModuleKey) (*models.ModuleGrant, error) {
	g, ok := m.grants[orgID.String()+"/"+string(key)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return g, nil
}

func (m *memStore) ListGrants(_ context.Context, orgID uuid.UUID) ([]*models.ModuleGrant, error) {
	var out []*models.ModuleGrant
	for _, g := range m.grants {
		if g.OrgID == orgID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) SaveIntegration(_ context.Context, integ *models.Integration) error {
	if integ.ID == uuid.Nil {
		integ.ID = uuid.New()
	}
	m.integrations[integ.OrgID] = integ
	return nil
}

func (m *memStore) GetIntegrationForOrg(_ context.Context, orgID uuid.UUID) (*models.Integration, error) {
	integ, ok := m.integrations[orgID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return integ, nil
}

func (m *memStore) DeleteIntegrationForOrg(_ context.Context, orgID uuid.UUID) error {
	delete(m.integrations, orgID)
	return nil
}

func (m *memStore) CreateSession(_ context.Context, s *models.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (m *memStore) SetImpersonatedOrg(_ context.Context, id string, orgID *uuid.UUID) error {
	s, ok := m.sessions[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.ImpersonatedOrg = orgID
	return nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *memStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateToken(_ context.Context, t *models.VerificationToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.tokens = append(m.tokens, t)
	return nil
}

func (m *memStore) LatestTokenForEmail(_ context.Context, email string) (*models.VerificationToken, error) {
	for i := len(m.tokens) - 1; i >= 0; i-- {
		if m.tokens[i].Email == email && !m.tokens[i].Consumed {
			return m.tokens[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) ConsumeToken(_ context.Context, id uuid.UUID) error {
	for _, t := range m.tokens {
		if t.ID == id {
			t.Consumed = true
			return nil
		}
	}
	return sql.ErrNoRows
}

type stubSource struct {
	text string
	err  error
}

func (s *stubSource) FetchCSV(_ context.Context, _ string, _ int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type captureMailer struct {
	lastCode string
}

func (m *captureMailer) SendOTP(_ context.Context, _ string, code string) error {
	m.lastCode = code
	return nil
}

var (
	_ ports.UserRepository        = (*memStore)(nil)
	_ ports.OrgRepository         = (*memStore)(nil)
	_ ports.MembershipRepository  = (*memStore)(nil)
	_ ports.ModuleGrantRepository = (*memStore)(nil)
	_ ports.IntegrationRepository = (*memStore)(nil)
	_ ports.SessionRepository     = (*memStore)(nil)
	_ ports.TokenRepository       = (*memStore)(nil)
	_ ports.SheetSource           = (*stubSource)(nil)
	_ ports.Mailer                = (*captureMailer)(nil)
)
