package migration

import (
	"context"

	"clientportal/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	steps := []struct {
		name string
		ddl  string
	}{
		{"users", usersTable},
		{"organizations", organizationsTable},
		{"org_memberships", orgMembershipsTable},
		{"module_grants", moduleGrantsTable},
		{"integrations", integrationsTable},
		{"sessions", sessionsTable},
		{"verification_tokens", verificationTokensTable},
		{"audit_log", auditLogTable},
		{"indexes", indexes},
	}

	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.ddl); err != nil {
			return errors.Wrapf(err, "failed to create %s", step.name)
		}
	}
	return nil
}

const usersTable = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	is_platform_owner BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const organizationsTable = `
CREATE TABLE IF NOT EXISTS organizations (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	support_notes TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const orgMembershipsTable = `
CREATE TABLE IF NOT EXISTS org_memberships (
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	role TEXT NOT NULL CHECK (role IN ('OWNER', 'CLIENT_ADMIN', 'CLIENT_USER')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, org_id)
)`

const moduleGrantsTable = `
CREATE TABLE IF NOT EXISTS module_grants (
	org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
	module_key TEXT NOT NULL,
	enabled BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (org_id, module_key)
)`

const integrationsTable = `
CREATE TABLE IF NOT EXISTS integrations (
	id UUID PRIMARY KEY,
	org_id UUID NOT NULL UNIQUE REFERENCES organizations(id) ON DELETE CASCADE,
	sheet_id TEXT NOT NULL,
	gid_map JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const sessionsTable = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	impersonated_org_id UUID REFERENCES organizations(id) ON DELETE SET NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const verificationTokensTable = `
CREATE TABLE IF NOT EXISTS verification_tokens (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL,
	code_hash TEXT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	consumed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const auditLogTable = `
CREATE TABLE IF NOT EXISTS audit_log (
	id UUID PRIMARY KEY,
	org_id UUID REFERENCES organizations(id) ON DELETE SET NULL,
	actor_id UUID REFERENCES users(id) ON DELETE SET NULL,
	action TEXT NOT NULL,
	target_type TEXT NOT NULL DEFAULT '',
	target_id TEXT NOT NULL DEFAULT '',
	ip TEXT NOT NULL DEFAULT '',
	ua_hash TEXT NOT NULL DEFAULT '',
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const indexes = `
CREATE INDEX IF NOT EXISTS idx_memberships_org ON org_memberships(org_id);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
CREATE INDEX IF NOT EXISTS idx_tokens_email ON verification_tokens(email, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_org_time ON audit_log(org_id, created_at DESC)`
