package postgres

import (
	"context"
	"time"

	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SessionRepositoryImpl implements SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// CreateSession persists a new session
func (r *SessionRepositoryImpl) CreateSession(ctx context.Context, s *models.Session) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO sessions (id, user_id, impersonated_org_id, expires_at, created_at)
		VALUES (:id, :user_id, :impersonated_org_id, :expires_at, NOW())
	`, s)

	return err
}

// GetSession retrieves a session by its opaque token
func (r *SessionRepositoryImpl) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.GetContext(ctx, &s, `
		SELECT id, user_id, impersonated_org_id, expires_at, created_at
		FROM sessions
		WHERE id = $1
	`, id)

	if err != nil {
		return nil, err
	}

	return &s, nil
}

// SetImpersonatedOrg sets or clears the impersonation override
func (r *SessionRepositoryImpl) SetImpersonatedOrg(ctx context.Context, id string, orgID *uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET impersonated_org_id = $2 WHERE id = $1
	`, id, orgID)

	return err
}

// DeleteSession removes a session
func (r *SessionRepositoryImpl) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpired removes sessions that expired before the given instant
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// TokenRepositoryImpl implements TokenRepository for PostgreSQL
type TokenRepositoryImpl struct {
	db *sqlx.DB
}

// NewTokenRepository creates a new PostgreSQL verification token repository
func NewTokenRepository(db *sqlx.DB) ports.TokenRepository {
	return &TokenRepositoryImpl{db: db}
}

// CreateToken persists a new verification token
func (r *TokenRepositoryImpl) CreateToken(ctx context.Context, t *models.VerificationToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO verification_tokens (id, email, code_hash, expires_at, consumed, created_at)
		VALUES (:id, :email, :code_hash, :expires_at, FALSE, NOW())
	`, t)

	return err
}

// LatestTokenForEmail returns the most recent unconsumed token for an email
func (r *TokenRepositoryImpl) LatestTokenForEmail(ctx context.Context, email string) (*models.VerificationToken, error) {
	var t models.VerificationToken
	err := r.db.GetContext(ctx, &t, `
		SELECT id, email, code_hash, expires_at, consumed, created_at
		FROM verification_tokens
		WHERE email = $1 AND consumed = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`, email)

	if err != nil {
		return nil, err
	}

	return &t, nil
}

// ConsumeToken marks a token as used
func (r *TokenRepositoryImpl) ConsumeToken(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE verification_tokens SET consumed = TRUE WHERE id = $1
	`, id)

	return err
}
