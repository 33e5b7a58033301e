package ports

import (
	"context"
	"time"

	"clientportal/models"

	"github.com/google/uuid"
)

// SessionRepository defines the interface for session persistence
type SessionRepository interface {
	// CreateSession persists a new session
	CreateSession(ctx context.Context, s *models.Session) error

	// GetSession retrieves a session by its opaque token
	GetSession(ctx context.Context, id string) (*models.Session, error)

	// SetImpersonatedOrg sets or clears the impersonation override
	SetImpersonatedOrg(ctx context.Context, id string, orgID *uuid.UUID) error

	// DeleteSession removes a session
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpired removes sessions that expired before the given instant
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// TokenRepository defines the interface for OTP verification tokens
type TokenRepository interface {
	// CreateToken persists a new verification token
	CreateToken(ctx context.Context, t *models.VerificationToken) error

	// LatestTokenForEmail returns the most recent unconsumed token for an email
	LatestTokenForEmail(ctx context.Context, email string) (*models.VerificationToken, error)

	// ConsumeToken marks a token as used
	ConsumeToken(ctx context.Context, id uuid.UUID) error
}
