package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated browser session keyed by an opaque token
type Session struct {
	ID              string     `json:"id" db:"id"` // Opaque token, also the sid cookie value
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	ImpersonatedOrg *uuid.UUID `json:"impersonated_org_id,omitempty" db:"impersonated_org_id"`
	ExpiresAt       time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// IsExpired checks the session against the given instant
func (s Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// VerificationToken holds a hashed one-time code issued to an email address
type VerificationToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	CodeHash  string    `json:"-" db:"code_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Consumed  bool      `json:"consumed" db:"consumed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
