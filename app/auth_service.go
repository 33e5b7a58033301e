package app

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"clientportal/internal/auth"
	apperrors "clientportal/internal/errors"
	"clientportal/models"
	"clientportal/ports"
)

// AuthService orchestrates the email-OTP sign-in flow
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenRepository
	sessions ports.SessionRepository
	audit    *AuditService
	mailer   ports.Mailer
	clock    ports.Clock

	otpTTL     time.Duration
	sessionTTL time.Duration
}

// NewAuthService creates an auth service
func NewAuthService(users ports.UserRepository, tokens ports.TokenRepository, sessions ports.SessionRepository, audit *AuditService, mailer ports.Mailer, clock ports.Clock, otpTTL, sessionTTL time.Duration) *AuthService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		sessions:   sessions,
		audit:      audit,
		mailer:     mailer,
		clock:      clock,
		otpTTL:     otpTTL,
		sessionTTL: sessionTTL,
	}
}

// RequestOTP issues a one-time code for the given email. Only the hash is
// stored; delivery failures are logged, never surfaced, so the endpoint does
// not leak whether an address exists.
func (s *AuthService) RequestOTP(ctx context.Context, email string, req RequestInfo) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.ValidationError("email required")
	}

	code, err := auth.RandomSixDigit()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate code")
	}

	token := &models.VerificationToken{
		Email:     email,
		CodeHash:  auth.HashCode(code),
		ExpiresAt: s.clock.Now().Add(s.otpTTL),
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return apperrors.Wrap(err, "failed to store verification token")
	}

	if s.mailer != nil {
		if err := s.mailer.SendOTP(ctx, email, code); err != nil {
			log.Printf("[auth] OTP delivery failed for %s: %v", email, err)
		}
	}

	s.audit.Record(ctx, AuditEvent{
		Action:   "auth.otp.request",
		Request:  req,
		Metadata: models.Metadata{"email": email},
	})
	return nil
}

// VerifyOTP checks the submitted code against the latest unconsumed token
// and, on success, upserts the user and opens a session.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string, req RequestInfo) (*models.Session, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return nil, nil, apperrors.ValidationError("email and code required")
	}

	token, err := s.tokens.LatestTokenForEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperrors.Unauthorized("invalid code")
		}
		return nil, nil, apperrors.Wrap(err, "failed to load verification token")
	}

	now := s.clock.Now()
	if token.ExpiresAt.Before(now) || !auth.VerifyCode(code, token.CodeHash) {
		return nil, nil, apperrors.Unauthorized("invalid code")
	}

	if err := s.tokens.ConsumeToken(ctx, token.ID); err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to consume token")
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	user, err := s.users.UpsertUserByEmail(ctx, email, name)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to upsert user")
	}

	sid, err := auth.NewSessionToken()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to generate session token")
	}
	session := &models.Session{
		ID:        sid,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to create session")
	}

	s.audit.Record(ctx, AuditEvent{
		Action:  "auth.otp.verify",
		ActorID: &user.ID,
		Request: req,
	})
	return session, user, nil
}

// Signout destroys the session; unknown sessions are ignored
func (s *AuthService) Signout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		log.Printf("[auth] signout failed for session: %v", err)
	}
	return nil
}
