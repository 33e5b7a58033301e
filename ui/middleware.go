package ui

import (
	"context"
	"net/http"

	"clientportal/internal/errors"
	"clientportal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type contextKey string

const (
	ctxSession contextKey = "session"
	ctxUser    contextKey = "user"
	ctxOrgID   contextKey = "orgID"
)

// withSession resolves the sid cookie into a session and user, rejecting the
// request when neither resolves
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, errors.Unauthorized("not signed in"))
			return
		}

		session, user, err := s.access.ResolveSession(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxSession, session)
		ctx = context.WithValue(ctx, ctxUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requirePlatformOwner gates the owner API
func (s *Server) requirePlatformOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.access.RequirePlatformOwner(currentUser(r)); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireOrgMember resolves {orgID} (honoring impersonation) and checks
// membership
func (s *Server) requireOrgMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paramOrgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
		if err != nil {
			writeError(w, errors.ValidationError("invalid organization ID"))
			return
		}

		orgID := s.access.ActiveOrgID(currentSession(r), paramOrgID)
		if _, err := s.access.RequireMember(r.Context(), currentUser(r), orgID); err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxOrgID, orgID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentSession(r *http.Request) *models.Session {
	if s, ok := r.Context().Value(ctxSession).(*models.Session); ok {
		return s
	}
	return nil
}

func currentUser(r *http.Request) *models.User {
	if u, ok := r.Context().Value(ctxUser).(*models.User); ok {
		return u
	}
	return nil
}

func currentOrgID(r *http.Request) uuid.UUID {
	if id, ok := r.Context().Value(ctxOrgID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
