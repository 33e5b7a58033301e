package ui

import (
	"net/http"
	"time"
)

type otpRequestBody struct {
	Email string `json:"email"`
}

func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var body otpRequestBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := s.auth.RequestOTP(r.Context(), body.Email, requestInfo(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type otpVerifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var body otpVerifyBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	session, user, err := s.auth.VerifyOTP(r.Context(), body.Email, body.Code, requestInfo(r))
	if err != nil {
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, session.ID, session.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "user": user})
}

func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		_ = s.auth.Signout(r.Context(), cookie.Value)
	}
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	session := currentSession(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":                currentUser(r),
		"impersonated_org_id": session.ImpersonatedOrg,
		"expires_at":          session.ExpiresAt,
	})
}

func (s *Server) handleMyOrgs(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.deps.Orgs.ListOrgsForUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orgs": orgs})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
