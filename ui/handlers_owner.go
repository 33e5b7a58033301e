package ui

import (
	"net/http"

	"clientportal/internal/errors"
	"clientportal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListOrgs(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.deps.Orgs.ListOrgs(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orgs": orgs})
}

type createOrgBody struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *Server) handleCreateOrg(w http.ResponseWriter, r *http.Request) {
	var body createOrgBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	org, err := s.portal.CreateOrg(r.Context(), currentUser(r), body.Name, body.Slug, requestInfo(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

type updateOrgBody struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	SupportNotes *string `json:"support_notes"`
	IsActive     *bool   `json:"is_active"`
}

func (s *Server) handleUpdateOrg(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body updateOrgBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	org, err := s.deps.Orgs.GetOrgByID(r.Context(), orgID)
	if err != nil {
		writeError(w, errors.NotFound("organization"))
		return
	}
	if body.Name != nil {
		org.Name = *body.Name
	}
	if body.Slug != nil {
		org.Slug = *body.Slug
	}
	if body.SupportNotes != nil {
		org.SupportNotes = *body.SupportNotes
	}
	if body.IsActive != nil {
		org.IsActive = *body.IsActive
	}

	if err := s.portal.UpdateOrg(r.Context(), currentUser(r), org, requestInfo(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (s *Server) handleDeleteOrg(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.portal.DeleteOrg(r.Context(), currentUser(r), orgID, requestInfo(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	members, err := s.deps.Memberships.ListMemberships(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

type memberBody struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   models.Role `json:"role"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body memberBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := s.portal.AddMember(r.Context(), currentUser(r), body.UserID, orgID, body.Role, requestInfo(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

type roleBody struct {
	Role models.Role `json:"role"`
}

func (s *Server) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, errors.ValidationError("invalid user ID"))
		return
	}

	var body roleBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := s.portal.UpdateMemberRole(r.Context(), currentUser(r), userID, orgID, body.Role, requestInfo(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, errors.ValidationError("invalid user ID"))
		return
	}

	if err := s.portal.RemoveMember(r.Context(), currentUser(r), userID, orgID, requestInfo(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type grantBody struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSetModuleGrant(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	key := models.ModuleKey(chi.URLParam(r, "moduleKey"))

	var body grantBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	if err := s.portal.SetModuleGrant(r.Context(), currentUser(r), orgID, key, body.Enabled, requestInfo(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type integrationBody struct {
	SheetID string        `json:"sheet_id"`
	GidMap  models.GidMap `json:"gid_map"`
}

func (s *Server) handleSaveIntegration(w http.ResponseWriter, r *http.Request) {
	orgID, err := parseOrgParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body integrationBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	integ, err := s.portal.SaveIntegration(r.Context(), currentUser(r), orgID, body.SheetID, body.GidMap, requestInfo(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, integ)
}

type impersonateBody struct {
	OrgID *uuid.UUID `json:"org_id"` // null clears impersonation
}

func (s *Server) handleImpersonate(w http.ResponseWriter, r *http.Request) {
	var body impersonateBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	session := currentSession(r)
	if err := s.deps.Sessions.SetImpersonatedOrg(r.Context(), session.ID, body.OrgID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// parseOrgParam reads {orgID} from the URL
func parseOrgParam(r *http.Request) (uuid.UUID, error) {
	orgID, err := uuid.Parse(chi.URLParam(r, "orgID"))
	if err != nil {
		return uuid.Nil, errors.ValidationError("invalid organization ID")
	}
	return orgID, nil
}
