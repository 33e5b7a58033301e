package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"clientportal/app"
	"clientportal/internal/errors"
	"clientportal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const sessionCookie = "sid"

// Server is the portal's HTTP surface
type Server struct {
	router *chi.Mux

	auth    *app.AuthService
	access  *app.AccessService
	portal  *app.PortalService
	results *app.ResultsService
	deps    Deps

	secureCookie bool
}

// Deps bundles the repository-level dependencies handlers read directly
type Deps struct {
	Users       ports.UserRepository
	Orgs        ports.OrgRepository
	Memberships ports.MembershipRepository
	Grants      ports.ModuleGrantRepository
	Sessions    ports.SessionRepository
}

// NewServer creates the HTTP server and mounts all routes
func NewServer(auth *app.AuthService, access *app.AccessService, portal *app.PortalService, results *app.ResultsService, deps Deps, secureCookie bool) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		auth:         auth,
		access:       access,
		portal:       portal,
		results:      results,
		deps:         deps,
		secureCookie: secureCookie,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/otp/request", s.handleOTPRequest)
		r.Post("/auth/otp/verify", s.handleOTPVerify)
		r.Post("/auth/signout", s.handleSignout)

		// Everything below requires a session.
		r.Group(func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/auth/whoami", s.handleWhoami)
			r.Get("/me/orgs", s.handleMyOrgs)

			r.Route("/owner", func(r chi.Router) {
				r.Use(s.requirePlatformOwner)

				r.Get("/orgs", s.handleListOrgs)
				r.Post("/orgs", s.handleCreateOrg)
				r.Patch("/orgs/{orgID}", s.handleUpdateOrg)
				r.Delete("/orgs/{orgID}", s.handleDeleteOrg)

				r.Get("/orgs/{orgID}/members", s.handleListMembers)
				r.Post("/orgs/{orgID}/members", s.handleAddMember)
				r.Patch("/orgs/{orgID}/members/{userID}", s.handleUpdateMemberRole)
				r.Delete("/orgs/{orgID}/members/{userID}", s.handleRemoveMember)

				r.Put("/orgs/{orgID}/modules/{moduleKey}", s.handleSetModuleGrant)
				r.Put("/orgs/{orgID}/integration", s.handleSaveIntegration)
				r.Post("/impersonate", s.handleImpersonate)
				r.Get("/users", s.handleListUsers)
			})

			r.Route("/orgs/{orgID}", func(r chi.Router) {
				r.Use(s.requireOrgMember)

				r.Get("/modules", s.handleOrgModules)
				r.Get("/support", s.handleOrgSupport)
				r.Get("/results/{moduleKey}", s.handleResults)
				r.Get("/results/{moduleKey}/summary", s.handleResultsSummary)
			})
		})
	})
}

// Router exposes the mux for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("🚀 Starting client portal server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// writeJSON serializes v with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ui] failed to encode response: %v", err)
	}
}

// writeError maps application error codes onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.CodeForbidden:
		status = http.StatusForbidden
	case errors.CodeValidationError, errors.CodeInvalidInput, errors.CodeLastOwner:
		status = http.StatusUnprocessableEntity
	case errors.CodeSheetFetch:
		status = http.StatusBadGateway
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[ui] internal error: %v", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message, "code": errors.GetCode(err)})
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.ValidationError("invalid JSON body")
	}
	return nil
}

// requestInfo extracts the audit attributes from the request
func requestInfo(r *http.Request) app.RequestInfo {
	ip := r.Header.Get("X-Forwarded-For")
	if ip != "" {
		// First hop only
		for i := 0; i < len(ip); i++ {
			if ip[i] == ',' {
				ip = ip[:i]
				break
			}
		}
	} else {
		ip = r.Header.Get("X-Real-IP")
	}
	if ip == "" {
		ip = r.RemoteAddr
	}
	return app.RequestInfo{IP: ip, UserAgent: r.UserAgent()}
}
