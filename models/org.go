package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role inside an organization
type Role string

const (
	RoleOwner       Role = "OWNER"
	RoleClientAdmin Role = "CLIENT_ADMIN"
	RoleClientUser  Role = "CLIENT_USER"
)

// IsValid checks if the role is one of the known values
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleClientAdmin, RoleClientUser:
		return true
	}
	return false
}

// ModuleKey identifies a service module that can be granted to an organization
type ModuleKey string

const (
	ModuleReceptionist  ModuleKey = "RECEPTIONIST"
	ModuleAfterHours    ModuleKey = "AFTER_HOURS"
	ModuleReviewManager ModuleKey = "REVIEW_MANAGER"
	ModuleReactivation  ModuleKey = "REACTIVATION"
	ModuleSpeedToLead   ModuleKey = "SPEED_TO_LEAD"
	ModuleCartRecovery  ModuleKey = "CART_RECOVERY"
)

// AllModuleKeys lists every known module key in display order
func AllModuleKeys() []ModuleKey {
	return []ModuleKey{
		ModuleReceptionist,
		ModuleAfterHours,
		ModuleReviewManager,
		ModuleReactivation,
		ModuleSpeedToLead,
		ModuleCartRecovery,
	}
}

// IsValid checks if the module key is one of the known values
func (k ModuleKey) IsValid() bool {
	for _, known := range AllModuleKeys() {
		if k == known {
			return true
		}
	}
	return false
}

// Organization represents a tenant of the portal
type Organization struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	SupportNotes string    `json:"support_notes" db:"support_notes"` // Markdown source
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// OrgMembership ties a user to an organization with a role
type OrgMembership struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	OrgID     uuid.UUID `json:"org_id" db:"org_id"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ModuleGrant enables a service module for an organization
type ModuleGrant struct {
	OrgID     uuid.UUID `json:"org_id" db:"org_id"`
	ModuleKey ModuleKey `json:"module_key" db:"module_key"`
	Enabled   bool      `json:"enabled" db:"enabled"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
