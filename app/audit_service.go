package app

import (
	"context"
	"log"

	"clientportal/internal/auth"
	"clientportal/models"
	"clientportal/ports"

	"github.com/google/uuid"
)

// RequestInfo carries the request attributes recorded with audit entries
type RequestInfo struct {
	IP        string
	UserAgent string
}

// AuditEvent describes one recordable action
type AuditEvent struct {
	OrgID      *uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	TargetType string
	TargetID   string
	Request    RequestInfo
	Metadata   models.Metadata
}

// AuditService appends entries to the audit trail. Recording is best-effort:
// a failed write is logged and never fails the action being audited.
type AuditService struct {
	repo ports.AuditRepository
}

// NewAuditService creates an audit service
func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends an audit entry for the event
func (s *AuditService) Record(ctx context.Context, ev AuditEvent) {
	if s == nil || s.repo == nil {
		return
	}

	entry := &models.AuditEntry{
		OrgID:      ev.OrgID,
		ActorID:    ev.ActorID,
		Action:     ev.Action,
		TargetType: ev.TargetType,
		TargetID:   ev.TargetID,
		IP:         ev.Request.IP,
		Metadata:   ev.Metadata,
	}
	if ev.Request.UserAgent != "" {
		entry.UAHash = auth.HashUserAgent(ev.Request.UserAgent)
	}

	if err := s.repo.Record(ctx, entry); err != nil {
		log.Printf("[audit] failed to record %s: %v", ev.Action, err)
	}
}
