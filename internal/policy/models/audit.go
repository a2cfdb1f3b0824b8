package models

import (
	"time"

	id "gavel/pkg/domain"
)

// AuditEventType names one recorded lifecycle event.
type AuditEventType string

const (
	AuditDocumentCreated  AuditEventType = "document_created"
	AuditDocumentUpdated  AuditEventType = "document_updated"
	AuditVersionCreated   AuditEventType = "version_created"
	AuditVersionUpdated   AuditEventType = "version_updated"
	AuditVersionPublished AuditEventType = "version_published"
	AuditVersionActivated AuditEventType = "version_activated"
	AuditVersionArchived  AuditEventType = "version_archived"
)

// AuditEvent is an immutable record of one document or version transition.
// Created, never updated or deleted; owned by its document.
type AuditEvent struct {
	ID         id.AuditEventID `json:"id"`
	DocumentID id.DocumentID   `json:"document_id"`
	VersionID  *id.VersionID   `json:"version_id,omitempty"`
	ActorID    string          `json:"actor_id"`
	Event      AuditEventType  `json:"event"`
	Summary    string          `json:"summary,omitempty"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
