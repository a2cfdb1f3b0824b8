package models

import "time"

// CreateDocument is the intake payload for a new legal document. Slug is
// optional; when absent it is derived from the title. InitialVersion, when
// present, is created in the same transaction as the document.
type CreateDocument struct {
	Slug           string        `json:"slug,omitempty"`
	Title          string        `json:"title"`
	Category       string        `json:"category"`
	Region         string        `json:"region,omitempty"`
	DefaultLocale  string        `json:"default_locale,omitempty"`
	AudienceRoles  []string      `json:"audience_roles,omitempty"`
	EditorRoles    []string      `json:"editor_roles,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	InitialVersion *VersionInput `json:"initial_version,omitempty"`
}

// UpdateDocument is a partial document update. Nil means "leave unchanged".
type UpdateDocument struct {
	Title         *string  `json:"title,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Region        *string  `json:"region,omitempty"`
	DefaultLocale *string  `json:"default_locale,omitempty"`
	AudienceRoles []string `json:"audience_roles,omitempty"`
	EditorRoles   []string `json:"editor_roles,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Archived      *bool    `json:"archived,omitempty"`
}

// VersionInput creates a version revision. Locale defaults to the document's
// default locale; Version defaults to one past the highest existing number
// for the (document, locale) pair; Status defaults to draft.
type VersionInput struct {
	Locale        string     `json:"locale,omitempty"`
	Version       *int       `json:"version,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Content       string     `json:"content,omitempty"`
	ExternalURL   string     `json:"external_url,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	ChangeSummary string     `json:"change_summary,omitempty"`
	EffectiveAt   *time.Time `json:"effective_at,omitempty"`
}

// VersionUpdate is a partial version update. Changing the version number
// triggers a conflict check against sibling revisions, excluding self.
type VersionUpdate struct {
	Version       *int       `json:"version,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Content       *string    `json:"content,omitempty"`
	ExternalURL   *string    `json:"external_url,omitempty"`
	Summary       *string    `json:"summary,omitempty"`
	ChangeSummary *string    `json:"change_summary,omitempty"`
	EffectiveAt   *time.Time `json:"effective_at,omitempty"`
}

// PublishInput carries optional publication overrides. An absent EffectiveAt
// defaults to the publication time.
type PublishInput struct {
	EffectiveAt *time.Time `json:"effective_at,omitempty"`
}

// ArchiveInput carries an optional reason recorded on the audit trail.
type ArchiveInput struct {
	Reason string `json:"reason,omitempty"`
}

// DocumentFilter narrows the document listing and controls eager loading.
type DocumentFilter struct {
	Category        string `json:"category,omitempty"`
	Status          string `json:"status,omitempty"`
	IncludeVersions bool   `json:"include_versions,omitempty"`
	Locale          string `json:"locale,omitempty"`
}

// GetOptions controls what GetDocument loads alongside the document.
type GetOptions struct {
	IncludeVersions bool   `json:"include_versions,omitempty"`
	IncludeAudit    bool   `json:"include_audit,omitempty"`
	Locale          string `json:"locale,omitempty"`
}
