// Package models defines the legal document lifecycle: locale-agnostic
// documents, per-locale version revisions, and their immutable audit trail.
package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// DocumentStatus is derived, never stored authoritatively by callers.
// RecomputeStatus is the single source of truth.
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusArchived DocumentStatus = "archived"
)

// Category classifies a governed document.
type Category string

const (
	CategoryTerms               Category = "terms"
	CategoryPrivacy             Category = "privacy"
	CategoryCookies             Category = "cookies"
	CategorySellerAgreement     Category = "seller_agreement"
	CategoryCommunityGuidelines Category = "community_guidelines"
	CategoryCompliance          Category = "compliance"
	CategoryOther               Category = "other"
)

var validCategories = map[Category]bool{
	CategoryTerms:               true,
	CategoryPrivacy:             true,
	CategoryCookies:             true,
	CategorySellerAgreement:     true,
	CategoryCommunityGuidelines: true,
	CategoryCompliance:          true,
	CategoryOther:               true,
}

// ParseCategory validates a raw category against the closed set.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !validCategories[c] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown category %q", raw)
	}
	return c, nil
}

// Document is the locale-agnostic container for a governed policy artifact.
// At most one ActiveVersionID at any time, regardless of locale count.
type Document struct {
	ID              id.DocumentID  `json:"id"`
	Slug            string         `json:"slug"`
	Title           string         `json:"title"`
	Category        Category       `json:"category"`
	Status          DocumentStatus `json:"status"`
	Region          string         `json:"region,omitempty"`
	DefaultLocale   string         `json:"default_locale"`
	AudienceRoles   []string       `json:"audience_roles,omitempty"`
	EditorRoles     []string       `json:"editor_roles,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	ActiveVersionID *id.VersionID  `json:"active_version_id,omitempty"`
	Archived        bool           `json:"archived"`
	PublishedAt     *time.Time     `json:"published_at,omitempty"`
	RetiredAt       *time.Time     `json:"retired_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// DefaultLocaleFallback is used when a document is created without one.
const DefaultLocaleFallback = "en"

// NewDocument constructs a draft document. The slug must already be derived
// and validated by the caller.
func NewDocument(slug, title string, category Category, now time.Time) (*Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if slug == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "slug is required")
	}
	return &Document{
		ID:            id.NewDocumentID(),
		Slug:          slug,
		Title:         title,
		Category:      category,
		Status:        DocumentStatusDraft,
		DefaultLocale: DefaultLocaleFallback,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// RecomputeStatus derives the document status: archived wins, then active
// when an active version pointer is set, else draft. Run after every
// mutation that can affect the result.
func (d *Document) RecomputeStatus() {
	switch {
	case d.Archived:
		d.Status = DocumentStatusArchived
	case d.ActiveVersionID != nil:
		d.Status = DocumentStatusActive
	default:
		d.Status = DocumentStatusDraft
	}
}

func (d *Document) Touch(now time.Time) {
	d.UpdatedAt = now
}
