package models

import (
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// VersionStatus follows draft -> in_review -> approved -> published ->
// archived. Published and approved versions are additionally eligible for
// activation, which is a document-level transition, not a version-local one.
type VersionStatus string

const (
	VersionStatusDraft     VersionStatus = "draft"
	VersionStatusInReview  VersionStatus = "in_review"
	VersionStatusApproved  VersionStatus = "approved"
	VersionStatusPublished VersionStatus = "published"
	VersionStatusArchived  VersionStatus = "archived"
)

var validVersionStatuses = map[VersionStatus]bool{
	VersionStatusDraft:     true,
	VersionStatusInReview:  true,
	VersionStatusApproved:  true,
	VersionStatusPublished: true,
	VersionStatusArchived:  true,
}

// ParseVersionStatus validates a raw status against the closed set.
func ParseVersionStatus(raw string) (VersionStatus, error) {
	s := VersionStatus(raw)
	if !validVersionStatuses[s] {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown version status %q", raw)
	}
	return s, nil
}

// Version is one revision of a document's content, scoped to a locale.
// (DocumentID, Locale, Version) is unique; numbers are monotone per pair,
// starting at 1.
type Version struct {
	ID            id.VersionID  `json:"id"`
	DocumentID    id.DocumentID `json:"document_id"`
	Locale        string        `json:"locale"`
	Version       int           `json:"version"`
	Status        VersionStatus `json:"status"`
	Content       string        `json:"content,omitempty"`
	ExternalURL   string        `json:"external_url,omitempty"`
	Summary       string        `json:"summary,omitempty"`
	ChangeSummary string        `json:"change_summary,omitempty"`
	EffectiveAt   *time.Time    `json:"effective_at,omitempty"`
	PublishedAt   *time.Time    `json:"published_at,omitempty"`
	PublishedBy   string        `json:"published_by,omitempty"`
	SupersededAt  *time.Time    `json:"superseded_at,omitempty"`
	CreatedBy     string        `json:"created_by,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewVersion constructs a version revision. Number and locale resolution
// happen in the service; this only enforces local shape.
func NewVersion(documentID id.DocumentID, locale string, number int, status VersionStatus, now time.Time) (*Version, error) {
	if locale == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "locale is required")
	}
	if number < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "version number must be at least 1")
	}
	return &Version{
		ID:         id.NewVersionID(),
		DocumentID: documentID,
		Locale:     locale,
		Version:    number,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanActivate reports whether this version may become the document's active
// version: published or approved, and never superseded. SupersededAt is
// terminal for activation though the version stays readable.
func (v *Version) CanActivate() bool {
	if v.SupersededAt != nil {
		return false
	}
	return v.Status == VersionStatusPublished || v.Status == VersionStatusApproved
}

func (v *Version) Touch(now time.Time) {
	v.UpdatedAt = now
}
