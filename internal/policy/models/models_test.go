package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Privacy Policy", "privacy-policy"},
		{"  Terms  &  Conditions  ", "terms-conditions"},
		{"already-a-slug", "already-a-slug"},
		{"Seller Agreement (EU) v2", "seller-agreement-eu-v2"},
		{"UPPER_case.mixed", "upper-case-mixed"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestRecomputeStatus(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	doc, err := NewDocument("privacy-policy", "Privacy Policy", CategoryPrivacy, now)
	require.NoError(t, err)

	assert.Equal(t, DocumentStatusDraft, doc.Status)

	versionID := id.NewVersionID()
	doc.ActiveVersionID = &versionID
	doc.RecomputeStatus()
	assert.Equal(t, DocumentStatusActive, doc.Status)

	// Archived wins over an active pointer.
	doc.Archived = true
	doc.RecomputeStatus()
	assert.Equal(t, DocumentStatusArchived, doc.Status)

	doc.Archived = false
	doc.ActiveVersionID = nil
	doc.RecomputeStatus()
	assert.Equal(t, DocumentStatusDraft, doc.Status)
}

func TestNewDocumentValidation(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewDocument("slug", "   ", CategoryTerms, now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewDocument("", "Title", CategoryTerms, now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("privacy")
	require.NoError(t, err)
	assert.Equal(t, CategoryPrivacy, c)

	_, err = ParseCategory("memes")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCanActivate(t *testing.T) {
	now := time.Now().UTC()
	version, err := NewVersion(id.NewDocumentID(), "en", 1, VersionStatusPublished, now)
	require.NoError(t, err)
	assert.True(t, version.CanActivate())

	version.Status = VersionStatusApproved
	assert.True(t, version.CanActivate())

	version.Status = VersionStatusDraft
	assert.False(t, version.CanActivate())

	version.Status = VersionStatusInReview
	assert.False(t, version.CanActivate())

	version.Status = VersionStatusArchived
	assert.False(t, version.CanActivate())

	// Superseded is terminal for activation regardless of status.
	version.Status = VersionStatusPublished
	version.SupersededAt = &now
	assert.False(t, version.CanActivate())
}

func TestNewVersionValidation(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewVersion(id.NewDocumentID(), "", 1, VersionStatusDraft, now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewVersion(id.NewDocumentID(), "en", 0, VersionStatusDraft, now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
