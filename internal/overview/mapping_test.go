package overview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	moderationmodels "gavel/internal/moderation/models"
	moderationservice "gavel/internal/moderation/service"
	policymodels "gavel/internal/policy/models"
	policyservice "gavel/internal/policy/service"
	id "gavel/pkg/domain"
)

func TestNormalizeVersionStatus(t *testing.T) {
	cases := map[string]string{
		"draft":     "drafts",
		"in_review": "inReview",
		"approved":  "approved",
		"publish":   "published",
		"published": "published",
		"active":    "published",
		"archived":  "archived",
		"deleted":   "",
		"":          "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, normalizeVersionStatus(raw), "normalizeVersionStatus(%q)", raw)
	}
}

func docWithVersions(statuses ...policymodels.VersionStatus) policyservice.DocumentWithVersions {
	doc := &policymodels.Document{
		ID:     id.NewDocumentID(),
		Slug:   "doc",
		Title:  "Doc",
		Status: policymodels.DocumentStatusDraft,
	}
	versions := make([]*policymodels.Version, 0, len(statuses))
	for i, status := range statuses {
		versions = append(versions, &policymodels.Version{
			ID:         id.NewVersionID(),
			DocumentID: doc.ID,
			Locale:     "en",
			Version:    i + 1,
			Status:     status,
		})
	}
	return policyservice.DocumentWithVersions{Document: doc, Versions: versions}
}

func TestBucketVersions(t *testing.T) {
	docs := []policyservice.DocumentWithVersions{
		docWithVersions(
			policymodels.VersionStatusDraft,
			policymodels.VersionStatusInReview,
			policymodels.VersionStatusApproved,
			policymodels.VersionStatusPublished,
			policymodels.VersionStatusArchived,
		),
		// Drifted vocabulary still lands in the published bucket.
		{
			Document: &policymodels.Document{ID: id.NewDocumentID()},
			Versions: []*policymodels.Version{
				{Status: policymodels.VersionStatus("active")},
				{Status: policymodels.VersionStatus("publish")},
				{Status: policymodels.VersionStatus("unknown")},
			},
		},
	}

	buckets := bucketVersions(docs)
	assert.Equal(t, 1, buckets.Drafts)
	assert.Equal(t, 1, buckets.InReview)
	assert.Equal(t, 1, buckets.Approved)
	assert.Equal(t, 3, buckets.Published)
	assert.Equal(t, 1, buckets.Archived)
}

func TestDocumentTotals(t *testing.T) {
	docs := []policyservice.DocumentWithVersions{
		{Document: &policymodels.Document{Status: policymodels.DocumentStatusActive}},
		{Document: &policymodels.Document{Status: policymodels.DocumentStatusDraft}},
		{Document: &policymodels.Document{Status: policymodels.DocumentStatusDraft}},
		{Document: &policymodels.Document{Status: policymodels.DocumentStatusArchived}},
	}
	totals := documentTotals(docs)
	assert.Equal(t, 4, totals.Total)
	assert.Equal(t, 1, totals.Active)
	assert.Equal(t, 2, totals.Draft)
	assert.Equal(t, 1, totals.Archived)
}

func TestHighlights(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	early := base
	late := base.AddDate(0, 1, 0)

	doc := &policymodels.Document{ID: id.NewDocumentID(), Slug: "terms", Title: "Terms"}
	docs := []policyservice.DocumentWithVersions{{
		Document: doc,
		Versions: []*policymodels.Version{
			{Locale: "en", Version: 2, EffectiveAt: &late, PublishedAt: &late},
			{Locale: "en", Version: 1, EffectiveAt: &early, PublishedAt: &early},
			{Locale: "de", Version: 1},
		},
	}}

	upcoming := upcomingEffective(docs, 10)
	assert.Len(t, upcoming, 2)
	assert.Equal(t, 1, upcoming[0].Version, "soonest effective first")
	assert.Equal(t, 2, upcoming[1].Version)
	assert.Equal(t, "terms", upcoming[0].DocumentSlug)

	recent := recentPublications(docs, 10)
	assert.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].Version, "most recent publication first")

	capped := recentPublications(docs, 1)
	assert.Len(t, capped, 1)
}

func TestMergeActivity(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	submission := &moderationmodels.Submission{
		ID:    id.NewSubmissionID(),
		Title: "Flagged listing",
	}
	action := moderationservice.ActionWithSubmission{
		Action: &moderationmodels.Action{
			ID:           id.NewActionID(),
			SubmissionID: submission.ID,
			ActorID:      "reviewer-1",
			Action:       moderationmodels.ActionApprove,
			Reason:       "looks fine",
			CreatedAt:    base,
		},
		Submission: submission,
	}

	doc := &policymodels.Document{ID: id.NewDocumentID(), Slug: "privacy", Title: "Privacy Policy"}
	event := policyservice.AuditWithRefs{
		Event: &policymodels.AuditEvent{
			ID:         id.NewAuditEventID(),
			DocumentID: doc.ID,
			ActorID:    "legal-1",
			Event:      policymodels.AuditVersionPublished,
			CreatedAt:  base.Add(time.Hour),
		},
		Document: doc,
	}

	merged := mergeActivity(
		[]ActivityItem{mapModerationActivity(action)},
		[]ActivityItem{mapPolicyActivity(event)},
		10,
	)
	assert.Len(t, merged, 2)

	// Newest first, each namespaced by source.
	assert.Equal(t, "policy-"+event.Event.ID.String(), merged[0].ID)
	assert.Equal(t, "version_published", merged[0].Type)
	assert.Equal(t, "document", merged[0].Reference.Kind)
	assert.Equal(t, "privacy", merged[0].Reference.Label)

	assert.Equal(t, "content-"+action.Action.ID.String(), merged[1].ID)
	assert.Equal(t, "approve", merged[1].Type)
	assert.Equal(t, "submission", merged[1].Reference.Kind)
	assert.Equal(t, "Flagged listing", merged[1].Title)

	capped := mergeActivity(
		[]ActivityItem{mapModerationActivity(action)},
		[]ActivityItem{mapPolicyActivity(event)},
		1,
	)
	assert.Len(t, capped, 1)
	assert.Equal(t, "policy-"+event.Event.ID.String(), capped[0].ID)
}
