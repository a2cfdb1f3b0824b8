// Package overview composes the governance overview report: the moderation
// queue, legal policy rollups, and a unified activity timeline. Read-only;
// no writes happen here.
package overview

import (
	"time"

	moderationmodels "gavel/internal/moderation/models"
)

// Params bounds one overview request. Zero values fall back to defaults.
type Params struct {
	LookbackDays     int `json:"lookback_days"`
	QueueLimit       int `json:"queue_limit"`
	PublicationLimit int `json:"publication_limit"`
	TimelineLimit    int `json:"timeline_limit"`
}

const (
	defaultLookbackDays     = 7
	defaultQueueLimit       = 10
	defaultPublicationLimit = 5
	defaultTimelineLimit    = 20
)

func (p Params) withDefaults() Params {
	if p.LookbackDays < 1 {
		p.LookbackDays = defaultLookbackDays
	}
	if p.QueueLimit < 1 {
		p.QueueLimit = defaultQueueLimit
	}
	if p.PublicationLimit < 1 {
		p.PublicationLimit = defaultPublicationLimit
	}
	if p.TimelineLimit < 1 {
		p.TimelineLimit = defaultTimelineLimit
	}
	return p
}

// Report is the full governance overview.
type Report struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	LookbackDays  int            `json:"lookback_days"`
	ContentQueue  ContentQueue   `json:"content_queue"`
	LegalPolicies LegalPolicies  `json:"legal_policies"`
	Activity      []ActivityItem `json:"activity"`
}

// ContentQueue carries the ranked top of the moderation queue plus its
// summary counts.
type ContentQueue struct {
	Summary        moderationmodels.QueueSummary  `json:"summary"`
	TopSubmissions []*moderationmodels.Submission `json:"top_submissions"`
}

// DocumentTotals counts documents per derived status.
type DocumentTotals struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Draft    int `json:"draft"`
	Archived int `json:"archived"`
}

// VersionBuckets counts versions per normalized status bucket. Raw statuses
// are folded through the alias table in normalizeVersionStatus; the bucket
// names are part of the report contract.
type VersionBuckets struct {
	Drafts    int `json:"drafts"`
	InReview  int `json:"inReview"`
	Approved  int `json:"approved"`
	Published int `json:"published"`
	Archived  int `json:"archived"`
}

// VersionHighlight is one version surfaced in the policy highlights.
type VersionHighlight struct {
	DocumentID    string     `json:"document_id"`
	DocumentSlug  string     `json:"document_slug"`
	DocumentTitle string     `json:"document_title"`
	Locale        string     `json:"locale"`
	Version       int        `json:"version"`
	Status        string     `json:"status"`
	EffectiveAt   *time.Time `json:"effective_at,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// LegalPolicies is the policy side of the report.
type LegalPolicies struct {
	Documents          DocumentTotals     `json:"documents"`
	Versions           VersionBuckets     `json:"versions"`
	UpcomingEffective  []VersionHighlight `json:"upcoming_effective"`
	RecentPublications []VersionHighlight `json:"recent_publications"`
}

// ActivityReference points an activity item back at its parent entity.
type ActivityReference struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// ActivityItem is one entry of the unified timeline. IDs are namespaced
// content-<id> for moderation actions and policy-<id> for audit events.
type ActivityItem struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	CreatedAt time.Time         `json:"created_at"`
	Title     string            `json:"title"`
	ActorID   string            `json:"actor_id,omitempty"`
	Reference ActivityReference `json:"reference"`
	Summary   string            `json:"summary,omitempty"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
}
