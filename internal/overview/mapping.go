package overview

import (
	"fmt"
	"sort"

	moderationservice "gavel/internal/moderation/service"
	policymodels "gavel/internal/policy/models"
	policyservice "gavel/internal/policy/service"
)

// versionStatusAliases folds the drifted version-status vocabulary into the
// report's bucket names. The mapping is part of the report contract; change
// it and downstream dashboards miscount.
var versionStatusAliases = map[string]string{
	"draft":     "drafts",
	"in_review": "inReview",
	"approved":  "approved",
	"publish":   "published",
	"published": "published",
	"active":    "published",
	"archived":  "archived",
}

// normalizeVersionStatus maps a raw version status to its bucket name.
// Unknown statuses map to the empty string and are not counted.
func normalizeVersionStatus(raw string) string {
	return versionStatusAliases[raw]
}

func documentTotals(docs []policyservice.DocumentWithVersions) DocumentTotals {
	totals := DocumentTotals{Total: len(docs)}
	for _, entry := range docs {
		switch entry.Document.Status {
		case policymodels.DocumentStatusActive:
			totals.Active++
		case policymodels.DocumentStatusArchived:
			totals.Archived++
		default:
			totals.Draft++
		}
	}
	return totals
}

func bucketVersions(docs []policyservice.DocumentWithVersions) VersionBuckets {
	var buckets VersionBuckets
	for _, entry := range docs {
		for _, version := range entry.Versions {
			switch normalizeVersionStatus(string(version.Status)) {
			case "drafts":
				buckets.Drafts++
			case "inReview":
				buckets.InReview++
			case "approved":
				buckets.Approved++
			case "published":
				buckets.Published++
			case "archived":
				buckets.Archived++
			}
		}
	}
	return buckets
}

func highlight(doc *policymodels.Document, version *policymodels.Version) VersionHighlight {
	return VersionHighlight{
		DocumentID:    doc.ID.String(),
		DocumentSlug:  doc.Slug,
		DocumentTitle: doc.Title,
		Locale:        version.Locale,
		Version:       version.Version,
		Status:        string(version.Status),
		EffectiveAt:   version.EffectiveAt,
		PublishedAt:   version.PublishedAt,
	}
}

// upcomingEffective picks versions with a set effectiveAt, soonest first.
func upcomingEffective(docs []policyservice.DocumentWithVersions, limit int) []VersionHighlight {
	var result []VersionHighlight
	for _, entry := range docs {
		for _, version := range entry.Versions {
			if version.EffectiveAt != nil {
				result = append(result, highlight(entry.Document, version))
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].EffectiveAt.Before(*result[j].EffectiveAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// recentPublications picks versions with a set publishedAt, newest first.
func recentPublications(docs []policyservice.DocumentWithVersions, limit int) []VersionHighlight {
	var result []VersionHighlight
	for _, entry := range docs {
		for _, version := range entry.Versions {
			if version.PublishedAt != nil {
				result = append(result, highlight(entry.Document, version))
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PublishedAt.After(*result[j].PublishedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func mapModerationActivity(entry moderationservice.ActionWithSubmission) ActivityItem {
	item := ActivityItem{
		ID:        fmt.Sprintf("content-%s", entry.Action.ID.String()),
		Type:      string(entry.Action.Action),
		CreatedAt: entry.Action.CreatedAt,
		ActorID:   entry.Action.ActorID,
		Summary:   entry.Action.Reason,
		Metadata:  entry.Action.Metadata,
		Reference: ActivityReference{
			Kind: "submission",
			ID:   entry.Action.SubmissionID.String(),
		},
	}
	if entry.Submission != nil {
		item.Title = entry.Submission.Title
		item.Reference.Label = entry.Submission.Title
	}
	return item
}

func mapPolicyActivity(entry policyservice.AuditWithRefs) ActivityItem {
	item := ActivityItem{
		ID:        fmt.Sprintf("policy-%s", entry.Event.ID.String()),
		Type:      string(entry.Event.Event),
		CreatedAt: entry.Event.CreatedAt,
		ActorID:   entry.Event.ActorID,
		Summary:   entry.Event.Summary,
		Metadata:  entry.Event.Metadata,
		Reference: ActivityReference{
			Kind: "document",
			ID:   entry.Event.DocumentID.String(),
		},
	}
	if entry.Document != nil {
		item.Title = entry.Document.Title
		item.Reference.Label = entry.Document.Slug
	}
	return item
}

// mergeActivity concatenates both timelines, newest first, capped at limit.
func mergeActivity(moderation []ActivityItem, policy []ActivityItem, limit int) []ActivityItem {
	merged := make([]ActivityItem, 0, len(moderation)+len(policy))
	merged = append(merged, moderation...)
	merged = append(merged, policy...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
