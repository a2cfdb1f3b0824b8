package overview

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	moderationmodels "gavel/internal/moderation/models"
	moderationservice "gavel/internal/moderation/service"
	policymodels "gavel/internal/policy/models"
	policyservice "gavel/internal/policy/service"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/requestcontext"
)

// ModerationReader is the slice of the moderation service the overview
// consumes.
type ModerationReader interface {
	ListSubmissions(ctx context.Context, filter moderationmodels.ListFilter) (*moderationmodels.QueuePage, error)
	ListRecentActions(ctx context.Context, since time.Time, limit int) ([]moderationservice.ActionWithSubmission, error)
}

// PolicyReader is the slice of the policy service the overview consumes.
type PolicyReader interface {
	ListDocuments(ctx context.Context, filter policymodels.DocumentFilter) ([]policyservice.DocumentWithVersions, error)
	ListRecentAuditEvents(ctx context.Context, since time.Time, limit int) ([]policyservice.AuditWithRefs, error)
}

// Service renders the governance overview report.
type Service struct {
	moderation ModerationReader
	policy     PolicyReader
	cache      *ReportCache
	logger     *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithCache installs the Redis report cache.
func WithCache(cache *ReportCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithLogger installs the logger used for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the overview service.
func New(moderation ModerationReader, policy PolicyReader, opts ...Option) (*Service, error) {
	if moderation == nil {
		return nil, errors.New("moderation reader is required")
	}
	if policy == nil {
		return nil, errors.New("policy reader is required")
	}
	s := &Service{
		moderation: moderation,
		policy:     policy,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetOverview composes the report from four independent reads, run
// concurrently. Any empty sub-result produces an empty section, never a
// failure; a sub-fetch error fails the whole report.
func (s *Service) GetOverview(ctx context.Context, params Params) (*Report, error) {
	params = params.withDefaults()

	if cached, ok := s.cache.Get(ctx, params); ok {
		return cached, nil
	}

	now := requestcontext.Now(ctx)
	since := now.AddDate(0, 0, -params.LookbackDays)

	var (
		queuePage *moderationmodels.QueuePage
		actions   []moderationservice.ActionWithSubmission
		documents []policyservice.DocumentWithVersions
		audit     []policyservice.AuditWithRefs
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.moderation.ListSubmissions(gctx, moderationmodels.ListFilter{
			Page:     1,
			PageSize: params.QueueLimit,
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load moderation queue")
		}
		queuePage = page
		return nil
	})
	g.Go(func() error {
		recent, err := s.moderation.ListRecentActions(gctx, since, params.TimelineLimit)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recent moderation actions")
		}
		actions = recent
		return nil
	})
	g.Go(func() error {
		docs, err := s.policy.ListDocuments(gctx, policymodels.DocumentFilter{IncludeVersions: true})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load legal documents")
		}
		documents = docs
		return nil
	})
	g.Go(func() error {
		events, err := s.policy.ListRecentAuditEvents(gctx, since, params.TimelineLimit)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recent audit events")
		}
		audit = events
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt:  now,
		LookbackDays: params.LookbackDays,
		LegalPolicies: LegalPolicies{
			Documents:          documentTotals(documents),
			Versions:           bucketVersions(documents),
			UpcomingEffective:  upcomingEffective(documents, params.PublicationLimit),
			RecentPublications: recentPublications(documents, params.PublicationLimit),
		},
	}
	if queuePage != nil {
		report.ContentQueue = ContentQueue{
			Summary:        queuePage.Summary,
			TopSubmissions: queuePage.Items,
		}
	}

	moderationItems := make([]ActivityItem, 0, len(actions))
	for _, entry := range actions {
		moderationItems = append(moderationItems, mapModerationActivity(entry))
	}
	policyItems := make([]ActivityItem, 0, len(audit))
	for _, entry := range audit {
		policyItems = append(policyItems, mapPolicyActivity(entry))
	}
	report.Activity = mergeActivity(moderationItems, policyItems, params.TimelineLimit)

	s.cache.Set(ctx, params, report)
	return report, nil
}
