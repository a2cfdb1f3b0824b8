// Package service implements the legal document lifecycle: document CRUD,
// per-locale version revisions, publication, document-wide activation with
// supersession, and archival. State-changing writes run in one transaction;
// document audit events are best-effort and never fail the primary write.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	policymetrics "gavel/internal/policy/metrics"
	"gavel/internal/policy/models"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// DocumentStore persists documents. Implementations must honor the
// transaction carried in ctx (see pkg/platform/tx).
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, documentID id.DocumentID) (*models.Document, error)
	FindBySlug(ctx context.Context, slug string) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error)
	Execute(ctx context.Context, documentID id.DocumentID, validate func(*models.Document) error, mutate func(*models.Document)) (*models.Document, error)
}

// VersionStore persists version revisions. Create maps a duplicate
// (document, locale, version) to sentinel.ErrConflict.
type VersionStore interface {
	Create(ctx context.Context, version *models.Version) error
	FindByID(ctx context.Context, versionID id.VersionID) (*models.Version, error)
	// ListByDocument returns versions ordered by locale ascending then
	// version number descending. Empty locale means all locales.
	ListByDocument(ctx context.Context, documentID id.DocumentID, locale string) ([]*models.Version, error)
	// NextNumber computes 1 + max(existing numbers) for the pair, or 1.
	NextNumber(ctx context.Context, documentID id.DocumentID, locale string) (int, error)
	// HasConflict reports whether another version occupies the
	// (document, locale, number) slot, excluding the given id.
	HasConflict(ctx context.Context, documentID id.DocumentID, locale string, number int, exclude id.VersionID) (bool, error)
	Execute(ctx context.Context, versionID id.VersionID, validate func(*models.Version) error, mutate func(*models.Version)) (*models.Version, error)
	// SupersedeOthers stamps supersededAt on every other published or
	// approved version of the document, across all locales, and returns
	// how many were superseded.
	SupersedeOthers(ctx context.Context, documentID id.DocumentID, except id.VersionID, now time.Time) (int, error)
}

// AuditStore persists the append-only document audit log.
type AuditStore interface {
	Append(ctx context.Context, event *models.AuditEvent) error
	ListByDocument(ctx context.Context, documentID id.DocumentID) ([]*models.AuditEvent, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]*models.AuditEvent, error)
}

// StoreTx provides the transactional boundary for multi-write operations.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DocumentWithVersions pairs a document with its (optionally loaded)
// versions for listings and the governance overview.
type DocumentWithVersions struct {
	Document *models.Document  `json:"document"`
	Versions []*models.Version `json:"versions,omitempty"`
}

// DocumentDetail is one document with whatever GetOptions asked for.
type DocumentDetail struct {
	Document *models.Document     `json:"document"`
	Versions []*models.Version    `json:"versions,omitempty"`
	Audit    []*models.AuditEvent `json:"audit,omitempty"`
}

// AuditWithRefs joins an audit event with its document and version for the
// governance overview timeline.
type AuditWithRefs struct {
	Event    *models.AuditEvent
	Document *models.Document
	Version  *models.Version
}

// Service is the policy lifecycle service.
type Service struct {
	documents DocumentStore
	versions  VersionStore
	audit     *auditRecorder
	tx        StoreTx
	metrics   *policymetrics.Metrics
	logger    *slog.Logger
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithTx installs a transactional boundary (postgres-backed in production).
func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// WithMetrics installs the policy metrics collector.
func WithMetrics(m *policymetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger installs the logger used by the best-effort audit recorder.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithStrictAudit makes audit write failures fail the primary operation.
func WithStrictAudit() Option {
	return func(s *Service) { s.audit.strict = true }
}

// New constructs the policy lifecycle service.
func New(documents DocumentStore, versions VersionStore, audit AuditStore, opts ...Option) (*Service, error) {
	if documents == nil {
		return nil, errors.New("document store is required")
	}
	if versions == nil {
		return nil, errors.New("version store is required")
	}
	if audit == nil {
		return nil, errors.New("audit store is required")
	}
	s := &Service{
		documents: documents,
		versions:  versions,
		logger:    slog.Default(),
	}
	s.audit = &auditRecorder{store: audit}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newInMemoryStoreTx()
	}
	s.audit.logger = s.logger
	s.audit.metrics = s.metrics
	return s, nil
}

// CreateDocument creates a document and, when the payload carries an initial
// version, that version in the same transaction. An initial version created
// as published immediately becomes the document's active version.
func (s *Service) CreateDocument(ctx context.Context, input models.CreateDocument, actorID string) (*DocumentDetail, error) {
	category, err := models.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	slugSource := input.Slug
	if slugSource == "" {
		slugSource = input.Title
	}
	slug := models.Slugify(slugSource)
	if slug == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "slug cannot be derived from an empty or non-alphanumeric value")
	}

	now := requestcontext.Now(ctx)
	doc, err := models.NewDocument(slug, input.Title, category, now)
	if err != nil {
		return nil, err
	}
	doc.Region = input.Region
	doc.AudienceRoles = input.AudienceRoles
	doc.EditorRoles = input.EditorRoles
	doc.Tags = input.Tags
	if input.DefaultLocale != "" {
		doc.DefaultLocale = input.DefaultLocale
	}

	// Fast-path slug check; the unique constraint remains authoritative.
	if _, err := s.documents.FindBySlug(ctx, slug); err == nil {
		return nil, dErrors.Newf(dErrors.CodeValidation, "slug %q is already in use", slug)
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check slug")
	}

	var initial *models.Version
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.documents.Create(txCtx, doc); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.Newf(dErrors.CodeValidation, "slug %q is already in use", slug)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create document")
		}
		if err := s.audit.Record(txCtx, newAuditEvent(doc.ID, nil, actorID, models.AuditDocumentCreated,
			fmt.Sprintf("document %q created", slug), now)); err != nil {
			return err
		}

		if input.InitialVersion == nil {
			return nil
		}
		version, err := s.buildVersion(txCtx, doc, *input.InitialVersion, actorID, now)
		if err != nil {
			return err
		}
		if err := s.versions.Create(txCtx, version); err != nil {
			return wrapVersionCreateErr(err, version)
		}
		if err := s.audit.Record(txCtx, newAuditEvent(doc.ID, &version.ID, actorID, models.AuditVersionCreated,
			fmt.Sprintf("version %d (%s) created", version.Version, version.Locale), now)); err != nil {
			return err
		}
		initial = version

		if version.Status != models.VersionStatusPublished {
			return nil
		}
		// Published initial versions promote the document immediately.
		doc, err = s.documents.Execute(txCtx, doc.ID, nil, func(d *models.Document) {
			d.ActiveVersionID = &version.ID
			d.PublishedAt = publicationTime(version, now)
			d.RecomputeStatus()
			d.Touch(now)
		})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to promote initial version")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncDocumentsCreated()
	if initial != nil {
		s.metrics.IncVersionsCreated()
	}

	detail := &DocumentDetail{Document: doc}
	if initial != nil {
		detail.Versions = []*models.Version{initial}
	}
	return detail, nil
}

// UpdateDocument applies a partial document update and recomputes the
// derived status.
func (s *Service) UpdateDocument(ctx context.Context, documentID id.DocumentID, patch models.UpdateDocument, actorID string) (*models.Document, error) {
	if patch.Category != nil {
		if _, err := models.ParseCategory(*patch.Category); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	var updated *models.Document
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		doc, err := s.documents.Execute(txCtx, documentID, nil, func(d *models.Document) {
			if patch.Title != nil {
				d.Title = *patch.Title
			}
			if patch.Category != nil {
				d.Category = models.Category(*patch.Category)
			}
			if patch.Region != nil {
				d.Region = *patch.Region
			}
			if patch.DefaultLocale != nil {
				d.DefaultLocale = *patch.DefaultLocale
			}
			if patch.AudienceRoles != nil {
				d.AudienceRoles = patch.AudienceRoles
			}
			if patch.EditorRoles != nil {
				d.EditorRoles = patch.EditorRoles
			}
			if patch.Tags != nil {
				d.Tags = patch.Tags
			}
			if patch.Archived != nil {
				d.Archived = *patch.Archived
			}
			d.RecomputeStatus()
			d.Touch(now)
		})
		if err != nil {
			return wrapDocumentErr(err)
		}
		if err := s.audit.Record(txCtx, newAuditEvent(doc.ID, nil, actorID, models.AuditDocumentUpdated,
			"document updated", now)); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateVersion creates the next revision for a (document, locale) pair.
// The version number defaults to one past the highest existing number; a
// duplicate slot fails with Validation whether caught by the fast path or
// the unique constraint.
func (s *Service) CreateVersion(ctx context.Context, documentID id.DocumentID, input models.VersionInput, actorID string) (*models.Version, error) {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, wrapDocumentErr(err)
	}

	now := requestcontext.Now(ctx)
	var created *models.Version
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		version, err := s.buildVersion(txCtx, doc, input, actorID, now)
		if err != nil {
			return err
		}
		if err := s.versions.Create(txCtx, version); err != nil {
			return wrapVersionCreateErr(err, version)
		}
		if err := s.audit.Record(txCtx, newAuditEvent(doc.ID, &version.ID, actorID, models.AuditVersionCreated,
			fmt.Sprintf("version %d (%s) created", version.Version, version.Locale), now)); err != nil {
			return err
		}
		created = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncVersionsCreated()
	return created, nil
}

// UpdateVersion applies a partial version update. A changed version number
// is checked for conflicts against sibling revisions, excluding self.
func (s *Service) UpdateVersion(ctx context.Context, versionID id.VersionID, patch models.VersionUpdate, actorID string) (*models.Version, error) {
	var newStatus *models.VersionStatus
	if patch.Status != nil {
		status, err := models.ParseVersionStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		newStatus = &status
	}
	if patch.Version != nil && *patch.Version < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "version number must be at least 1")
	}

	now := requestcontext.Now(ctx)
	var updated *models.Version
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.versions.FindByID(txCtx, versionID)
		if err != nil {
			return wrapVersionErr(err)
		}
		if patch.Version != nil && *patch.Version != current.Version {
			conflict, err := s.versions.HasConflict(txCtx, current.DocumentID, current.Locale, *patch.Version, current.ID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check version conflict")
			}
			if conflict {
				return dErrors.Newf(dErrors.CodeValidation, "version %d already exists for locale %s", *patch.Version, current.Locale)
			}
		}

		version, err := s.versions.Execute(txCtx, versionID, nil,
			func(v *models.Version) {
				if patch.Version != nil {
					v.Version = *patch.Version
				}
				if newStatus != nil {
					v.Status = *newStatus
				}
				if patch.Content != nil {
					v.Content = *patch.Content
				}
				if patch.ExternalURL != nil {
					v.ExternalURL = *patch.ExternalURL
				}
				if patch.Summary != nil {
					v.Summary = *patch.Summary
				}
				if patch.ChangeSummary != nil {
					v.ChangeSummary = *patch.ChangeSummary
				}
				if patch.EffectiveAt != nil {
					v.EffectiveAt = patch.EffectiveAt
				}
				v.Touch(now)
			})
		if err != nil {
			return wrapVersionErr(err)
		}
		if err := s.audit.Record(txCtx, newAuditEvent(version.DocumentID, &version.ID, actorID, models.AuditVersionUpdated,
			fmt.Sprintf("version %d (%s) updated", version.Version, version.Locale), now)); err != nil {
			return err
		}
		updated = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PublishVersion marks a version published and stamps publication fields.
// An explicit EffectiveAt in the input wins; otherwise an unset effective
// time defaults to now. Publication does not activate: the document's active
// pointer is untouched.
func (s *Service) PublishVersion(ctx context.Context, versionID id.VersionID, input models.PublishInput, actorID string) (*models.Version, error) {
	now := requestcontext.Now(ctx)
	var published *models.Version
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		version, err := s.versions.Execute(txCtx, versionID,
			func(v *models.Version) error {
				if v.Status == models.VersionStatusArchived {
					return dErrors.New(dErrors.CodeValidation, "archived versions cannot be published")
				}
				return nil
			},
			func(v *models.Version) {
				v.Status = models.VersionStatusPublished
				v.PublishedAt = &now
				v.PublishedBy = actorID
				if input.EffectiveAt != nil {
					v.EffectiveAt = input.EffectiveAt
				} else if v.EffectiveAt == nil {
					v.EffectiveAt = &now
				}
				v.Touch(now)
			})
		if err != nil {
			return wrapVersionErr(err)
		}
		if err := s.audit.Record(txCtx, newAuditEvent(version.DocumentID, &version.ID, actorID, models.AuditVersionPublished,
			fmt.Sprintf("version %d (%s) published", version.Version, version.Locale), now)); err != nil {
			return err
		}
		published = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransitions("publish")
	return published, nil
}

// ActivateVersion makes a published or approved version the document's
// single active version. In the same transaction every other published or
// approved version of the document, across all locales, is superseded. The
// mutated document is returned with its full version list so the caller sees
// the new active pointer and the superseded siblings.
func (s *Service) ActivateVersion(ctx context.Context, versionID id.VersionID, actorID string) (*DocumentDetail, error) {
	now := requestcontext.Now(ctx)
	var activated *models.Version
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		version, err := s.versions.Execute(txCtx, versionID,
			func(v *models.Version) error {
				if !v.CanActivate() {
					return dErrors.Newf(dErrors.CodeValidation,
						"version in status %q cannot be activated", v.Status)
				}
				return nil
			},
			func(v *models.Version) {
				v.Touch(now)
			})
		if err != nil {
			return wrapVersionErr(err)
		}

		if _, err := s.documents.Execute(txCtx, version.DocumentID, nil, func(d *models.Document) {
			d.ActiveVersionID = &version.ID
			d.PublishedAt = publicationTime(version, now)
			d.RecomputeStatus()
			d.Touch(now)
		}); err != nil {
			return wrapDocumentErr(err)
		}

		if _, err := s.versions.SupersedeOthers(txCtx, version.DocumentID, version.ID, now); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to supersede sibling versions")
		}

		if err := s.audit.Record(txCtx, newAuditEvent(version.DocumentID, &version.ID, actorID, models.AuditVersionActivated,
			fmt.Sprintf("version %d (%s) activated", version.Version, version.Locale), now)); err != nil {
			return err
		}
		activated = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransitions("activate")
	return s.GetDocument(ctx, activated.DocumentID.String(), models.GetOptions{IncludeVersions: true})
}

// ArchiveVersion archives a version. Archiving the document's active version
// clears the active pointer, recomputes the document status, and stamps
// retiredAt. An optional reason lands on the audit trail.
func (s *Service) ArchiveVersion(ctx context.Context, versionID id.VersionID, input models.ArchiveInput, actorID string) (*models.Version, error) {
	now := requestcontext.Now(ctx)
	var archived *models.Version
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		version, err := s.versions.Execute(txCtx, versionID, nil, func(v *models.Version) {
			v.Status = models.VersionStatusArchived
			v.Touch(now)
		})
		if err != nil {
			return wrapVersionErr(err)
		}

		if _, err := s.documents.Execute(txCtx, version.DocumentID, nil, func(d *models.Document) {
			if d.ActiveVersionID != nil && *d.ActiveVersionID == version.ID {
				d.ActiveVersionID = nil
				d.RetiredAt = &now
			}
			d.RecomputeStatus()
			d.Touch(now)
		}); err != nil {
			return wrapDocumentErr(err)
		}

		note := fmt.Sprintf("version %d (%s) archived", version.Version, version.Locale)
		if input.Reason != "" {
			note += ": " + input.Reason
		}
		if err := s.audit.Record(txCtx, newAuditEvent(version.DocumentID, &version.ID, actorID, models.AuditVersionArchived, note, now)); err != nil {
			return err
		}
		archived = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTransitions("archive")
	return archived, nil
}

// ListDocuments lists documents, optionally with their versions eager-loaded
// (locale-filtered, ordered by locale then version descending).
func (s *Service) ListDocuments(ctx context.Context, filter models.DocumentFilter) ([]DocumentWithVersions, error) {
	if filter.Category != "" {
		if _, err := models.ParseCategory(filter.Category); err != nil {
			return nil, err
		}
	}
	if filter.Status != "" {
		switch models.DocumentStatus(filter.Status) {
		case models.DocumentStatusDraft, models.DocumentStatusActive, models.DocumentStatusArchived:
		default:
			return nil, dErrors.Newf(dErrors.CodeValidation, "unknown document status %q", filter.Status)
		}
	}

	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}

	result := make([]DocumentWithVersions, 0, len(docs))
	for _, doc := range docs {
		entry := DocumentWithVersions{Document: doc}
		if filter.IncludeVersions {
			versions, err := s.versions.ListByDocument(ctx, doc.ID, filter.Locale)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load versions")
			}
			entry.Versions = versions
		}
		result = append(result, entry)
	}
	return result, nil
}

// GetDocument loads one document by id or slug, with optional version and
// audit inclusion.
func (s *Service) GetDocument(ctx context.Context, ref string, opts models.GetOptions) (*DocumentDetail, error) {
	doc, err := s.findByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	detail := &DocumentDetail{Document: doc}
	if opts.IncludeVersions {
		versions, err := s.versions.ListByDocument(ctx, doc.ID, opts.Locale)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load versions")
		}
		detail.Versions = versions
	}
	if opts.IncludeAudit {
		events, err := s.audit.store.ListByDocument(ctx, doc.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit events")
		}
		detail.Audit = events
	}
	return detail, nil
}

// ListRecentAuditEvents returns audit events since the given time, newest
// first, joined with their document and version. Consumed by the governance
// overview.
func (s *Service) ListRecentAuditEvents(ctx context.Context, since time.Time, limit int) ([]AuditWithRefs, error) {
	events, err := s.audit.store.ListSince(ctx, since, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recent audit events")
	}
	if len(events) == 0 {
		return nil, nil
	}

	docs := make(map[id.DocumentID]*models.Document)
	versions := make(map[id.VersionID]*models.Version)
	joined := make([]AuditWithRefs, 0, len(events))
	for _, event := range events {
		entry := AuditWithRefs{Event: event}

		doc, ok := docs[event.DocumentID]
		if !ok {
			doc, err = s.documents.FindByID(ctx, event.DocumentID)
			if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document for audit event")
			}
			docs[event.DocumentID] = doc
		}
		entry.Document = doc

		if event.VersionID != nil {
			version, ok := versions[*event.VersionID]
			if !ok {
				version, err = s.versions.FindByID(ctx, *event.VersionID)
				if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
					return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load version for audit event")
				}
				versions[*event.VersionID] = version
			}
			entry.Version = version
		}
		joined = append(joined, entry)
	}
	return joined, nil
}

// buildVersion resolves locale, number, and status for a new revision.
func (s *Service) buildVersion(ctx context.Context, doc *models.Document, input models.VersionInput, actorID string, now time.Time) (*models.Version, error) {
	locale := input.Locale
	if locale == "" {
		locale = doc.DefaultLocale
	}

	status := models.VersionStatusDraft
	if input.Status != nil {
		parsed, err := models.ParseVersionStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	number := 0
	if input.Version != nil {
		number = *input.Version
	} else {
		next, err := s.versions.NextNumber(ctx, doc.ID, locale)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute next version number")
		}
		number = next
	}

	version, err := models.NewVersion(doc.ID, locale, number, status, now)
	if err != nil {
		return nil, err
	}
	version.Content = input.Content
	version.ExternalURL = input.ExternalURL
	version.Summary = input.Summary
	version.ChangeSummary = input.ChangeSummary
	version.EffectiveAt = input.EffectiveAt
	version.CreatedBy = actorID

	if status == models.VersionStatusPublished {
		version.PublishedAt = &now
		version.PublishedBy = actorID
		if version.EffectiveAt == nil {
			version.EffectiveAt = &now
		}
	}
	return version, nil
}

func (s *Service) findByRef(ctx context.Context, ref string) (*models.Document, error) {
	if documentID, err := id.ParseDocumentID(ref); err == nil {
		doc, err := s.documents.FindByID(ctx, documentID)
		if err != nil {
			return nil, wrapDocumentErr(err)
		}
		return doc, nil
	}
	doc, err := s.documents.FindBySlug(ctx, ref)
	if err != nil {
		return nil, wrapDocumentErr(err)
	}
	return doc, nil
}

// publicationTime picks the document-level publishedAt stamp for an
// activation: the version's effective time, then its publication time,
// then now.
func publicationTime(version *models.Version, now time.Time) *time.Time {
	if version.EffectiveAt != nil {
		return version.EffectiveAt
	}
	if version.PublishedAt != nil {
		return version.PublishedAt
	}
	return &now
}

func newAuditEvent(documentID id.DocumentID, versionID *id.VersionID, actorID string, event models.AuditEventType, summary string, now time.Time) *models.AuditEvent {
	return &models.AuditEvent{
		ID:         id.NewAuditEventID(),
		DocumentID: documentID,
		VersionID:  versionID,
		ActorID:    actorID,
		Event:      event,
		Summary:    summary,
		CreatedAt:  now,
	}
}

func wrapVersionCreateErr(err error, version *models.Version) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Newf(dErrors.CodeValidation,
			"version %d already exists for locale %s", version.Version, version.Locale)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create version")
}

func wrapDocumentErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "document not found")
	}
	if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeValidation) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "document store failure")
}

func wrapVersionErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "version not found")
	}
	if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeValidation) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "version store failure")
}
