package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gavel/internal/policy/models"
	auditStore "gavel/internal/policy/store/audit"
	documentStore "gavel/internal/policy/store/document"
	versionStore "gavel/internal/policy/store/version"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	documents *documentStore.InMemory
	versions  *versionStore.InMemory
	audit     *auditStore.InMemory
	service   *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.documents = documentStore.NewInMemory()
	s.versions = versionStore.NewInMemory()
	s.audit = auditStore.NewInMemory()

	var err error
	s.service, err = New(s.documents, s.versions, s.audit)
	s.Require().NoError(err)
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func (s *ServiceSuite) createDocument(ctx context.Context, title string) *models.Document {
	detail, err := s.service.CreateDocument(ctx, models.CreateDocument{
		Title:    title,
		Category: "privacy",
	}, "legal-1")
	s.Require().NoError(err)
	return detail.Document
}

func (s *ServiceSuite) TestCreateDocument() {
	ctx := context.Background()

	s.Run("slug derived from title", func() {
		detail, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Title:    "Privacy Policy",
			Category: "privacy",
		}, "legal-1")
		s.Require().NoError(err)
		s.Equal("privacy-policy", detail.Document.Slug)
		s.Equal(models.DocumentStatusDraft, detail.Document.Status)
		s.Equal("en", detail.Document.DefaultLocale)
	})

	s.Run("explicit slug is normalized", func() {
		detail, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Slug:     "Seller Terms (EU)",
			Title:    "Seller Terms",
			Category: "seller_agreement",
		}, "legal-1")
		s.Require().NoError(err)
		s.Equal("seller-terms-eu", detail.Document.Slug)
	})

	s.Run("duplicate slug fails validation", func() {
		_, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Title:    "Privacy Policy",
			Category: "privacy",
		}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown category fails validation", func() {
		_, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Title:    "Something",
			Category: "memes",
		}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("non-derivable slug fails validation", func() {
		_, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Title:    "!!!",
			Category: "other",
		}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("document creation records an audit event", func() {
		detail, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Title:    "Cookie Policy",
			Category: "cookies",
		}, "legal-1")
		s.Require().NoError(err)

		events, err := s.audit.ListByDocument(ctx, detail.Document.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(models.AuditDocumentCreated, events[0].Event)
		s.Equal("legal-1", events[0].ActorID)
	})
}

func (s *ServiceSuite) TestCreateDocumentWithInitialVersion() {
	ctx := context.Background()

	s.Run("draft initial version does not promote", func() {
		detail, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Title:          "Community Guidelines",
			Category:       "community_guidelines",
			InitialVersion: &models.VersionInput{Content: "be nice"},
		}, "legal-1")
		s.Require().NoError(err)
		s.Require().Len(detail.Versions, 1)
		s.Equal(models.VersionStatusDraft, detail.Versions[0].Status)
		s.Equal(1, detail.Versions[0].Version)
		s.Equal("en", detail.Versions[0].Locale)
		s.Nil(detail.Document.ActiveVersionID)
		s.Equal(models.DocumentStatusDraft, detail.Document.Status)
	})

	s.Run("published initial version promotes the document", func() {
		detail, err := s.service.CreateDocument(ctx, models.CreateDocument{
			Title:    "Compliance Charter",
			Category: "compliance",
			InitialVersion: &models.VersionInput{
				Content: "charter text",
				Status:  strPtr("published"),
			},
		}, "legal-1")
		s.Require().NoError(err)
		s.Require().Len(detail.Versions, 1)
		s.Require().NotNil(detail.Document.ActiveVersionID)
		s.Equal(detail.Versions[0].ID, *detail.Document.ActiveVersionID)
		s.Equal(models.DocumentStatusActive, detail.Document.Status)
		s.NotNil(detail.Versions[0].PublishedAt)

		// Both document and version creation are audited.
		events, err := s.audit.ListByDocument(ctx, detail.Document.ID)
		s.Require().NoError(err)
		s.Len(events, 2)
	})
}

func (s *ServiceSuite) TestCreateVersion() {
	ctx := context.Background()
	doc := s.createDocument(ctx, "Terms of Service")

	s.Run("numbers are monotone per locale", func() {
		v1, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)
		s.Equal(1, v1.Version)

		v2, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)
		s.Equal(2, v2.Version)

		// Another locale numbers independently.
		de1, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "de"}, "legal-1")
		s.Require().NoError(err)
		s.Equal(1, de1.Version)
	})

	s.Run("locale defaults to the document default", func() {
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{}, "legal-1")
		s.Require().NoError(err)
		s.Equal("en", version.Locale)
		s.Equal(3, version.Version)
	})

	s.Run("explicit duplicate slot fails validation", func() {
		_, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{
			Locale:  "en",
			Version: intPtr(1),
		}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown status fails validation", func() {
		_, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{
			Status: strPtr("shipped"),
		}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing document returns not found", func() {
		_, err := s.service.CreateVersion(ctx, id.NewDocumentID(), models.VersionInput{}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdateVersion() {
	ctx := context.Background()
	doc := s.createDocument(ctx, "Refund Policy")
	v1, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
	s.Require().NoError(err)
	v2, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
	s.Require().NoError(err)

	s.Run("content update", func() {
		updated, err := s.service.UpdateVersion(ctx, v1.ID, models.VersionUpdate{
			Content: strPtr("revised text"),
		}, "legal-1")
		s.Require().NoError(err)
		s.Equal("revised text", updated.Content)
	})

	s.Run("renumbering onto an occupied slot fails validation", func() {
		_, err := s.service.UpdateVersion(ctx, v2.ID, models.VersionUpdate{
			Version: intPtr(1),
		}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("keeping the own number is not a conflict", func() {
		updated, err := s.service.UpdateVersion(ctx, v2.ID, models.VersionUpdate{
			Version: intPtr(2),
			Summary: strPtr("unchanged number"),
		}, "legal-1")
		s.Require().NoError(err)
		s.Equal(2, updated.Version)
	})

	s.Run("renumbering onto a free slot succeeds", func() {
		updated, err := s.service.UpdateVersion(ctx, v2.ID, models.VersionUpdate{
			Version: intPtr(7),
		}, "legal-1")
		s.Require().NoError(err)
		s.Equal(7, updated.Version)
	})
}

func (s *ServiceSuite) TestPublishVersion() {
	ctx := context.Background()
	doc := s.createDocument(ctx, "Data Processing Addendum")

	s.Run("publish stamps fields and defaults effectiveAt", func() {
		now := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)

		published, err := s.service.PublishVersion(requestcontext.WithTime(ctx, now), version.ID, models.PublishInput{}, "legal-2")
		s.Require().NoError(err)
		s.Equal(models.VersionStatusPublished, published.Status)
		s.Require().NotNil(published.PublishedAt)
		s.Equal(now, *published.PublishedAt)
		s.Equal("legal-2", published.PublishedBy)
		s.Require().NotNil(published.EffectiveAt)
		s.Equal(now, *published.EffectiveAt)

		// Publication does not activate.
		detail, err := s.service.GetDocument(ctx, doc.ID.String(), models.GetOptions{})
		s.Require().NoError(err)
		s.Nil(detail.Document.ActiveVersionID)
	})

	s.Run("explicit effectiveAt is preserved", func() {
		effective := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{
			Locale:      "en",
			EffectiveAt: &effective,
		}, "legal-1")
		s.Require().NoError(err)

		published, err := s.service.PublishVersion(ctx, version.ID, models.PublishInput{}, "legal-2")
		s.Require().NoError(err)
		s.Require().NotNil(published.EffectiveAt)
		s.Equal(effective, *published.EffectiveAt)
	})

	s.Run("payload effectiveAt overrides the stored one", func() {
		stored := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		override := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{
			Locale:      "en",
			EffectiveAt: &stored,
		}, "legal-1")
		s.Require().NoError(err)

		published, err := s.service.PublishVersion(ctx, version.ID, models.PublishInput{EffectiveAt: &override}, "legal-2")
		s.Require().NoError(err)
		s.Require().NotNil(published.EffectiveAt)
		s.Equal(override, *published.EffectiveAt)
	})

	s.Run("archived version cannot be published", func() {
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "de"}, "legal-1")
		s.Require().NoError(err)
		_, err = s.service.ArchiveVersion(ctx, version.ID, models.ArchiveInput{}, "legal-1")
		s.Require().NoError(err)

		_, err = s.service.PublishVersion(ctx, version.ID, models.PublishInput{}, "legal-2")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// TestLifecycleScenario walks the full publish-activate-supersede flow:
// v1 goes live, v2 replaces it, and the document always has exactly one
// active version.
func (s *ServiceSuite) TestLifecycleScenario() {
	ctx := context.Background()

	detail, err := s.service.CreateDocument(ctx, models.CreateDocument{
		Slug:     "privacy-policy",
		Title:    "Privacy Policy",
		Category: "privacy",
	}, "legal-1")
	s.Require().NoError(err)
	doc := detail.Document

	v1, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
	s.Require().NoError(err)
	s.Equal(models.VersionStatusDraft, v1.Status)

	v1, err = s.service.PublishVersion(ctx, v1.ID, models.PublishInput{}, "legal-1")
	s.Require().NoError(err)
	s.NotNil(v1.PublishedAt)

	activated, err := s.service.ActivateVersion(ctx, v1.ID, "legal-1")
	s.Require().NoError(err)
	s.Equal(models.DocumentStatusActive, activated.Document.Status)
	s.Require().NotNil(activated.Document.ActiveVersionID)
	s.Equal(v1.ID, *activated.Document.ActiveVersionID)

	v2, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
	s.Require().NoError(err)
	s.Equal(2, v2.Version)
	_, err = s.service.PublishVersion(ctx, v2.ID, models.PublishInput{}, "legal-1")
	s.Require().NoError(err)

	// Activation hands back the mutated document with its versions, so the
	// caller sees the new pointer and the superseded sibling in one response.
	got, err := s.service.ActivateVersion(ctx, v2.ID, "legal-1")
	s.Require().NoError(err)
	s.Require().NotNil(got.Document.ActiveVersionID)
	s.Equal(v2.ID, *got.Document.ActiveVersionID)
	s.Require().Len(got.Versions, 2)

	var supersededCount int
	for _, version := range got.Versions {
		if version.ID == v1.ID {
			s.NotNil(version.SupersededAt)
		}
		if version.SupersededAt != nil {
			supersededCount++
		}
	}
	s.Equal(1, supersededCount)
}

// Activation is document-wide: a sibling in another locale is superseded
// too, so only one locale's text is live per document.
func (s *ServiceSuite) TestActivateSupersedesAcrossLocales() {
	ctx := context.Background()
	doc := s.createDocument(ctx, "Marketplace Terms")

	en, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
	s.Require().NoError(err)
	de, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "de"}, "legal-1")
	s.Require().NoError(err)

	_, err = s.service.PublishVersion(ctx, en.ID, models.PublishInput{}, "legal-1")
	s.Require().NoError(err)
	_, err = s.service.PublishVersion(ctx, de.ID, models.PublishInput{}, "legal-1")
	s.Require().NoError(err)

	_, err = s.service.ActivateVersion(ctx, en.ID, "legal-1")
	s.Require().NoError(err)

	deAfter, err := s.versions.FindByID(ctx, de.ID)
	s.Require().NoError(err)
	s.NotNil(deAfter.SupersededAt)

	// A superseded version can no longer be activated.
	_, err = s.service.ActivateVersion(ctx, de.ID, "legal-1")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestActivateVersion() {
	ctx := context.Background()
	doc := s.createDocument(ctx, "Shipping Policy")

	s.Run("draft version cannot be activated", func() {
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)

		_, err = s.service.ActivateVersion(ctx, version.ID, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("approved version can be activated without publication", func() {
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{
			Locale: "en",
			Status: strPtr("approved"),
		}, "legal-1")
		s.Require().NoError(err)

		_, err = s.service.ActivateVersion(ctx, version.ID, "legal-1")
		s.Require().NoError(err)

		detail, err := s.service.GetDocument(ctx, doc.ID.String(), models.GetOptions{})
		s.Require().NoError(err)
		s.Equal(models.DocumentStatusActive, detail.Document.Status)
	})

	s.Run("missing version returns not found", func() {
		_, err := s.service.ActivateVersion(ctx, id.NewVersionID(), "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestArchiveVersion() {
	ctx := context.Background()

	s.Run("archiving the active version clears the pointer and retires", func() {
		now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		tctx := requestcontext.WithTime(ctx, now)
		doc := s.createDocument(tctx, "Returns Policy")

		version, err := s.service.CreateVersion(tctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)
		_, err = s.service.PublishVersion(tctx, version.ID, models.PublishInput{}, "legal-1")
		s.Require().NoError(err)
		_, err = s.service.ActivateVersion(tctx, version.ID, "legal-1")
		s.Require().NoError(err)

		archived, err := s.service.ArchiveVersion(tctx, version.ID, models.ArchiveInput{}, "legal-1")
		s.Require().NoError(err)
		s.Equal(models.VersionStatusArchived, archived.Status)

		detail, err := s.service.GetDocument(tctx, doc.ID.String(), models.GetOptions{})
		s.Require().NoError(err)
		s.Nil(detail.Document.ActiveVersionID)
		s.Equal(models.DocumentStatusDraft, detail.Document.Status)
		s.Require().NotNil(detail.Document.RetiredAt)
		s.Equal(now, *detail.Document.RetiredAt)
	})

	s.Run("archive reason lands on the audit trail", func() {
		doc := s.createDocument(ctx, "Cookie Policy")
		version, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)

		_, err = s.service.ArchiveVersion(ctx, version.ID, models.ArchiveInput{Reason: "superseded by rewrite"}, "legal-1")
		s.Require().NoError(err)

		events, err := s.audit.ListByDocument(ctx, doc.ID)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		s.Equal(models.AuditVersionArchived, events[0].Event)
		s.Contains(events[0].Summary, "superseded by rewrite")
	})

	s.Run("archiving a non-active version leaves the document alone", func() {
		doc := s.createDocument(ctx, "Payments Policy")
		v1, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)
		_, err = s.service.PublishVersion(ctx, v1.ID, models.PublishInput{}, "legal-1")
		s.Require().NoError(err)
		_, err = s.service.ActivateVersion(ctx, v1.ID, "legal-1")
		s.Require().NoError(err)

		v2, err := s.service.CreateVersion(ctx, doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
		s.Require().NoError(err)
		_, err = s.service.ArchiveVersion(ctx, v2.ID, models.ArchiveInput{}, "legal-1")
		s.Require().NoError(err)

		detail, err := s.service.GetDocument(ctx, doc.ID.String(), models.GetOptions{})
		s.Require().NoError(err)
		s.Require().NotNil(detail.Document.ActiveVersionID)
		s.Equal(v1.ID, *detail.Document.ActiveVersionID)
		s.Nil(detail.Document.RetiredAt)
	})
}

func (s *ServiceSuite) TestListAndGetDocuments() {
	ctx := context.Background()
	s.createDocument(ctx, "Privacy Policy")
	terms, err := s.service.CreateDocument(ctx, models.CreateDocument{
		Title:    "Terms of Service",
		Category: "terms",
		InitialVersion: &models.VersionInput{
			Locale:  "en",
			Content: "terms text",
		},
	}, "legal-1")
	s.Require().NoError(err)

	s.Run("category filter", func() {
		docs, err := s.service.ListDocuments(ctx, models.DocumentFilter{Category: "terms"})
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal(terms.Document.ID, docs[0].Document.ID)
	})

	s.Run("unknown category fails validation", func() {
		_, err := s.service.ListDocuments(ctx, models.DocumentFilter{Category: "memes"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("include versions eager-loads", func() {
		docs, err := s.service.ListDocuments(ctx, models.DocumentFilter{
			Category:        "terms",
			IncludeVersions: true,
		})
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Len(docs[0].Versions, 1)
	})

	s.Run("get by slug with audit", func() {
		detail, err := s.service.GetDocument(ctx, "terms-of-service", models.GetOptions{IncludeAudit: true})
		s.Require().NoError(err)
		s.Equal(terms.Document.ID, detail.Document.ID)
		s.Len(detail.Audit, 2)
	})

	s.Run("unknown ref returns not found", func() {
		_, err := s.service.GetDocument(ctx, "nope", models.GetOptions{})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdateDocument() {
	ctx := context.Background()
	doc := s.createDocument(ctx, "Old Title")

	s.Run("partial update", func() {
		updated, err := s.service.UpdateDocument(ctx, doc.ID, models.UpdateDocument{
			Title: strPtr("New Title"),
			Tags:  []string{"legal", "eu"},
		}, "legal-1")
		s.Require().NoError(err)
		s.Equal("New Title", updated.Title)
		s.Equal([]string{"legal", "eu"}, updated.Tags)
		s.Equal(models.DocumentStatusDraft, updated.Status)
	})

	s.Run("archiving derives archived status", func() {
		archived := true
		updated, err := s.service.UpdateDocument(ctx, doc.ID, models.UpdateDocument{
			Archived: &archived,
		}, "legal-1")
		s.Require().NoError(err)
		s.Equal(models.DocumentStatusArchived, updated.Status)
	})

	s.Run("missing document returns not found", func() {
		_, err := s.service.UpdateDocument(ctx, id.NewDocumentID(), models.UpdateDocument{}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestBestEffortAudit() {
	ctx := context.Background()

	s.Run("audit failure does not fail the transition by default", func() {
		failing := &failingAuditStore{}
		svc, err := New(s.documents, s.versions, failing)
		s.Require().NoError(err)

		detail, err := svc.CreateDocument(ctx, models.CreateDocument{
			Title:    "Best Effort",
			Category: "other",
		}, "legal-1")
		s.Require().NoError(err)
		s.NotNil(detail.Document)
	})

	s.Run("strict mode fails the transition", func() {
		failing := &failingAuditStore{}
		svc, err := New(s.documents, s.versions, failing, WithStrictAudit())
		s.Require().NoError(err)

		_, err = svc.CreateDocument(ctx, models.CreateDocument{
			Title:    "Strict Audit",
			Category: "other",
		}, "legal-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestListRecentAuditEvents() {
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	doc := s.createDocument(requestcontext.WithTime(ctx, base), "Timeline Doc")
	version, err := s.service.CreateVersion(requestcontext.WithTime(ctx, base.Add(time.Hour)), doc.ID, models.VersionInput{Locale: "en"}, "legal-1")
	s.Require().NoError(err)

	s.Run("joined with document and version, newest first", func() {
		joined, err := s.service.ListRecentAuditEvents(ctx, base, 10)
		s.Require().NoError(err)
		s.Require().Len(joined, 2)
		s.Equal(models.AuditVersionCreated, joined[0].Event.Event)
		s.Require().NotNil(joined[0].Document)
		s.Equal(doc.ID, joined[0].Document.ID)
		s.Require().NotNil(joined[0].Version)
		s.Equal(version.ID, joined[0].Version.ID)
		s.Nil(joined[1].Version)
	})

	s.Run("cutoff excludes older events", func() {
		joined, err := s.service.ListRecentAuditEvents(ctx, base.Add(30*time.Minute), 10)
		s.Require().NoError(err)
		s.Require().Len(joined, 1)
		s.Equal(models.AuditVersionCreated, joined[0].Event.Event)
	})
}

// failingAuditStore always fails Append, for exercising the strictness policy.
type failingAuditStore struct{}

func (f *failingAuditStore) Append(context.Context, *models.AuditEvent) error {
	return context.DeadlineExceeded
}

func (f *failingAuditStore) ListByDocument(context.Context, id.DocumentID) ([]*models.AuditEvent, error) {
	return nil, nil
}

func (f *failingAuditStore) ListSince(context.Context, time.Time, int) ([]*models.AuditEvent, error) {
	return nil, nil
}
