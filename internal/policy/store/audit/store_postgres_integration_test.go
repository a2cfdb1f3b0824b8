//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gavel/internal/policy/models"
	"gavel/internal/policy/store/audit"
	"gavel/internal/policy/store/document"
	"gavel/internal/policy/store/version"
	id "gavel/pkg/domain"
	"gavel/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *audit.Postgres
	documents *document.Postgres
	versions  *version.Postgres
	doc       *models.Document
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = audit.NewPostgres(s.postgres.DB)
	s.documents = document.NewPostgres(s.postgres.DB)
	s.versions = version.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	doc, err := models.NewDocument("terms", "Terms", models.CategoryTerms, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.documents.Create(ctx, doc))
	s.doc = doc
}

func (s *PostgresStoreSuite) newEvent(event models.AuditEventType, createdAt time.Time) *models.AuditEvent {
	return &models.AuditEvent{
		ID:         id.NewAuditEventID(),
		DocumentID: s.doc.ID,
		ActorID:    "counsel-1",
		Event:      event,
		Summary:    "summary",
		Metadata:   map[string]any{"locale": "en"},
		CreatedAt:  createdAt,
	}
}

func (s *PostgresStoreSuite) TestAppendAndListByDocument() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	created := s.newEvent(models.AuditDocumentCreated, base)
	v, err := models.NewVersion(s.doc.ID, "en", 1, models.VersionStatusDraft, base)
	s.Require().NoError(err)
	v.CreatedBy = "counsel-1"
	s.Require().NoError(s.versions.Create(ctx, v))

	published := s.newEvent(models.AuditVersionPublished, base.Add(time.Minute))
	published.VersionID = &v.ID
	s.Require().NoError(s.store.Append(ctx, created))
	s.Require().NoError(s.store.Append(ctx, published))

	events, err := s.store.ListByDocument(ctx, s.doc.ID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(models.AuditVersionPublished, events[0].Event)
	s.Require().NotNil(events[0].VersionID)
	s.Equal(v.ID, *events[0].VersionID)
	s.Equal(models.AuditDocumentCreated, events[1].Event)
	s.Nil(events[1].VersionID)
	s.Equal("en", events[0].Metadata["locale"])
}

func (s *PostgresStoreSuite) TestListSinceHonorsCutoffAndLimit() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	old := s.newEvent(models.AuditDocumentCreated, base.Add(-48*time.Hour))
	recent := s.newEvent(models.AuditVersionCreated, base.Add(-time.Hour))
	newest := s.newEvent(models.AuditVersionActivated, base)
	for _, e := range []*models.AuditEvent{old, recent, newest} {
		s.Require().NoError(s.store.Append(ctx, e))
	}

	events, err := s.store.ListSince(ctx, base.Add(-24*time.Hour), 10)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(models.AuditVersionActivated, events[0].Event)

	limited, err := s.store.ListSince(ctx, base.Add(-24*time.Hour), 1)
	s.Require().NoError(err)
	s.Len(limited, 1)
}
