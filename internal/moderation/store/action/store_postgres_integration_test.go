//go:build integration

package action_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gavel/internal/moderation/models"
	"gavel/internal/moderation/store/action"
	"gavel/internal/moderation/store/submission"
	id "gavel/pkg/domain"
	"gavel/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres    *containers.PostgresContainer
	store       *action.Postgres
	submissions *submission.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = action.NewPostgres(s.postgres.DB)
	s.submissions = submission.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) createSubmission(ref string) *models.Submission {
	sub, err := models.NewSubmission(ref, "listing", "Listing "+ref, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.submissions.Create(context.Background(), sub))
	return sub
}

func (s *PostgresStoreSuite) newAction(submissionID id.SubmissionID, actionType models.ActionType, createdAt time.Time) *models.Action {
	return &models.Action{
		ID:           id.NewActionID(),
		SubmissionID: submissionID,
		ActorID:      "reviewer-1",
		ActorType:    "human",
		Action:       actionType,
		Severity:     models.SeverityLow,
		Reason:       "routine",
		Metadata:     map[string]any{"channel": "queue"},
		CreatedAt:    createdAt,
	}
}

func (s *PostgresStoreSuite) TestAppendAndListBySubmission() {
	ctx := context.Background()
	sub := s.createSubmission("REF-1")
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := s.newAction(sub.ID, models.ActionAssign, base)
	second := s.newAction(sub.ID, models.ActionApprove, base.Add(time.Minute))
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	actions, err := s.store.ListBySubmission(ctx, sub.ID)
	s.Require().NoError(err)
	s.Require().Len(actions, 2)
	s.Equal(models.ActionApprove, actions[0].Action)
	s.Equal(models.ActionAssign, actions[1].Action)
	s.Equal("queue", actions[0].Metadata["channel"])
}

func (s *PostgresStoreSuite) TestListBySubmissionEmptyIsOK() {
	sub := s.createSubmission("REF-EMPTY")
	actions, err := s.store.ListBySubmission(context.Background(), sub.ID)
	s.Require().NoError(err)
	s.Empty(actions)
}

func (s *PostgresStoreSuite) TestListSinceHonorsCutoffAndLimit() {
	ctx := context.Background()
	sub := s.createSubmission("REF-SINCE")
	base := time.Now().UTC().Truncate(time.Millisecond)

	old := s.newAction(sub.ID, models.ActionAddNote, base.Add(-48*time.Hour))
	recent := s.newAction(sub.ID, models.ActionEscalate, base.Add(-time.Hour))
	newest := s.newAction(sub.ID, models.ActionApprove, base)
	for _, a := range []*models.Action{old, recent, newest} {
		s.Require().NoError(s.store.Append(ctx, a))
	}

	actions, err := s.store.ListSince(ctx, base.Add(-24*time.Hour), 10)
	s.Require().NoError(err)
	s.Require().Len(actions, 2)
	s.Equal(models.ActionApprove, actions[0].Action)
	s.Equal(models.ActionEscalate, actions[1].Action)

	limited, err := s.store.ListSince(ctx, base.Add(-24*time.Hour), 1)
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal(models.ActionApprove, limited[0].Action)
}
