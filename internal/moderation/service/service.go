// Package service implements the moderation queue: ranked listing, status
// transitions, assignment, and the action audit trail. Every status-changing
// write and its audit row are applied in one transaction; an action row
// that cannot be written fails the whole operation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	moderationmetrics "gavel/internal/moderation/metrics"
	"gavel/internal/moderation/models"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// SubmissionStore persists submissions. Implementations must honor the
// transaction carried in ctx (see pkg/platform/tx) so multi-write operations
// stay atomic.
type SubmissionStore interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, submissionID id.SubmissionID) (*models.Submission, error)
	FindByIDs(ctx context.Context, ids []id.SubmissionID) (map[id.SubmissionID]*models.Submission, error)
	// List returns one ranked page matching the filter plus the total match
	// count for pagination.
	List(ctx context.Context, filter models.ListFilter) ([]*models.Submission, int, error)
	// Summarize computes grouped counts over the same filtered predicate the
	// listing uses.
	Summarize(ctx context.Context, filter models.ListFilter) (models.QueueSummary, error)
	// Execute atomically loads, validates, mutates, and persists one
	// submission. Postgres implementations hold a row lock for the duration.
	Execute(ctx context.Context, submissionID id.SubmissionID, validate func(*models.Submission) error, mutate func(*models.Submission)) (*models.Submission, error)
}

// ActionStore persists the append-only action log.
type ActionStore interface {
	Append(ctx context.Context, action *models.Action) error
	ListBySubmission(ctx context.Context, submissionID id.SubmissionID) ([]*models.Action, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]*models.Action, error)
}

// StoreTx provides the transactional boundary for multi-write operations.
// The postgres implementation begins a database transaction and carries it
// in the callback context; the in-memory implementation takes a coarse lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActionRecord pairs a created action with the refreshed submission.
type ActionRecord struct {
	Action     *models.Action     `json:"action"`
	Submission *models.Submission `json:"submission"`
}

// SubmissionDetail is a submission with its full action history, newest first.
type SubmissionDetail struct {
	Submission *models.Submission `json:"submission"`
	Actions    []*models.Action   `json:"actions"`
}

// ActionWithSubmission joins an action with its parent submission for the
// governance overview timeline.
type ActionWithSubmission struct {
	Action     *models.Action
	Submission *models.Submission
}

// Service is the moderation queue service.
type Service struct {
	submissions SubmissionStore
	actions     ActionStore
	tx          StoreTx
	metrics     *moderationmetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithTx installs a transactional boundary (postgres-backed in production).
func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// WithMetrics installs the moderation metrics collector.
func WithMetrics(m *moderationmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the moderation queue service.
func New(submissions SubmissionStore, actions ActionStore, opts ...Option) (*Service, error) {
	if submissions == nil {
		return nil, errors.New("submission store is required")
	}
	if actions == nil {
		return nil, errors.New("action store is required")
	}
	s := &Service{submissions: submissions, actions: actions}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newInMemoryStoreTx()
	}
	return s, nil
}

// CreateSubmission registers new content for review with status pending.
func (s *Service) CreateSubmission(ctx context.Context, input models.CreateSubmission) (*models.Submission, error) {
	now := requestcontext.Now(ctx)
	submission, err := models.NewSubmission(input.ReferenceID, input.ReferenceType, input.Title, now)
	if err != nil {
		return nil, err
	}
	submission.Summary = input.Summary
	submission.Region = input.Region
	submission.Metadata = input.Metadata

	if input.Priority != nil {
		priority, err := models.ParsePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		submission.Priority = priority
	}
	if input.Severity != nil {
		severity, err := models.ParseSeverity(*input.Severity)
		if err != nil {
			return nil, err
		}
		submission.Severity = severity
	}
	if input.RiskScore != nil {
		if err := models.ValidateRiskScore(*input.RiskScore); err != nil {
			return nil, err
		}
		submission.RiskScore = *input.RiskScore
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create submission")
	}
	s.metrics.IncSubmissionsCreated()
	return submission, nil
}

// ListSubmissions returns one ranked page of the queue: priority weight
// descending, severity weight descending, oldest first on ties. The summary
// counts are computed over the same filtered predicate.
func (s *Service) ListSubmissions(ctx context.Context, filter models.ListFilter) (*models.QueuePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 25
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	items, total, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list submissions")
	}
	summary, err := s.submissions.Summarize(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to summarize submissions")
	}

	totalPages := total / filter.PageSize
	if total%filter.PageSize != 0 {
		totalPages++
	}
	return &models.QueuePage{
		Items: items,
		Pagination: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			Total:      total,
			TotalPages: totalPages,
		},
		Summary: summary,
	}, nil
}

// GetSubmission fetches one submission with its full action history,
// newest first.
func (s *Service) GetSubmission(ctx context.Context, submissionID id.SubmissionID) (*SubmissionDetail, error) {
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, wrapSubmissionErr(err)
	}
	actions, err := s.actions.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load actions")
	}
	return &SubmissionDetail{Submission: submission, Actions: actions}, nil
}

// UpdateStatus applies a validated partial update. A no-op patch returns the
// submission unchanged and logs nothing. A transition into approved,
// rejected, or needs_changes writes exactly one matching action row in the
// same transaction as the status change.
func (s *Service) UpdateStatus(ctx context.Context, submissionID id.SubmissionID, patch models.StatusUpdate, actorID string) (*models.Submission, error) {
	if patch.Empty() {
		submission, err := s.submissions.FindByID(ctx, submissionID)
		if err != nil {
			return nil, wrapSubmissionErr(err)
		}
		return submission, nil
	}

	parsed, err := parseStatusUpdate(patch)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var updated *models.Submission
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		submission, err := s.submissions.Execute(txCtx, submissionID, nil, func(sub *models.Submission) {
			applyStatusUpdate(sub, parsed, patch)
			sub.Touch(now)
		})
		if err != nil {
			return wrapSubmissionErr(err)
		}

		if parsed.status != nil {
			if actionType, ok := models.ActionForStatus(*parsed.status); ok {
				action := &models.Action{
					ID:           id.NewActionID(),
					SubmissionID: submission.ID,
					ActorID:      actorID,
					Action:       actionType,
					Severity:     submission.Severity,
					RiskScore:    submission.RiskScore,
					Reason:       transitionReason(submission),
					CreatedAt:    now,
				}
				if err := s.actions.Append(txCtx, action); err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record moderation action")
				}
				s.metrics.IncActionsRecorded(string(actionType))
			}
		}
		updated = submission
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncStatusUpdates()
	return updated, nil
}

// Assign sets or clears the reviewer and team. Even a degenerate assignment
// with both fields empty logs one assign action.
func (s *Service) Assign(ctx context.Context, submissionID id.SubmissionID, assignment models.Assignment, actorID string) (*models.Submission, error) {
	now := requestcontext.Now(ctx)
	var updated *models.Submission
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		submission, err := s.submissions.Execute(txCtx, submissionID, nil, func(sub *models.Submission) {
			sub.AssignedReviewerID = assignment.ReviewerID
			sub.AssignedTeam = assignment.Team
			sub.Touch(now)
		})
		if err != nil {
			return wrapSubmissionErr(err)
		}

		action := &models.Action{
			ID:           id.NewActionID(),
			SubmissionID: submission.ID,
			ActorID:      actorID,
			Action:       models.ActionAssign,
			Severity:     submission.Severity,
			RiskScore:    submission.RiskScore,
			Reason:       assignmentReason(assignment),
			CreatedAt:    now,
		}
		if err := s.actions.Append(txCtx, action); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record assign action")
		}
		s.metrics.IncActionsRecorded(string(models.ActionAssign))
		updated = submission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RecordAction appends one action row and, when the payload also carries a
// submission patch, applies it in the same transaction. The risk score and
// activity timestamp are always refreshed, even to their existing values.
func (s *Service) RecordAction(ctx context.Context, submissionID id.SubmissionID, input models.ActionInput, actorID string) (*ActionRecord, error) {
	actionType, err := models.ParseActionType(input.Action)
	if err != nil {
		return nil, err
	}
	parsed, err := parseActionPatch(input)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	var record *ActionRecord
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		submission, err := s.submissions.Execute(txCtx, submissionID, nil, func(sub *models.Submission) {
			if parsed.status != nil {
				sub.Status = *parsed.status
			}
			if parsed.priority != nil {
				sub.Priority = *parsed.priority
			}
			if parsed.severity != nil {
				sub.Severity = *parsed.severity
			}
			if input.SLAMinutes != nil {
				sub.SLAMinutes = input.SLAMinutes
			}
			// Risk score is always rewritten; without an override it keeps
			// its current value but still lands in the UPDATE.
			if input.RiskScore != nil {
				sub.RiskScore = *input.RiskScore
			}
			sub.Touch(now)
		})
		if err != nil {
			return wrapSubmissionErr(err)
		}

		severity := submission.Severity
		if parsed.severity != nil {
			severity = *parsed.severity
		}
		riskScore := submission.RiskScore
		if input.RiskScore != nil {
			riskScore = *input.RiskScore
		}

		action := &models.Action{
			ID:                id.NewActionID(),
			SubmissionID:      submission.ID,
			ActorID:           actorID,
			Action:            actionType,
			Severity:          severity,
			RiskScore:         riskScore,
			Reason:            input.Reason,
			GuidanceLink:      input.GuidanceLink,
			ResolutionSummary: input.ResolutionSummary,
			Metadata:          input.Metadata,
			CreatedAt:         now,
		}
		if err := s.actions.Append(txCtx, action); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record moderation action")
		}
		s.metrics.IncActionsRecorded(string(actionType))
		record = &ActionRecord{Action: action, Submission: submission}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListActions returns all actions for a submission, newest first. The
// submission must exist.
func (s *Service) ListActions(ctx context.Context, submissionID id.SubmissionID) ([]*models.Action, error) {
	if _, err := s.submissions.FindByID(ctx, submissionID); err != nil {
		return nil, wrapSubmissionErr(err)
	}
	actions, err := s.actions.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load actions")
	}
	return actions, nil
}

// ListRecentActions returns actions since the given time, newest first,
// joined with their submissions. Consumed by the governance overview.
func (s *Service) ListRecentActions(ctx context.Context, since time.Time, limit int) ([]ActionWithSubmission, error) {
	actions, err := s.actions.ListSince(ctx, since, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recent actions")
	}
	if len(actions) == 0 {
		return nil, nil
	}

	seen := make(map[id.SubmissionID]bool)
	var ids []id.SubmissionID
	for _, action := range actions {
		if !seen[action.SubmissionID] {
			seen[action.SubmissionID] = true
			ids = append(ids, action.SubmissionID)
		}
	}
	submissions, err := s.submissions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submissions for actions")
	}

	joined := make([]ActionWithSubmission, 0, len(actions))
	for _, action := range actions {
		joined = append(joined, ActionWithSubmission{
			Action:     action,
			Submission: submissions[action.SubmissionID],
		})
	}
	return joined, nil
}

// parsedUpdate carries the typed results of validating a StatusUpdate.
type parsedUpdate struct {
	status   *models.Status
	priority *models.Priority
	severity *models.Severity
}

func parseStatusUpdate(patch models.StatusUpdate) (parsedUpdate, error) {
	var parsed parsedUpdate
	if patch.Status != nil {
		status, err := models.ParseStatus(*patch.Status)
		if err != nil {
			return parsed, err
		}
		parsed.status = &status
	}
	if patch.Priority != nil {
		priority, err := models.ParsePriority(*patch.Priority)
		if err != nil {
			return parsed, err
		}
		parsed.priority = &priority
	}
	if patch.Severity != nil {
		severity, err := models.ParseSeverity(*patch.Severity)
		if err != nil {
			return parsed, err
		}
		parsed.severity = &severity
	}
	if patch.RiskScore != nil {
		if err := models.ValidateRiskScore(*patch.RiskScore); err != nil {
			return parsed, err
		}
	}
	return parsed, nil
}

func parseActionPatch(input models.ActionInput) (parsedUpdate, error) {
	return parseStatusUpdate(models.StatusUpdate{
		Status:    input.Status,
		Priority:  input.Priority,
		Severity:  input.Severity,
		RiskScore: input.RiskScore,
	})
}

func applyStatusUpdate(sub *models.Submission, parsed parsedUpdate, patch models.StatusUpdate) {
	if parsed.status != nil {
		sub.Status = *parsed.status
	}
	if parsed.priority != nil {
		sub.Priority = *parsed.priority
	}
	if parsed.severity != nil {
		sub.Severity = *parsed.severity
	}
	if patch.RiskScore != nil {
		sub.RiskScore = *patch.RiskScore
	}
	if patch.AssignedReviewerID != nil {
		sub.AssignedReviewerID = patch.AssignedReviewerID
	}
	if patch.AssignedTeam != nil {
		sub.AssignedTeam = patch.AssignedTeam
	}
	if patch.RejectionReason != nil {
		sub.RejectionReason = patch.RejectionReason
	}
	if patch.ResolutionNotes != nil {
		sub.ResolutionNotes = patch.ResolutionNotes
	}
	if len(patch.Metadata) > 0 {
		sub.Metadata = patch.Metadata
	}
}

// transitionReason sources the action reason from the rejection reason,
// falling back to resolution notes.
func transitionReason(sub *models.Submission) string {
	if sub.RejectionReason != nil && *sub.RejectionReason != "" {
		return *sub.RejectionReason
	}
	if sub.ResolutionNotes != nil && *sub.ResolutionNotes != "" {
		return *sub.ResolutionNotes
	}
	return ""
}

func assignmentReason(assignment models.Assignment) string {
	switch {
	case assignment.ReviewerID != nil && assignment.Team != nil:
		return fmt.Sprintf("assigned to reviewer %s on team %s", *assignment.ReviewerID, *assignment.Team)
	case assignment.ReviewerID != nil:
		return fmt.Sprintf("assigned to reviewer %s", *assignment.ReviewerID)
	case assignment.Team != nil:
		return fmt.Sprintf("assigned to team %s", *assignment.Team)
	default:
		return "assignment cleared"
	}
}

func validateFilter(filter models.ListFilter) error {
	if filter.Status != "" {
		if _, err := models.ParseStatus(filter.Status); err != nil {
			return err
		}
	}
	if filter.Priority != "" {
		if _, err := models.ParsePriority(filter.Priority); err != nil {
			return err
		}
	}
	if filter.Severity != "" {
		if _, err := models.ParseSeverity(filter.Severity); err != nil {
			return err
		}
	}
	return nil
}

func wrapSubmissionErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "submission not found")
	}
	if dErrors.HasCode(err, dErrors.CodeNotFound) || dErrors.HasCode(err, dErrors.CodeValidation) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "submission store failure")
}
