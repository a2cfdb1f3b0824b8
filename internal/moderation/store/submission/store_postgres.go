package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gavel/internal/moderation/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
	txcontext "gavel/pkg/platform/tx"
)

// Postgres persists submissions in PostgreSQL. Writes honor a transaction
// carried in the context so service-level operations stay atomic.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const submissionColumns = `
	id, reference_id, reference_type, title, summary, region,
	status, priority, severity, risk_score,
	assigned_reviewer_id, assigned_team, sla_minutes,
	metadata, rejection_reason, resolution_notes,
	submitted_at, last_activity_at
`

// rankingOrder mirrors models.RankBefore: priority weight desc, severity
// weight desc, oldest first.
const rankingOrder = `
	ORDER BY
		CASE priority WHEN 'urgent' THEN 4 WHEN 'high' THEN 3 WHEN 'standard' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC,
		CASE severity WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC,
		submitted_at ASC
`

func (s *Postgres) Create(ctx context.Context, submission *models.Submission) error {
	metadata, err := marshalMetadata(submission.Metadata)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO content_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(submission.ID),
		submission.ReferenceID,
		submission.ReferenceType,
		submission.Title,
		submission.Summary,
		submission.Region,
		string(submission.Status),
		string(submission.Priority),
		string(submission.Severity),
		submission.RiskScore,
		submission.AssignedReviewerID,
		submission.AssignedTeam,
		submission.SLAMinutes,
		metadata,
		submission.RejectionReason,
		submission.ResolutionNotes,
		submission.SubmittedAt,
		submission.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, submissionID id.SubmissionID) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM content_submissions WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(submissionID))
	submission, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return submission, nil
}

func (s *Postgres) FindByIDs(ctx context.Context, ids []id.SubmissionID) (map[id.SubmissionID]*models.Submission, error) {
	if len(ids) == 0 {
		return map[id.SubmissionID]*models.Submission{}, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, submissionID := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = uuid.UUID(submissionID)
	}
	query := `SELECT ` + submissionColumns + ` FROM content_submissions WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)`

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	defer rows.Close()

	found := make(map[id.SubmissionID]*models.Submission, len(ids))
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		found[submission.ID] = submission
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return found, nil
}

func (s *Postgres) List(ctx context.Context, filter models.ListFilter) ([]*models.Submission, int, error) {
	where, args := buildPredicate(filter)

	countQuery := `SELECT COUNT(*) FROM content_submissions` + where
	var total int
	if err := s.execer(ctx).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	limitArgs := append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	query := `SELECT ` + submissionColumns + ` FROM content_submissions` + where + rankingOrder +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := s.execer(ctx).QueryContext(ctx, query, limitArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var items []*models.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		items = append(items, submission)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate submissions: %w", err)
	}
	return items, total, nil
}

func (s *Postgres) Summarize(ctx context.Context, filter models.ListFilter) (models.QueueSummary, error) {
	where, args := buildPredicate(filter)
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('pending', 'in_review')),
			COUNT(*) FILTER (WHERE severity IN ('high', 'critical')),
			COUNT(*) FILTER (WHERE priority = 'urgent')
		FROM content_submissions` + where

	var summary models.QueueSummary
	err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(
		&summary.Total,
		&summary.AwaitingReview,
		&summary.HighSeverity,
		&summary.Urgent,
	)
	if err != nil {
		return models.QueueSummary{}, fmt.Errorf("summarize submissions: %w", err)
	}
	return summary, nil
}

// Execute atomically loads, validates, mutates, and persists one submission.
// The row is locked with FOR UPDATE for the duration; when no transaction is
// carried in ctx, one is opened around the read-modify-write.
func (s *Postgres) Execute(ctx context.Context, submissionID id.SubmissionID, validate func(*models.Submission) error, mutate func(*models.Submission)) (*models.Submission, error) {
	if tx, ok := txcontext.From(ctx); ok {
		return s.executeIn(ctx, tx, submissionID, validate, mutate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submission tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	submission, err := s.executeIn(ctx, tx, submissionID, validate, mutate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submission tx: %w", err)
	}
	return submission, nil
}

func (s *Postgres) executeIn(ctx context.Context, tx *sql.Tx, submissionID id.SubmissionID, validate func(*models.Submission) error, mutate func(*models.Submission)) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM content_submissions WHERE id = $1 FOR UPDATE`
	row := tx.QueryRowContext(ctx, query, uuid.UUID(submissionID))
	submission, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock submission: %w", err)
	}

	if validate != nil {
		if err := validate(submission); err != nil {
			return nil, err
		}
	}
	mutate(submission)

	metadata, err := marshalMetadata(submission.Metadata)
	if err != nil {
		return nil, err
	}
	update := `
		UPDATE content_submissions SET
			status = $2, priority = $3, severity = $4, risk_score = $5,
			assigned_reviewer_id = $6, assigned_team = $7, sla_minutes = $8,
			metadata = $9, rejection_reason = $10, resolution_notes = $11,
			last_activity_at = $12
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, update,
		uuid.UUID(submission.ID),
		string(submission.Status),
		string(submission.Priority),
		string(submission.Severity),
		submission.RiskScore,
		submission.AssignedReviewerID,
		submission.AssignedTeam,
		submission.SLAMinutes,
		metadata,
		submission.RejectionReason,
		submission.ResolutionNotes,
		submission.LastActivityAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	return submission, nil
}

// buildPredicate translates a filter into a WHERE clause. The same predicate
// backs both the listing and the summary so counts always match the page.
func buildPredicate(filter models.ListFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		add("priority = $%d", filter.Priority)
	}
	if filter.Severity != "" {
		add("severity = $%d", filter.Severity)
	}
	if filter.Region != "" {
		add("region = $%d", filter.Region)
	}
	if filter.AssignedTeam != "" {
		add("assigned_team = $%d", filter.AssignedTeam)
	}
	if filter.AssignedReviewerID != "" {
		add("assigned_reviewer_id = $%d", filter.AssignedReviewerID)
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(filter.Search))+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(title) LIKE $%d ESCAPE '\' OR LOWER(summary) LIKE $%d ESCAPE '\' OR LOWER(reference_id) LIKE $%d ESCAPE '\')`, n, n, n))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters so user input matches as a
// literal substring, the same contract the in-memory store implements.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		submission models.Submission
		rawID      uuid.UUID
		metadata   []byte
	)
	err := row.Scan(
		&rawID,
		&submission.ReferenceID,
		&submission.ReferenceType,
		&submission.Title,
		&submission.Summary,
		&submission.Region,
		&submission.Status,
		&submission.Priority,
		&submission.Severity,
		&submission.RiskScore,
		&submission.AssignedReviewerID,
		&submission.AssignedTeam,
		&submission.SLAMinutes,
		&metadata,
		&submission.RejectionReason,
		&submission.ResolutionNotes,
		&submission.SubmittedAt,
		&submission.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}
	submission.ID = id.SubmissionID(rawID)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &submission.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal submission metadata: %w", err)
		}
	}
	return &submission, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal submission metadata: %w", err)
	}
	return raw, nil
}
