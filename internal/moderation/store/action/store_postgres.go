package action

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gavel/internal/moderation/models"
	id "gavel/pkg/domain"
	txcontext "gavel/pkg/platform/tx"
)

// Postgres persists moderation actions as an append-only log.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const actionColumns = `
	id, submission_id, actor_id, actor_type, action,
	severity, risk_score, reason, guidance_link, resolution_summary,
	metadata, created_at
`

func (s *Postgres) Append(ctx context.Context, action *models.Action) error {
	var metadata []byte
	if action.Metadata != nil {
		raw, err := json.Marshal(action.Metadata)
		if err != nil {
			return fmt.Errorf("marshal action metadata: %w", err)
		}
		metadata = raw
	}
	query := `
		INSERT INTO moderation_actions (` + actionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(action.ID),
		uuid.UUID(action.SubmissionID),
		action.ActorID,
		action.ActorType,
		string(action.Action),
		string(action.Severity),
		action.RiskScore,
		action.Reason,
		action.GuidanceLink,
		action.ResolutionSummary,
		metadata,
		action.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

func (s *Postgres) ListBySubmission(ctx context.Context, submissionID id.SubmissionID) ([]*models.Action, error) {
	query := `
		SELECT ` + actionColumns + `
		FROM moderation_actions
		WHERE submission_id = $1
		ORDER BY created_at DESC
	`
	return s.queryActions(ctx, query, uuid.UUID(submissionID))
}

func (s *Postgres) ListSince(ctx context.Context, since time.Time, limit int) ([]*models.Action, error) {
	query := `
		SELECT ` + actionColumns + `
		FROM moderation_actions
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return s.queryActions(ctx, query, since, limit)
}

func (s *Postgres) queryActions(ctx context.Context, query string, args ...any) ([]*models.Action, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.Action
	for rows.Next() {
		var (
			action       models.Action
			actionID     uuid.UUID
			submissionID uuid.UUID
			metadata     []byte
		)
		err := rows.Scan(
			&actionID,
			&submissionID,
			&action.ActorID,
			&action.ActorType,
			&action.Action,
			&action.Severity,
			&action.RiskScore,
			&action.Reason,
			&action.GuidanceLink,
			&action.ResolutionSummary,
			&metadata,
			&action.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		action.ID = id.ActionID(actionID)
		action.SubmissionID = id.SubmissionID(submissionID)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &action.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal action metadata: %w", err)
			}
		}
		actions = append(actions, &action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return actions, nil
}
