package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gavel/internal/policy/models"
	id "gavel/pkg/domain"
	txcontext "gavel/pkg/platform/tx"
)

// Postgres persists document audit events as an append-only log.
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

const auditColumns = `
	id, document_id, version_id, actor_id, event, summary, metadata, created_at
`

func (s *Postgres) Append(ctx context.Context, event *models.AuditEvent) error {
	var metadata []byte
	if event.Metadata != nil {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		metadata = raw
	}
	var versionID any
	if event.VersionID != nil {
		versionID = uuid.UUID(*event.VersionID)
	}
	query := `
		INSERT INTO document_audit_events (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(event.ID),
		uuid.UUID(event.DocumentID),
		versionID,
		event.ActorID,
		string(event.Event),
		event.Summary,
		metadata,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Postgres) ListByDocument(ctx context.Context, documentID id.DocumentID) ([]*models.AuditEvent, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM document_audit_events
		WHERE document_id = $1
		ORDER BY created_at DESC
	`
	return s.queryEvents(ctx, query, uuid.UUID(documentID))
}

func (s *Postgres) ListSince(ctx context.Context, since time.Time, limit int) ([]*models.AuditEvent, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM document_audit_events
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return s.queryEvents(ctx, query, since, limit)
}

func (s *Postgres) queryEvents(ctx context.Context, query string, args ...any) ([]*models.AuditEvent, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []*models.AuditEvent
	for rows.Next() {
		var (
			event      models.AuditEvent
			eventID    uuid.UUID
			documentID uuid.UUID
			versionID  uuid.NullUUID
			metadata   []byte
		)
		err := rows.Scan(
			&eventID,
			&documentID,
			&versionID,
			&event.ActorID,
			&event.Event,
			&event.Summary,
			&metadata,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ID = id.AuditEventID(eventID)
		event.DocumentID = id.DocumentID(documentID)
		if versionID.Valid {
			vid := id.VersionID(versionID.UUID)
			event.VersionID = &vid
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal audit metadata: %w", err)
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
