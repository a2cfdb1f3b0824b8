package version

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"gavel/internal/policy/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
	txcontext "gavel/pkg/platform/tx"
)

const uniqueViolation = "23505"

// Postgres persists version revisions in PostgreSQL. The
// (document_id, locale, version) unique constraint is the authoritative
// duplicate-slot signal.
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

const versionColumns = `
	id, document_id, locale, version, status,
	content, external_url, summary, change_summary,
	effective_at, published_at, published_by, superseded_at,
	created_by, created_at, updated_at
`

func (s *Postgres) Create(ctx context.Context, version *models.Version) error {
	query := `
		INSERT INTO legal_document_versions (` + versionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(version.ID),
		uuid.UUID(version.DocumentID),
		version.Locale,
		version.Version,
		string(version.Status),
		version.Content,
		version.ExternalURL,
		version.Summary,
		version.ChangeSummary,
		version.EffectiveAt,
		version.PublishedAt,
		version.PublishedBy,
		version.SupersededAt,
		version.CreatedBy,
		version.CreatedAt,
		version.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, versionID id.VersionID) (*models.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM legal_document_versions WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(versionID))
	version, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find version: %w", err)
	}
	return version, nil
}

func (s *Postgres) ListByDocument(ctx context.Context, documentID id.DocumentID, locale string) ([]*models.Version, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM legal_document_versions
		WHERE document_id = $1
	`
	args := []any{uuid.UUID(documentID)}
	if locale != "" {
		query += ` AND locale = $2`
		args = append(args, locale)
	}
	query += ` ORDER BY locale ASC, version DESC`

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []*models.Version
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return versions, nil
}

func (s *Postgres) NextNumber(ctx context.Context, documentID id.DocumentID, locale string) (int, error) {
	query := `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM legal_document_versions
		WHERE document_id = $1 AND locale = $2
	`
	var next int
	if err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(documentID), locale).Scan(&next); err != nil {
		return 0, fmt.Errorf("next version number: %w", err)
	}
	return next, nil
}

func (s *Postgres) HasConflict(ctx context.Context, documentID id.DocumentID, locale string, number int, exclude id.VersionID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM legal_document_versions
			WHERE document_id = $1 AND locale = $2 AND version = $3 AND id <> $4
		)
	`
	var conflict bool
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(documentID), locale, number, uuid.UUID(exclude)).Scan(&conflict)
	if err != nil {
		return false, fmt.Errorf("check version conflict: %w", err)
	}
	return conflict, nil
}

// Execute atomically loads, validates, mutates, and persists one version,
// holding a FOR UPDATE row lock for the duration.
func (s *Postgres) Execute(ctx context.Context, versionID id.VersionID, validate func(*models.Version) error, mutate func(*models.Version)) (*models.Version, error) {
	if tx, ok := txcontext.From(ctx); ok {
		return s.executeIn(ctx, tx, versionID, validate, mutate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin version tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	version, err := s.executeIn(ctx, tx, versionID, validate, mutate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit version tx: %w", err)
	}
	return version, nil
}

func (s *Postgres) executeIn(ctx context.Context, tx *sql.Tx, versionID id.VersionID, validate func(*models.Version) error, mutate func(*models.Version)) (*models.Version, error) {
	query := `SELECT ` + versionColumns + ` FROM legal_document_versions WHERE id = $1 FOR UPDATE`
	row := tx.QueryRowContext(ctx, query, uuid.UUID(versionID))
	version, err := scanVersion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock version: %w", err)
	}

	if validate != nil {
		if err := validate(version); err != nil {
			return nil, err
		}
	}
	mutate(version)

	update := `
		UPDATE legal_document_versions SET
			locale = $2, version = $3, status = $4, content = $5,
			external_url = $6, summary = $7, change_summary = $8,
			effective_at = $9, published_at = $10, published_by = $11,
			superseded_at = $12, updated_at = $13
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, update,
		uuid.UUID(version.ID),
		version.Locale,
		version.Version,
		string(version.Status),
		version.Content,
		version.ExternalURL,
		version.Summary,
		version.ChangeSummary,
		version.EffectiveAt,
		version.PublishedAt,
		version.PublishedBy,
		version.SupersededAt,
		version.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update version: %w", err)
	}
	return version, nil
}

// SupersedeOthers stamps supersededAt on every other published or approved
// version of the document, across all locales.
func (s *Postgres) SupersedeOthers(ctx context.Context, documentID id.DocumentID, except id.VersionID, now time.Time) (int, error) {
	query := `
		UPDATE legal_document_versions
		SET superseded_at = $3, updated_at = $3
		WHERE document_id = $1
		  AND id <> $2
		  AND superseded_at IS NULL
		  AND status IN ('published', 'approved')
	`
	result, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(documentID), uuid.UUID(except), now)
	if err != nil {
		return 0, fmt.Errorf("supersede versions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("supersede versions: %w", err)
	}
	return int(affected), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*models.Version, error) {
	var (
		version    models.Version
		rawID      uuid.UUID
		documentID uuid.UUID
	)
	err := row.Scan(
		&rawID,
		&documentID,
		&version.Locale,
		&version.Version,
		&version.Status,
		&version.Content,
		&version.ExternalURL,
		&version.Summary,
		&version.ChangeSummary,
		&version.EffectiveAt,
		&version.PublishedAt,
		&version.PublishedBy,
		&version.SupersededAt,
		&version.CreatedBy,
		&version.CreatedAt,
		&version.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	version.ID = id.VersionID(rawID)
	version.DocumentID = id.DocumentID(documentID)
	return &version, nil
}
