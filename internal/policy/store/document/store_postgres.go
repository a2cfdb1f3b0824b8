package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"gavel/internal/policy/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
	txcontext "gavel/pkg/platform/tx"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// Postgres persists documents in PostgreSQL. The slug unique constraint is
// the authoritative uniqueness signal; service-level pre-checks are only a
// fast path.
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

const documentColumns = `
	id, slug, title, category, status, region, default_locale,
	audience_roles, editor_roles, tags,
	active_version_id, archived, published_at, retired_at,
	created_at, updated_at
`

func (s *Postgres) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO legal_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(doc.ID),
		doc.Slug,
		doc.Title,
		string(doc.Category),
		string(doc.Status),
		doc.Region,
		doc.DefaultLocale,
		joinRoles(doc.AudienceRoles),
		joinRoles(doc.EditorRoles),
		joinRoles(doc.Tags),
		versionIDOrNil(doc.ActiveVersionID),
		doc.Archived,
		doc.PublishedAt,
		doc.RetiredAt,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, documentID id.DocumentID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM legal_documents WHERE id = $1`
	return s.findOne(ctx, query, uuid.UUID(documentID))
}

func (s *Postgres) FindBySlug(ctx context.Context, slug string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM legal_documents WHERE slug = $1`
	return s.findOne(ctx, query, slug)
}

func (s *Postgres) findOne(ctx context.Context, query string, arg any) (*models.Document, error) {
	row := s.execer(ctx).QueryRowContext(ctx, query, arg)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

func (s *Postgres) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
	var clauses []string
	var args []any
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	query := `SELECT ` + documentColumns + ` FROM legal_documents`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, slug ASC"

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Execute atomically loads, validates, mutates, and persists one document,
// holding a FOR UPDATE row lock for the duration.
func (s *Postgres) Execute(ctx context.Context, documentID id.DocumentID, validate func(*models.Document) error, mutate func(*models.Document)) (*models.Document, error) {
	if tx, ok := txcontext.From(ctx); ok {
		return s.executeIn(ctx, tx, documentID, validate, mutate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin document tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	doc, err := s.executeIn(ctx, tx, documentID, validate, mutate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit document tx: %w", err)
	}
	return doc, nil
}

func (s *Postgres) executeIn(ctx context.Context, tx *sql.Tx, documentID id.DocumentID, validate func(*models.Document) error, mutate func(*models.Document)) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM legal_documents WHERE id = $1 FOR UPDATE`
	row := tx.QueryRowContext(ctx, query, uuid.UUID(documentID))
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock document: %w", err)
	}

	if validate != nil {
		if err := validate(doc); err != nil {
			return nil, err
		}
	}
	mutate(doc)

	update := `
		UPDATE legal_documents SET
			title = $2, category = $3, status = $4, region = $5,
			default_locale = $6, audience_roles = $7, editor_roles = $8,
			tags = $9, active_version_id = $10, archived = $11,
			published_at = $12, retired_at = $13, updated_at = $14
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, update,
		uuid.UUID(doc.ID),
		doc.Title,
		string(doc.Category),
		string(doc.Status),
		doc.Region,
		doc.DefaultLocale,
		joinRoles(doc.AudienceRoles),
		joinRoles(doc.EditorRoles),
		joinRoles(doc.Tags),
		versionIDOrNil(doc.ActiveVersionID),
		doc.Archived,
		doc.PublishedAt,
		doc.RetiredAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc           models.Document
		rawID         uuid.UUID
		audienceRoles sql.NullString
		editorRoles   sql.NullString
		tags          sql.NullString
		activeVersion uuid.NullUUID
	)
	err := row.Scan(
		&rawID,
		&doc.Slug,
		&doc.Title,
		&doc.Category,
		&doc.Status,
		&doc.Region,
		&doc.DefaultLocale,
		&audienceRoles,
		&editorRoles,
		&tags,
		&activeVersion,
		&doc.Archived,
		&doc.PublishedAt,
		&doc.RetiredAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.ID = id.DocumentID(rawID)
	doc.AudienceRoles = splitRoles(audienceRoles)
	doc.EditorRoles = splitRoles(editorRoles)
	doc.Tags = splitRoles(tags)
	if activeVersion.Valid {
		versionID := id.VersionID(activeVersion.UUID)
		doc.ActiveVersionID = &versionID
	}
	return &doc, nil
}

// Role and tag lists are stored as comma-joined text. Values never contain
// commas; they are role slugs and tag keywords.
func joinRoles(values []string) sql.NullString {
	if len(values) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(values, ","), Valid: true}
}

func splitRoles(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return strings.Split(raw.String, ",")
}

func versionIDOrNil(versionID *id.VersionID) any {
	if versionID == nil {
		return nil
	}
	return uuid.UUID(*versionID)
}
