package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/legalsift/docsift/internal/core/domain"
)

type DocumentRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101601)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	case_id TEXT NOT NULL DEFAULT '',
	filename TEXT NOT NULL,
	format TEXT NOT NULL,
	mime_type TEXT NOT NULL DEFAULT '',
	size_bytes BIGINT NOT NULL DEFAULT 0,
	storage_url TEXT NOT NULL,
	storage_id TEXT NOT NULL,
	document_type TEXT NOT NULL,
	extracted_text TEXT NOT NULL DEFAULT '',
	analysis JSONB,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	shared_with JSONB NOT NULL DEFAULT '[]'::jsonb,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_owner_active ON documents(owner_id, is_active, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_documents_case ON documents(case_id) WHERE case_id <> '';
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const documentColumns = `id, owner_id, case_id, filename, format, mime_type, size_bytes, storage_url, storage_id,
	document_type, extracted_text, analysis, tags, shared_with, is_active, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	tagsJSON, err := marshalList(doc.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	sharesJSON, err := marshalList(doc.SharedWith)
	if err != nil {
		return fmt.Errorf("marshal shares: %w", err)
	}
	var analysisJSON []byte
	if doc.Analysis != nil {
		if analysisJSON, err = json.Marshal(doc.Analysis); err != nil {
			return fmt.Errorf("marshal analysis: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
`,
		doc.ID, doc.OwnerID, doc.CaseID, doc.Filename, string(doc.Format), doc.MimeType, doc.Size,
		doc.StorageURL, doc.StorageID, string(doc.DocumentType), doc.ExtractedText, analysisJSON,
		tagsJSON, sharesJSON, doc.IsActive, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetActiveByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1 AND is_active
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("document %s", id))
		}
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) ListActiveByOwner(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Document, int, error) {
	filter = filter.Normalize()

	var total int
	if err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM documents
WHERE owner_id = $1 AND is_active
	AND ($2 = '' OR document_type = $2)
	AND ($3 = '' OR case_id = $3)
`, ownerID, string(filter.DocumentType), filter.CaseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE owner_id = $1 AND is_active
	AND ($2 = '' OR document_type = $2)
	AND ($3 = '' OR case_id = $3)
ORDER BY created_at DESC, id DESC
LIMIT $4 OFFSET $5
`, ownerID, string(filter.DocumentType), filter.CaseID, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0, filter.Limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, total, nil
}

func (r *DocumentRepository) SaveAnalysis(ctx context.Context, id string, analysis domain.Analysis) error {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET analysis = $2, updated_at = $3
WHERE id = $1 AND is_active
`, id, raw, r.now())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return requireAffected(res, "save analysis", id)
}

func (r *DocumentRepository) SaveShares(ctx context.Context, id string, shares []domain.Share) error {
	raw, err := marshalList(shares)
	if err != nil {
		return fmt.Errorf("marshal shares: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET shared_with = $2, updated_at = $3
WHERE id = $1 AND is_active
`, id, raw, r.now())
	if err != nil {
		return fmt.Errorf("save shares: %w", err)
	}
	return requireAffected(res, "save shares", id)
}

func (r *DocumentRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET is_active = FALSE, updated_at = $2
WHERE id = $1 AND is_active
`, id, r.now())
	if err != nil {
		return fmt.Errorf("soft delete document: %w", err)
	}
	return requireAffected(res, "soft delete document", id)
}

func (r *DocumentRepository) SoftDeleteByCase(ctx context.Context, ownerID, caseID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET is_active = FALSE, updated_at = $3
WHERE case_id = $1 AND owner_id = $2 AND is_active
`, caseID, ownerID, r.now())
	if err != nil {
		return 0, fmt.Errorf("soft delete case documents: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc          domain.Document
		format       string
		documentType string
		analysisRaw  []byte
		tagsRaw      []byte
		sharesRaw    []byte
	)
	err := row.Scan(
		&doc.ID, &doc.OwnerID, &doc.CaseID, &doc.Filename, &format, &doc.MimeType, &doc.Size,
		&doc.StorageURL, &doc.StorageID, &documentType, &doc.ExtractedText, &analysisRaw,
		&tagsRaw, &sharesRaw, &doc.IsActive, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Format = domain.FileFormat(format)
	doc.DocumentType = domain.DocumentType(documentType)

	if len(analysisRaw) > 0 && string(analysisRaw) != "null" {
		var a domain.Analysis
		if err := json.Unmarshal(analysisRaw, &a); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		doc.Analysis = &a
	}
	doc.Tags = []string{}
	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &doc.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	doc.SharedWith = []domain.Share{}
	if len(sharesRaw) > 0 {
		if err := json.Unmarshal(sharesRaw, &doc.SharedWith); err != nil {
			return nil, fmt.Errorf("unmarshal shares: %w", err)
		}
	}
	return &doc, nil
}

func requireAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("document %s", id))
	}
	return nil
}

// marshalList encodes nil slices as [] so JSONB columns never hold null.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
