package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/legalsift/docsift/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	repo := NewDocumentRepository(db)
	return repo, mock, func() { _ = db.Close() }
}

var documentColumnNames = []string{
	"id", "owner_id", "case_id", "filename", "format", "mime_type", "size_bytes", "storage_url", "storage_id",
	"document_type", "extracted_text", "analysis", "tags", "shared_with", "is_active", "created_at", "updated_at",
}

func TestGetActiveByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, owner_id, case_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetActiveByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetActiveByIDDecodesJSONColumns(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	analysis := domain.Analysis{
		RiskAssessment: domain.RiskAssessment{
			RiskScore:      20,
			Summary:        "Standard termination clause",
			KeyTerms:       []string{"termination"},
			FlaggedClauses: []domain.FlaggedClause{{ClauseText: "30 days", RiskLevel: domain.RiskLow}},
			Confidence:     90,
		},
		IsAnalyzed: true,
		AnalyzedAt: created,
		Language:   "en",
		Outcome:    domain.OutcomeParsed,
	}
	analysisJSON, _ := json.Marshal(analysis)

	mock.ExpectQuery("SELECT id, owner_id, case_id").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(documentColumnNames).AddRow(
			"doc-1", "user-1", "", "terms.txt", "txt", "text/plain", int64(54), "/files/doc-1", "doc-1_terms.txt",
			"agreement", "This agreement may be terminated with 30 days notice.", analysisJSON,
			[]byte(`["lease"]`), []byte(`[{"userId":"lawyer-7","permission":"edit","sharedAt":"2026-10-02T00:00:00Z"}]`),
			true, created, created,
		))

	doc, err := repo.GetActiveByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetActiveByID() error = %v", err)
	}
	if doc.Format != domain.FormatTXT || doc.DocumentType != domain.DocumentTypeAgreement {
		t.Fatalf("unexpected enums %s/%s", doc.Format, doc.DocumentType)
	}
	if !doc.IsAnalyzed() || doc.Analysis.RiskScore != 20 || doc.Analysis.FlaggedClauses[0].ClauseText != "30 days" {
		t.Fatalf("unexpected analysis %+v", doc.Analysis)
	}
	if len(doc.Tags) != 1 || len(doc.SharedWith) != 1 || doc.SharedWith[0].Permission != domain.PermissionEdit {
		t.Fatalf("unexpected tags/shares %+v %+v", doc.Tags, doc.SharedWith)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetActiveByIDWithoutAnalysis(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, owner_id, case_id").
		WithArgs("doc-2").
		WillReturnRows(sqlmock.NewRows(documentColumnNames).AddRow(
			"doc-2", "user-1", "case-1", "scan.png", "png", "image/png", int64(10), "/files/x", "x",
			"other", "", nil, []byte(`[]`), []byte(`[]`), true, now, now,
		))

	doc, err := repo.GetActiveByID(context.Background(), "doc-2")
	if err != nil {
		t.Fatalf("GetActiveByID() error = %v", err)
	}
	if doc.Analysis != nil || doc.IsAnalyzed() {
		t.Fatalf("expected no analysis, got %+v", doc.Analysis)
	}
}

func TestCreateInsertsEmptyListsAsJSONArrays(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	doc := &domain.Document{
		ID: "doc-1", OwnerID: "user-1", Filename: "a.txt", Format: domain.FormatTXT, Size: 1,
		StorageURL: "/files/a", StorageID: "a", DocumentType: domain.DocumentTypeOther,
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectExec("INSERT INTO documents").
		WithArgs("doc-1", "user-1", "", "a.txt", "txt", "", int64(1), "/files/a", "a", "other", "",
			sqlmock.AnyArg(), []byte("[]"), []byte("[]"), true, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveAnalysisReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveAnalysis(context.Background(), "missing", domain.Analysis{IsAnalyzed: true})
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSoftDeleteReturnsDomainNotFoundWhenAlreadyInactive(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SoftDelete(context.Background(), "doc-1"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestSoftDeleteByCaseReturnsAffectedRows(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("case-1", "owner-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.SoftDeleteByCase(context.Background(), "owner-1", "case-1")
	if err != nil {
		t.Fatalf("SoftDeleteByCase() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 affected rows, got %d", n)
	}
}

func TestSaveSharesUpdatesJSON(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	shares := []domain.Share{{UserID: "u2", Permission: domain.PermissionRead}}
	raw, _ := json.Marshal(shares)
	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", raw, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveShares(context.Background(), "doc-1", shares); err != nil {
		t.Fatalf("SaveShares() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListActiveByOwnerAppliesFilterAndPaging(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1", "lease", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery("SELECT id, owner_id, case_id").
		WithArgs("user-1", "lease", "", 5, 5).
		WillReturnRows(sqlmock.NewRows(documentColumnNames).AddRow(
			"doc-9", "user-1", "", "lease.pdf", "pdf", "application/pdf", int64(100), "/f", "s",
			"lease", "text", nil, []byte(`[]`), []byte(`[]`), true, now, now,
		))

	docs, total, err := repo.ListActiveByOwner(context.Background(), "user-1", domain.ListFilter{
		DocumentType: domain.DocumentTypeLease,
		Page:         2,
		Limit:        5,
	})
	if err != nil {
		t.Fatalf("ListActiveByOwner() error = %v", err)
	}
	if total != 11 || len(docs) != 1 || docs[0].ID != "doc-9" {
		t.Fatalf("unexpected result total=%d docs=%+v", total, docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
