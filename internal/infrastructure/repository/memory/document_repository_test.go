package memory

import (
	"context"
	"testing"
	"time"

	"github.com/legalsift/docsift/internal/core/domain"
)

func seed(t *testing.T, repo *DocumentRepository, id, owner, caseID string, created time.Time) {
	t.Helper()
	doc := &domain.Document{
		ID:           id,
		OwnerID:      owner,
		CaseID:       caseID,
		Filename:     id + ".txt",
		Format:       domain.FormatTXT,
		DocumentType: domain.DocumentTypeContract,
		Tags:         []string{"a"},
		SharedWith:   []domain.Share{},
		IsActive:     true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	repo := NewDocumentRepository()
	seed(t, repo, "d1", "u1", "", time.Now())

	err := repo.Create(context.Background(), &domain.Document{ID: "d1"})
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSoftDeleteHidesDocument(t *testing.T) {
	repo := NewDocumentRepository()
	seed(t, repo, "d1", "u1", "", time.Now())

	if err := repo.SoftDelete(context.Background(), "d1"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if _, err := repo.GetActiveByID(context.Background(), "d1"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found after soft delete, got %v", err)
	}
	if err := repo.SoftDelete(context.Background(), "d1"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found on second soft delete, got %v", err)
	}
	docs, total, err := repo.ListActiveByOwner(context.Background(), "u1", domain.ListFilter{})
	if err != nil {
		t.Fatalf("ListActiveByOwner() error = %v", err)
	}
	if total != 0 || len(docs) != 0 {
		t.Fatalf("expected no active docs, got total=%d len=%d", total, len(docs))
	}
}

func TestListActiveByOwnerPagesNewestFirst(t *testing.T) {
	repo := NewDocumentRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, repo, "d1", "u1", "c1", base)
	seed(t, repo, "d2", "u1", "c1", base.Add(time.Hour))
	seed(t, repo, "d3", "u1", "c2", base.Add(2*time.Hour))
	seed(t, repo, "other", "u2", "c1", base.Add(3*time.Hour))

	docs, total, err := repo.ListActiveByOwner(context.Background(), "u1", domain.ListFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("ListActiveByOwner() error = %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(docs) != 2 || docs[0].ID != "d3" || docs[1].ID != "d2" {
		t.Fatalf("unexpected first page: %+v", docs)
	}

	docs, _, err = repo.ListActiveByOwner(context.Background(), "u1", domain.ListFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListActiveByOwner() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d1" {
		t.Fatalf("unexpected second page: %+v", docs)
	}

	docs, total, err = repo.ListActiveByOwner(context.Background(), "u1", domain.ListFilter{CaseID: "c1"})
	if err != nil {
		t.Fatalf("ListActiveByOwner() error = %v", err)
	}
	if total != 2 || len(docs) != 2 {
		t.Fatalf("expected 2 docs in case c1, got %d", total)
	}
}

func TestSoftDeleteByCase(t *testing.T) {
	repo := NewDocumentRepository()
	seed(t, repo, "d1", "u1", "c1", time.Now())
	seed(t, repo, "d2", "u2", "c1", time.Now())
	seed(t, repo, "d3", "u1", "c2", time.Now())
	seed(t, repo, "d4", "u1", "c1", time.Now())

	n, err := repo.SoftDeleteByCase(context.Background(), "u1", "c1")
	if err != nil {
		t.Fatalf("SoftDeleteByCase() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 affected, got %d", n)
	}
	for _, id := range []string{"d2", "d3"} {
		if _, err := repo.GetActiveByID(context.Background(), id); err != nil {
			t.Fatalf("expected %s to stay active, got %v", id, err)
		}
	}
	for _, id := range []string{"d1", "d4"} {
		if _, err := repo.GetActiveByID(context.Background(), id); !domain.IsKind(err, domain.ErrDocumentNotFound) {
			t.Fatalf("expected %s to be deleted, got %v", id, err)
		}
	}
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	repo := NewDocumentRepository()
	seed(t, repo, "d1", "u1", "", time.Now())

	doc, err := repo.GetActiveByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetActiveByID() error = %v", err)
	}
	doc.Tags[0] = "mutated"
	doc.IsActive = false

	again, err := repo.GetActiveByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetActiveByID() error = %v", err)
	}
	if again.Tags[0] != "a" {
		t.Fatalf("stored document was mutated through returned copy")
	}
}

func TestSaveAnalysisOverwrites(t *testing.T) {
	repo := NewDocumentRepository()
	seed(t, repo, "d1", "u1", "", time.Now())

	first := domain.Analysis{RiskAssessment: domain.RiskAssessment{RiskScore: 10}, IsAnalyzed: true}
	second := domain.Analysis{RiskAssessment: domain.RiskAssessment{RiskScore: 80}, IsAnalyzed: true}
	if err := repo.SaveAnalysis(context.Background(), "d1", first); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := repo.SaveAnalysis(context.Background(), "d1", second); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	doc, _ := repo.GetActiveByID(context.Background(), "d1")
	if doc.Analysis == nil || doc.Analysis.RiskScore != 80 {
		t.Fatalf("expected second analysis, got %+v", doc.Analysis)
	}
	if err := repo.SaveAnalysis(context.Background(), "missing", first); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
