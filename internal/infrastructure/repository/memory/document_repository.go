// Package memory is an in-process document store for development and tests.
// Documents are lost on restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/legalsift/docsift/internal/core/domain"
)

type DocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]*domain.Document
	now  func() time.Time
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		docs: make(map[string]*domain.Document),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *DocumentRepository) Create(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.WrapError(domain.ErrInvalidInput, "create document", errors.New("document id is required"))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[doc.ID]; exists {
		return domain.WrapError(domain.ErrConflict, "create document", fmt.Errorf("document %s already exists", doc.ID))
	}
	r.docs[doc.ID] = cloneDocument(doc)
	return nil
}

func (r *DocumentRepository) GetActiveByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok || !doc.IsActive {
		return nil, notFound("get document", id)
	}
	return cloneDocument(doc), nil
}

func (r *DocumentRepository) ListActiveByOwner(_ context.Context, ownerID string, filter domain.ListFilter) ([]domain.Document, int, error) {
	filter = filter.Normalize()

	r.mu.RLock()
	matched := make([]*domain.Document, 0)
	for _, doc := range r.docs {
		if !doc.IsActive || doc.OwnerID != ownerID {
			continue
		}
		if filter.DocumentType != "" && doc.DocumentType != filter.DocumentType {
			continue
		}
		if filter.CaseID != "" && doc.CaseID != filter.CaseID {
			continue
		}
		matched = append(matched, doc)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	out := make([]domain.Document, 0, end-start)
	for _, doc := range matched[start:end] {
		out = append(out, *cloneDocument(doc))
	}
	return out, total, nil
}

func (r *DocumentRepository) SaveAnalysis(_ context.Context, id string, analysis domain.Analysis) error {
	return r.update("save analysis", id, func(doc *domain.Document) {
		doc.Analysis = cloneAnalysis(&analysis)
	})
}

func (r *DocumentRepository) SaveShares(_ context.Context, id string, shares []domain.Share) error {
	return r.update("save shares", id, func(doc *domain.Document) {
		doc.SharedWith = append([]domain.Share{}, shares...)
	})
}

func (r *DocumentRepository) SoftDelete(_ context.Context, id string) error {
	return r.update("soft delete document", id, func(doc *domain.Document) {
		doc.IsActive = false
	})
}

func (r *DocumentRepository) SoftDeleteByCase(_ context.Context, ownerID, caseID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, doc := range r.docs {
		if doc.IsActive && doc.CaseID == caseID && doc.OwnerID == ownerID {
			doc.IsActive = false
			doc.UpdatedAt = r.now()
			affected++
		}
	}
	return affected, nil
}

func (r *DocumentRepository) update(operation, id string, apply func(*domain.Document)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || !doc.IsActive {
		return notFound(operation, id)
	}
	apply(doc)
	doc.UpdatedAt = r.now()
	return nil
}

func notFound(operation, id string) error {
	return domain.WrapError(domain.ErrDocumentNotFound, operation, fmt.Errorf("document %s", id))
}

func cloneDocument(doc *domain.Document) *domain.Document {
	out := *doc
	out.Tags = append([]string{}, doc.Tags...)
	out.SharedWith = append([]domain.Share{}, doc.SharedWith...)
	out.Analysis = cloneAnalysis(doc.Analysis)
	return &out
}

func cloneAnalysis(a *domain.Analysis) *domain.Analysis {
	if a == nil {
		return nil
	}
	out := *a
	out.KeyTerms = append([]string{}, a.KeyTerms...)
	out.FlaggedClauses = append([]domain.FlaggedClause{}, a.FlaggedClauses...)
	out.Recommendations = append([]string{}, a.Recommendations...)
	return &out
}
