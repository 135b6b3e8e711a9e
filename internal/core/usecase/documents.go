package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
)

// DocumentService owns the document record lifecycle:
// created -> stored -> analyzed, and stored/analyzed -> inactive.
type DocumentService struct {
	repo        ports.DocumentRepository
	storage     ports.ObjectStorage
	extractor   ports.TextExtractor
	assessor    ports.RiskAssessor
	transformer ports.TextTransformer
	queue       ports.AnalysisQueue
	observer    ports.PipelineObserver
	logger      *slog.Logger
	now         func() time.Time
}

func NewDocumentService(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	assessor ports.RiskAssessor,
	transformer ports.TextTransformer,
	logger *slog.Logger,
) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		repo:        repo,
		storage:     storage,
		extractor:   extractor,
		assessor:    assessor,
		transformer: transformer,
		observer:    ports.NoopObserver{},
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithQueue enables RequestAnalysis.
func (s *DocumentService) WithQueue(queue ports.AnalysisQueue) *DocumentService {
	s.queue = queue
	return s
}

func (s *DocumentService) WithObserver(observer ports.PipelineObserver) *DocumentService {
	if observer != nil {
		s.observer = observer
	}
	return s
}

func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if id == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get document", errors.New("document id is required"))
	}
	doc, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (s *DocumentService) ListByOwner(ctx context.Context, ownerID string, filter domain.ListFilter) (*domain.DocumentPage, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list documents", errors.New("owner id is required"))
	}
	if filter.DocumentType != "" && !filter.DocumentType.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "list documents", fmt.Errorf("unknown document type %q", filter.DocumentType))
	}
	filter = filter.Normalize()

	docs, total, err := s.repo.ListActiveByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list documents by owner: %w", err)
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return &domain.DocumentPage{
		Documents: docs,
		Page:      filter.Page,
		Limit:     filter.Limit,
		Total:     total,
	}, nil
}

// Share upserts a sharing entry. Permissions are recorded, not enforced.
func (s *DocumentService) Share(ctx context.Context, id string, share domain.Share) (*domain.Document, error) {
	if share.UserID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "share document", errors.New("user id is required"))
	}
	if share.Permission == "" {
		share.Permission = domain.PermissionRead
	}
	if !share.Permission.Valid() {
		return nil, domain.WrapError(domain.ErrInvalidInput, "share document", fmt.Errorf("unknown permission %q", share.Permission))
	}

	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID == share.UserID {
		return nil, domain.WrapError(domain.ErrInvalidInput, "share document", errors.New("cannot share a document with its owner"))
	}

	share.SharedAt = s.now()
	doc.UpsertShare(share)
	if err := s.repo.SaveShares(ctx, id, doc.SharedWith); err != nil {
		return nil, fmt.Errorf("save shares: %w", err)
	}
	doc.UpdatedAt = share.SharedAt
	return doc, nil
}

// SoftDelete hides the record. Stored objects and issued URLs are left alone.
func (s *DocumentService) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return domain.WrapError(domain.ErrInvalidInput, "soft delete document", errors.New("document id is required"))
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("soft delete document: %w", err)
	}
	s.logger.Info("document_soft_deleted", "document_id", id)
	return nil
}

// SoftDeleteByCase cascades a case deletion over the owner's documents only.
func (s *DocumentService) SoftDeleteByCase(ctx context.Context, ownerID, caseID string) (int64, error) {
	if caseID == "" {
		return 0, domain.WrapError(domain.ErrInvalidInput, "soft delete case documents", errors.New("case id is required"))
	}
	if ownerID == "" {
		return 0, domain.WrapError(domain.ErrInvalidInput, "soft delete case documents", errors.New("owner id is required"))
	}
	affected, err := s.repo.SoftDeleteByCase(ctx, ownerID, caseID)
	if err != nil {
		return 0, fmt.Errorf("soft delete case documents: %w", err)
	}
	s.logger.Info("case_documents_soft_deleted", "case_id", caseID, "owner_id", ownerID, "affected", affected)
	return affected, nil
}
