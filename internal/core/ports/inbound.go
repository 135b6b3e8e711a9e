package ports

import (
	"context"

	"github.com/legalsift/docsift/internal/core/domain"
)

// DocumentUploader accepts files into the pipeline.
type DocumentUploader interface {
	CreateFromUpload(ctx context.Context, req domain.UploadRequest) (*domain.Document, error)
}

// DocumentReader is the read model over active documents.
type DocumentReader interface {
	Get(ctx context.Context, id string) (*domain.Document, error)
	ListByOwner(ctx context.Context, ownerID string, filter domain.ListFilter) (*domain.DocumentPage, error)
	GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error)
}

// DocumentAnalyzer runs risk assessment on a stored document.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, id, language string) (*domain.Analysis, error)
}

// AnalysisScheduler hands analysis to the background worker.
type AnalysisScheduler interface {
	RequestAnalysis(ctx context.Context, id, language string) error
}

// DocumentLanguageService produces free-text renditions of a stored document.
type DocumentLanguageService interface {
	Translate(ctx context.Context, id, targetLanguage string) (string, error)
	Summarize(ctx context.Context, id, language string) (string, error)
	VoiceSummary(ctx context.Context, id, language string) (string, error)
}

// DocumentLifecycle covers sharing and soft deletion.
type DocumentLifecycle interface {
	Share(ctx context.Context, id string, share domain.Share) (*domain.Document, error)
	SoftDelete(ctx context.Context, id string) error
	SoftDeleteByCase(ctx context.Context, ownerID, caseID string) (int64, error)
}

// DocumentService is everything the outer adapters need.
type DocumentService interface {
	DocumentUploader
	DocumentReader
	DocumentAnalyzer
	AnalysisScheduler
	DocumentLanguageService
	DocumentLifecycle
}
