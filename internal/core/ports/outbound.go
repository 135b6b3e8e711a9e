package ports

import (
	"context"
	"time"

	"github.com/legalsift/docsift/internal/core/domain"
)

// DocumentRepository persists document records. Reads never return inactive records.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetActiveByID(ctx context.Context, id string) (*domain.Document, error)
	ListActiveByOwner(ctx context.Context, ownerID string, filter domain.ListFilter) ([]domain.Document, int, error)
	SaveAnalysis(ctx context.Context, id string, analysis domain.Analysis) error
	SaveShares(ctx context.Context, id string, shares []domain.Share) error
	SoftDelete(ctx context.Context, id string) error
	SoftDeleteByCase(ctx context.Context, ownerID, caseID string) (int64, error)
}

// ObjectStorage keeps the uploaded bytes and hands out a retrievable reference.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) (domain.StoredObject, error)
	Delete(ctx context.Context, id string) error
}

// TextExtractor converts raw bytes of a declared format into plain text.
type TextExtractor interface {
	Extract(data []byte, format domain.FileFormat) (string, error)
}

type CompletionOptions struct {
	System      string
	Temperature float64
	MaxTokens   int
	// JSON asks providers that support it for a JSON-only response.
	JSON bool
}

// CompletionService is the external generative model: prompt in, text out.
type CompletionService interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// RiskAssessor turns extracted text into a structured assessment.
type RiskAssessor interface {
	Assess(ctx context.Context, text string, documentType domain.DocumentType, language string) (domain.Assessment, error)
}

// TextTransformer produces free-text derivatives of extracted text.
type TextTransformer interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
	Summarize(ctx context.Context, text, language string) (string, error)
	VoiceSummary(ctx context.Context, text, language string) (string, error)
}

// AnalysisQueue publishes/consumes background analysis requests.
type AnalysisQueue interface {
	PublishAnalysisRequested(ctx context.Context, req domain.AnalysisRequest) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, domain.AnalysisRequest) error) error
}

// Locker grants short-lived exclusive ownership of a key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// PipelineObserver receives pipeline events for metrics.
type PipelineObserver interface {
	ObserveExtraction(format domain.FileFormat, status string)
	ObserveAssessment(outcome domain.AssessmentOutcome, duration time.Duration)
}

type NoopObserver struct{}

func (NoopObserver) ObserveExtraction(domain.FileFormat, string) {}

func (NoopObserver) ObserveAssessment(domain.AssessmentOutcome, time.Duration) {}
