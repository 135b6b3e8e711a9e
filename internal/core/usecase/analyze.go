package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/legalsift/docsift/internal/core/domain"
)

// Analyze always recomputes; a second call overwrites the first result.
func (s *DocumentService) Analyze(ctx context.Context, id, language string) (*domain.Analysis, error) {
	doc, err := s.loadWithText(ctx, id, "analyze document")
	if err != nil {
		return nil, err
	}
	language = domain.ResolveLanguage(language)

	started := s.now()
	assessment, err := s.assessor.Assess(ctx, doc.ExtractedText, doc.DocumentType, language)
	if err != nil {
		return nil, fmt.Errorf("assess document %s: %w", id, err)
	}
	finished := s.now()
	s.observer.ObserveAssessment(assessment.Outcome, finished.Sub(started))

	analysis := domain.Analysis{
		RiskAssessment: assessment.Risk,
		IsAnalyzed:     true,
		AnalyzedAt:     finished,
		Language:       language,
		Outcome:        assessment.Outcome,
	}
	if err := s.repo.SaveAnalysis(ctx, id, analysis); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	s.logger.Info("document_analyzed",
		"document_id", id,
		"outcome", string(analysis.Outcome),
		"risk_score", analysis.RiskScore,
		"confidence", analysis.Confidence,
		"flagged_clauses", len(analysis.FlaggedClauses),
		"duration_ms", finished.Sub(started).Milliseconds(),
	)
	return &analysis, nil
}

func (s *DocumentService) GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.IsAnalyzed() {
		return nil, domain.WrapError(domain.ErrNotAnalyzed, "get analysis", fmt.Errorf("document %s", id))
	}
	return doc.Analysis, nil
}

// RequestAnalysis queues the document for the background worker.
func (s *DocumentService) RequestAnalysis(ctx context.Context, id, language string) error {
	if s.queue == nil {
		return domain.WrapError(domain.ErrInvalidInput, "request analysis", errors.New("analysis queue is not configured"))
	}
	if _, err := s.loadWithText(ctx, id, "request analysis"); err != nil {
		return err
	}
	req := domain.AnalysisRequest{
		DocumentID: id,
		Language:   domain.ResolveLanguage(language),
		EnqueuedAt: s.now(),
	}
	if err := s.queue.PublishAnalysisRequested(ctx, req); err != nil {
		return fmt.Errorf("publish analysis request: %w", err)
	}
	s.logger.Info("analysis_requested", "document_id", id, "language", req.Language)
	return nil
}

func (s *DocumentService) Translate(ctx context.Context, id, targetLanguage string) (string, error) {
	doc, err := s.loadWithText(ctx, id, "translate document")
	if err != nil {
		return "", err
	}
	out, err := s.transformer.Translate(ctx, doc.ExtractedText, domain.ResolveLanguage(targetLanguage))
	if err != nil {
		return "", fmt.Errorf("translate document %s: %w", id, err)
	}
	return out, nil
}

func (s *DocumentService) Summarize(ctx context.Context, id, language string) (string, error) {
	doc, err := s.loadWithText(ctx, id, "summarize document")
	if err != nil {
		return "", err
	}
	out, err := s.transformer.Summarize(ctx, doc.ExtractedText, domain.ResolveLanguage(language))
	if err != nil {
		return "", fmt.Errorf("summarize document %s: %w", id, err)
	}
	return out, nil
}

func (s *DocumentService) VoiceSummary(ctx context.Context, id, language string) (string, error) {
	doc, err := s.loadWithText(ctx, id, "voice summary")
	if err != nil {
		return "", err
	}
	out, err := s.transformer.VoiceSummary(ctx, doc.ExtractedText, domain.ResolveLanguage(language))
	if err != nil {
		return "", fmt.Errorf("voice summary %s: %w", id, err)
	}
	return out, nil
}

func (s *DocumentService) loadWithText(ctx context.Context, id, operation string) (*domain.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return nil, domain.WrapError(domain.ErrEmptyText, operation, fmt.Errorf("document %s", id))
	}
	return doc, nil
}
