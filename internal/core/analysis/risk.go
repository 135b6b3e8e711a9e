// Package analysis holds the completion-backed parts of the pipeline: the
// risk assessor and the translation/summary client.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
)

type AssessorConfig struct {
	Temperature float64
	MaxTokens   int
}

func DefaultAssessorConfig() AssessorConfig {
	return AssessorConfig{Temperature: 0.3, MaxTokens: 2000}
}

type Assessor struct {
	completion ports.CompletionService
	cfg        AssessorConfig
	logger     *slog.Logger
}

func NewAssessor(completion ports.CompletionService, cfg AssessorConfig, logger *slog.Logger) *Assessor {
	if cfg.MaxTokens <= 0 {
		cfg = DefaultAssessorConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assessor{completion: completion, cfg: cfg, logger: logger}
}

// Assess calls the completion service once. Model output that cannot be used
// yields the fallback assessment, never an error.
func (a *Assessor) Assess(ctx context.Context, text string, documentType domain.DocumentType, language string) (domain.Assessment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Assessment{}, domain.WrapError(domain.ErrEmptyText, "assess document", errors.New("extracted text is empty"))
	}

	raw, err := a.completion.Complete(ctx, buildAssessmentPrompt(text, documentType, language), ports.CompletionOptions{
		System:      assessorSystemPrompt,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return domain.Assessment{}, domain.WrapError(domain.ErrUpstream, "assess document", err)
	}

	risk, outcome, detail := parseRiskAssessment(raw)
	if outcome.IsFallback() {
		a.logger.Warn("risk_assessment_fallback",
			"reason", string(outcome),
			"document_type", string(documentType),
			"response_bytes", len(raw),
			"detail", detail,
		)
	}
	return domain.Assessment{Risk: risk, Outcome: outcome, Detail: detail}, nil
}
