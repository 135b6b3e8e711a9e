package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
)

type Sampling struct {
	Temperature float64
	MaxTokens   int
}

type TranslatorConfig struct {
	Translate Sampling
	Summary   Sampling
	Voice     Sampling
}

func DefaultTranslatorConfig() TranslatorConfig {
	return TranslatorConfig{
		Translate: Sampling{Temperature: 0.3, MaxTokens: 1000},
		Summary:   Sampling{Temperature: 0.3, MaxTokens: 500},
		Voice:     Sampling{Temperature: 0.5, MaxTokens: 300},
	}
}

// Translator returns completion text verbatim; nothing is cached.
type Translator struct {
	completion ports.CompletionService
	cfg        TranslatorConfig
}

func NewTranslator(completion ports.CompletionService, cfg TranslatorConfig) *Translator {
	defaults := DefaultTranslatorConfig()
	if cfg.Translate.MaxTokens <= 0 {
		cfg.Translate = defaults.Translate
	}
	if cfg.Summary.MaxTokens <= 0 {
		cfg.Summary = defaults.Summary
	}
	if cfg.Voice.MaxTokens <= 0 {
		cfg.Voice = defaults.Voice
	}
	return &Translator{completion: completion, cfg: cfg}
}

func (t *Translator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	return t.complete(ctx, "translate text", text, ports.CompletionOptions{
		System:      fmt.Sprintf(translatorSystemPrompt, domain.LanguageName(targetLanguage)),
		Temperature: t.cfg.Translate.Temperature,
		MaxTokens:   t.cfg.Translate.MaxTokens,
	}, text)
}

func (t *Translator) Summarize(ctx context.Context, text, language string) (string, error) {
	return t.complete(ctx, "summarize text", text, ports.CompletionOptions{
		System:      summarySystemPrompt,
		Temperature: t.cfg.Summary.Temperature,
		MaxTokens:   t.cfg.Summary.MaxTokens,
	}, buildSummaryPrompt(text, language))
}

func (t *Translator) VoiceSummary(ctx context.Context, text, language string) (string, error) {
	return t.complete(ctx, "voice summary", text, ports.CompletionOptions{
		System:      voiceSystemPrompt,
		Temperature: t.cfg.Voice.Temperature,
		MaxTokens:   t.cfg.Voice.MaxTokens,
	}, buildVoiceSummaryPrompt(text, language))
}

func (t *Translator) complete(ctx context.Context, operation, text string, opts ports.CompletionOptions, prompt string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrEmptyText, operation, errors.New("extracted text is empty"))
	}
	out, err := t.completion.Complete(ctx, prompt, opts)
	if err != nil {
		return "", domain.WrapError(domain.ErrUpstream, operation, err)
	}
	return out, nil
}
