package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
)

const (
	analysisLockPrefix = "docsift:analysis:"
	lockExpiryMargin   = 30 * time.Second
)

// ExclusiveAnalyzer allows at most one Analyze per document at a time. Every
// other operation passes straight through to the wrapped service.
type ExclusiveAnalyzer struct {
	ports.DocumentService
	locker ports.Locker
	ttl    time.Duration
	logger *slog.Logger
}

func NewExclusiveAnalyzer(inner ports.DocumentService, locker ports.Locker, ttl time.Duration, logger *slog.Logger) *ExclusiveAnalyzer {
	if ttl <= 0 {
		ttl = 7 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExclusiveAnalyzer{DocumentService: inner, locker: locker, ttl: ttl, logger: logger}
}

func (e *ExclusiveAnalyzer) Analyze(ctx context.Context, id, language string) (*domain.Analysis, error) {
	release, err := e.locker.Acquire(ctx, analysisLockPrefix+id, e.ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire analysis lock: %w", err)
	}
	defer func() {
		if relErr := release(context.WithoutCancel(ctx)); relErr != nil {
			e.logger.Warn("analysis_lock_release_failed", "document_id", id, "error", relErr)
		}
	}()

	// Give up before the key expires so no second caller can take the lock
	// while this analysis may still write its result.
	analyzeCtx, cancel := context.WithTimeout(ctx, e.ttl-min(e.ttl/10, lockExpiryMargin))
	defer cancel()
	return e.DocumentService.Analyze(analyzeCtx, id, language)
}
