package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legalsift/docsift/internal/bootstrap"
	"github.com/legalsift/docsift/internal/config"
	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/observability/logging"
	"github.com/legalsift/docsift/internal/observability/metrics"
)

const serviceName = "docsift-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	cfg.QueueEnabled = true
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Logger:   logger,
		Observer: workerMetrics.Pipeline(),
	})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = app.Queue.SubscribeAnalysisRequested(ctx, func(handlerCtx context.Context, req domain.AnalysisRequest) error {
		if !req.EnqueuedAt.IsZero() {
			workerMetrics.ObserveQueueLag(serviceName, time.Since(req.EnqueuedAt))
		}

		start := time.Now()
		workerMetrics.StartAnalysis()
		analyzeCtx, cancel := context.WithTimeout(handlerCtx, cfg.AnalysisTimeout)
		defer cancel()

		analysis, err := app.Service.Analyze(analyzeCtx, req.DocumentID, req.Language)
		workerMetrics.FinishAnalysis(serviceName, time.Since(start), err)
		if err != nil {
			// The document was deleted or has no text since the request was queued.
			if domain.IsKind(err, domain.ErrDocumentNotFound) || domain.IsKind(err, domain.ErrEmptyText) {
				logger.Warn("analysis_skipped", "document_id", req.DocumentID, "error", err)
				return nil
			}
			return err
		}
		logger.Info("analysis_completed",
			"document_id", req.DocumentID,
			"outcome", string(analysis.Outcome),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
