package main

import (
	"context"
	"log/slog"
	"os"

	mcpadapter "github.com/legalsift/docsift/internal/adapters/mcp"
	"github.com/legalsift/docsift/internal/bootstrap"
	"github.com/legalsift/docsift/internal/config"
	"github.com/legalsift/docsift/internal/observability/logging"
)

const serviceName = "docsift-mcp"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	// stdout carries the protocol.
	logger := logging.NewJSONLoggerTo(os.Stderr, serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(context.Background(), cfg, bootstrap.Options{
		Logger:       logger,
		WithoutQueue: true,
	})
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	logger.Info("mcp_server_started", "store", cfg.StoreDriver, "llm", cfg.LLMProvider)
	if err := mcpadapter.New(app.Service, cfg.MCPDefaultLanguage, logger).ServeStdio(); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
