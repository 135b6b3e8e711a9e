package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/legalsift/docsift/internal/config"
	"github.com/legalsift/docsift/internal/core/analysis"
	"github.com/legalsift/docsift/internal/core/ports"
	"github.com/legalsift/docsift/internal/core/usecase"
	"github.com/legalsift/docsift/internal/infrastructure/extractor"
	"github.com/legalsift/docsift/internal/infrastructure/llm/llmhttp"
	"github.com/legalsift/docsift/internal/infrastructure/llm/ollama"
	"github.com/legalsift/docsift/internal/infrastructure/llm/openai"
	redislock "github.com/legalsift/docsift/internal/infrastructure/lock/redis"
	natsqueue "github.com/legalsift/docsift/internal/infrastructure/queue/nats"
	"github.com/legalsift/docsift/internal/infrastructure/repository/memory"
	"github.com/legalsift/docsift/internal/infrastructure/repository/postgres"
	"github.com/legalsift/docsift/internal/infrastructure/resilience"
	"github.com/legalsift/docsift/internal/infrastructure/storage/localfs"
	miniostorage "github.com/legalsift/docsift/internal/infrastructure/storage/minio"
)

type App struct {
	Config config.Config

	// Service is what adapters call; it carries the analysis lock when enabled.
	Service ports.DocumentService
	Queue   ports.AnalysisQueue

	closeFns []func()
}

type Options struct {
	Logger   *slog.Logger
	Observer ports.PipelineObserver
	// WithoutQueue skips NATS even when QUEUE_ENABLED is set.
	WithoutQueue bool
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{Config: cfg}

	repo, err := app.openRepository(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	executor := resilience.NewExecutor(cfg.Resilience).WithLogger(logger)
	completion, err := NewCompletion(cfg, executor)
	if err != nil {
		app.Close()
		return nil, err
	}

	documents := usecase.NewDocumentService(
		repo,
		storage,
		extractor.New(logger),
		analysis.NewAssessor(completion, analysis.DefaultAssessorConfig(), logger),
		analysis.NewTranslator(completion, analysis.DefaultTranslatorConfig()),
		logger,
	).WithObserver(opts.Observer)

	if cfg.QueueEnabled && !opts.WithoutQueue {
		queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		app.closeFns = append(app.closeFns, queue.Close)
		app.Queue = queue
		documents.WithQueue(queue)
	}

	app.Service = documents
	if cfg.AnalysisLockEnabled {
		rdb, err := redislock.Dial(ctx, cfg.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init analysis lock: %w", err)
		}
		app.closeFns = append(app.closeFns, func() { _ = rdb.Close() })
		app.Service = usecase.NewExclusiveAnalyzer(documents, redislock.NewLocker(rdb), cfg.AnalysisLockTTL, logger)
	}

	return app, nil
}

func (a *App) openRepository(ctx context.Context, cfg config.Config) (ports.DocumentRepository, error) {
	switch cfg.StoreDriver {
	case "memory":
		return memory.NewDocumentRepository(), nil
	case "postgres", "":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		a.closeFns = append(a.closeFns, func() { _ = db.Close() })
		repo := postgres.NewDocumentRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openStorage(ctx context.Context, cfg config.Config) (ports.ObjectStorage, error) {
	switch cfg.StorageDriver {
	case "localfs", "":
		storage, err := localfs.New(cfg.StoragePath, cfg.StoragePublicBaseURL)
		if err != nil {
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		return storage, nil
	case "minio":
		storage, err := miniostorage.New(miniostorage.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			URLExpiry: cfg.MinIOURLExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

// NewCompletion builds the configured provider behind retry and circuit breaking.
// A nil executor disables both.
func NewCompletion(cfg config.Config, executor *resilience.Executor) (ports.CompletionService, error) {
	var inner ports.CompletionService
	switch cfg.LLMProvider {
	case "ollama", "":
		inner = ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.LLMTimeout)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for LLM_PROVIDER=openai")
		}
		inner = openai.New(openai.Config{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.LLMTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	return llmhttp.NewResilientCompletion(inner, executor, cfg.LLMProvider+"_complete"), nil
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
