package bootstrap

import (
	"context"
	"testing"

	"github.com/legalsift/docsift/internal/config"
	"github.com/legalsift/docsift/internal/core/usecase"
	"github.com/legalsift/docsift/internal/infrastructure/llm/llmhttp"
)

func TestNewWiresInProcessStack(t *testing.T) {
	cfg := config.Config{
		StoreDriver:   "memory",
		StorageDriver: "localfs",
		StoragePath:   t.TempDir(),
		LLMProvider:   "ollama",
		QueueEnabled:  true,
	}
	app, err := New(context.Background(), cfg, Options{WithoutQueue: true})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	if _, ok := app.Service.(*usecase.DocumentService); !ok {
		t.Fatalf("expected plain document service without lock, got %T", app.Service)
	}
	if app.Queue != nil {
		t.Fatalf("queue must stay disabled")
	}
}

func TestNewRejectsUnknownDrivers(t *testing.T) {
	if _, err := New(context.Background(), config.Config{StoreDriver: "sqlite"}, Options{}); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}
	cfg := config.Config{StoreDriver: "memory", StorageDriver: "ftp"}
	if _, err := New(context.Background(), cfg, Options{}); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}
}

func TestNewCompletionSelectsProvider(t *testing.T) {
	completion, err := NewCompletion(config.Config{LLMProvider: "openai", OpenAIAPIKey: "sk-test"}, nil)
	if err != nil {
		t.Fatalf("new completion: %v", err)
	}
	if _, ok := completion.(*llmhttp.ResilientCompletion); !ok {
		t.Fatalf("expected resilient wrapper, got %T", completion)
	}
	if _, err := NewCompletion(config.Config{LLMProvider: "openai"}, nil); err == nil {
		t.Fatalf("expected missing api key error")
	}
	if _, err := NewCompletion(config.Config{LLMProvider: "bard"}, nil); err == nil {
		t.Fatalf("expected unknown provider error")
	}
}
