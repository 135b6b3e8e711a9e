package llmhttp

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/legalsift/docsift/internal/core/domain"
	"github.com/legalsift/docsift/internal/core/ports"
	"github.com/legalsift/docsift/internal/infrastructure/resilience"
)

// Classify decides which completion failures are worth another attempt.
func Classify(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.ErrorClassification{
				Retryable:     true,
				RecordFailure: true,
			}
		}
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

// WrapTemporary marks errors a caller may retry later with ErrTemporary.
func WrapTemporary(operation string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return err
	}

	class := Classify(err)
	if class.Retryable || resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// ResilientCompletion retries and circuit-breaks a completion service. The
// core still makes a single Complete call; the policy lives here.
type ResilientCompletion struct {
	inner     ports.CompletionService
	executor  *resilience.Executor
	operation string
}

func NewResilientCompletion(inner ports.CompletionService, executor *resilience.Executor, operation string) *ResilientCompletion {
	if operation == "" {
		operation = "completion"
	}
	return &ResilientCompletion{inner: inner, executor: executor, operation: operation}
}

func (r *ResilientCompletion) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	out, err := resilience.Call(ctx, r.executor, r.operation, func(ctx context.Context) (string, error) {
		return r.inner.Complete(ctx, prompt, opts)
	}, Classify)
	if err != nil {
		return "", WrapTemporary(r.operation, err)
	}
	return out, nil
}
