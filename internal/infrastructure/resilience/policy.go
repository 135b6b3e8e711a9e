package resilience

import "time"

// Config tunes retries and the per-operation circuit breaker. Zero fields
// take the completion defaults.
type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

// CompletionDefaults suits model calls: an overloaded model server needs
// seconds to recover, not milliseconds, and a breaker that trips after a
// handful of analyses keeps a dead provider from stalling every upload.
func CompletionDefaults() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 500 * time.Millisecond,
		RetryMaxBackoff:     5 * time.Second,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      5,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 1,
	}
}

// RetryBudget is the longest a call can run through the executor when each
// attempt is bounded by attemptTimeout: every attempt times out and every
// backoff is waited in full.
func (c Config) RetryBudget(attemptTimeout time.Duration) time.Duration {
	n := c.normalize()
	total := time.Duration(n.RetryMaxAttempts) * attemptTimeout
	backoff := n.RetryInitialBackoff
	for i := 1; i < n.RetryMaxAttempts; i++ {
		total += min(backoff, n.RetryMaxBackoff)
		backoff = time.Duration(float64(backoff) * n.RetryMultiplier)
	}
	return total
}

func (c Config) normalize() Config {
	def := CompletionDefaults()
	out := c

	out.RetryMaxAttempts = positiveOr(out.RetryMaxAttempts, def.RetryMaxAttempts)
	out.RetryInitialBackoff = positiveOr(out.RetryInitialBackoff, def.RetryInitialBackoff)
	out.RetryMaxBackoff = max(positiveOr(out.RetryMaxBackoff, def.RetryMaxBackoff), out.RetryInitialBackoff)
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = def.RetryMultiplier
	}

	out.BreakerMinRequests = positiveOr(out.BreakerMinRequests, def.BreakerMinRequests)
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	out.BreakerOpenTimeout = positiveOr(out.BreakerOpenTimeout, def.BreakerOpenTimeout)
	out.BreakerHalfOpenMaxCalls = positiveOr(out.BreakerHalfOpenMaxCalls, def.BreakerHalfOpenMaxCalls)
	return out
}

func positiveOr[T int | uint32 | time.Duration](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}
