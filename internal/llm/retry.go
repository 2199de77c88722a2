package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and optional jitter.
//
// The attempt counter lives on the stack of each Generate call, so
// concurrent callers never share retry state.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempt := 0
	for {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !shouldRetry(err) {
			return nil, err
		}

		attempt++
		if attempt > r.config.MaxRetries {
			return nil, &ErrRetriesExhausted{Attempts: attempt, Err: err}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry reports whether err is a transport or service failure.
// Malformed output is not grounds for re-sending the same prompt.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		return false
	}

	// Rate limits, unavailability and unclassified network errors.
	return true
}

// backoff computes BaseDelay * Multiplier^attempt, capped at MaxDelay,
// with ±Jitter applied. attempt is the number of failures so far.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	mult := r.config.Multiplier
	if mult <= 0 {
		mult = 2
	}
	wait := float64(r.config.BaseDelay) * math.Pow(mult, float64(attempt))
	if r.config.MaxDelay > 0 && wait > float64(r.config.MaxDelay) {
		wait = float64(r.config.MaxDelay)
	}

	if r.config.Jitter > 0 {
		wait += wait * r.config.Jitter * (2*rand.Float64() - 1)
	}
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
