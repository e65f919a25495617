package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retryClass buckets an error by how the retry loop should treat it.
type retryClass int

const (
	// retryNever: caller gave up or the request can never succeed as-is.
	retryNever retryClass = iota

	// retryOnce: worth exactly one more shot. With several providers
	// backing every slot, burning the full attempt budget on a backend
	// that returns garbage just delays the next provider in line.
	retryOnce

	// retryAlways: transient; retry until the attempt budget runs out.
	retryAlways
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	onceUsed := false

	for attempt := range r.config.MaxAttempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if onceUsed {
				return nil, err
			}
			onceUsed = true
		}

		// Last attempt exhausted the budget; no point sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// classify maps an error to its retry treatment.
func classify(err error) retryClass {
	// The caller canceled or timed out; the slot is already lost.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}

	// Truncation means MaxTokens is too small for the prompt. Retrying
	// the identical request truncates identically.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return retryNever
	}

	// A contentless response occasionally recovers on a resend, but a
	// backend that does it twice is not going to produce a question.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		return retryOnce
	}

	// Rate limits, outages, and plain network errors are transient.
	return retryAlways
}

// backoff computes the wait before the next attempt. A rate limit's
// RetryAfter is honored but clamped to MaxWait: the orchestrator has
// other providers to try, so one backend's cooldown must not hold a
// slot hostage.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		if rl.RetryAfter > r.config.MaxWait {
			return r.config.MaxWait
		}
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))

	// ±20% jitter keeps concurrent slots from hammering in lockstep.
	wait *= 1 + 0.2*(2*rand.Float64()-1)

	return time.Duration(math.Max(wait, 0))
}
