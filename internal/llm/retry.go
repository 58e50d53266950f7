package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryProvider re-sends requests that failed for a transient reason.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   zerolog.Logger

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p with cfg's retry policy.
func WithRetry(p Provider, cfg RetryConfig, log zerolog.Logger) *RetryProvider {
	return &RetryProvider{inner: p, cfg: cfg, log: log, sleep: sleepCtx}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if r.cfg.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Budget)
		defer cancel()
	}
	attempts := max(r.cfg.MaxAttempts, 1)
	var sawInvalid bool

	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if attempt >= attempts || !retryable(err, &sawInvalid) {
			return nil, err
		}

		wait := r.cfg.wait(attempt, err)
		r.log.Debug().
			Err(err).
			Str("kind", KindName(err)).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("retrying llm request")
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is worth another attempt. A response that
// failed validation is retried once; the model tends to repeat itself.
func retryable(err error, sawInvalid *bool) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrTruncated), errors.Is(err, ErrRejected):
		return false
	case errors.Is(err, ErrInvalidResponse):
		if *sawInvalid {
			return false
		}
		*sawInvalid = true
		return true
	}
	return true
}

// Backoff is the delay after the given failed attempt (1-based), before
// jitter.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	d := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt-1))
	if c.MaxWait > 0 && d > float64(c.MaxWait) {
		d = float64(c.MaxWait)
	}
	return time.Duration(d)
}

// wait honours a server Retry-After and otherwise adds ±20% jitter to the
// backoff.
func (c RetryConfig) wait(attempt int, err error) time.Duration {
	var pe *Error
	if errors.As(err, &pe) && pe.RetryAfter > 0 {
		return pe.RetryAfter
	}
	d := float64(c.Backoff(attempt))
	d += d * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(d, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
