package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Policy is a reusable retry policy shared by all outbound calls.
type Policy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	// Retryable reports whether an error is worth another attempt.
	// When nil, every error is treated as transient.
	Retryable func(error) bool
}

// DefaultPolicy is a small fixed-count exponential backoff suitable for
// cache and other short I/O round trips.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		InitialWait: 50 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}
}

// Do runs fn until it succeeds, the error is not retryable, the policy
// is exhausted, or the context ends.
func Do(ctx context.Context, p Policy, fn func() error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(p, err) {
			return err
		}

		// Last attempt - don't sleep, just return the error.
		if attempt == p.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(p, attempt)):
		}
	}
	return lastErr
}

func shouldRetry(p Policy, err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return true
}

// backoff computes the wait duration for the given attempt with ±20% jitter.
func backoff(p Policy, attempt int) time.Duration {
	wait := float64(p.InitialWait) * math.Pow(p.Multiplier, float64(attempt))
	if p.MaxWait > 0 && wait > float64(p.MaxWait) {
		wait = float64(p.MaxWait)
	}

	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
