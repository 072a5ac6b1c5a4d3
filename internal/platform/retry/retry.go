// Package retry executes storage operations with bounded exponential backoff
// on transient write contention. Non-transient errors are never retried
package retry

import (
	"context"
	"time"

	perr "quill/internal/platform/errors"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds the retry loop
type Policy struct {
	// MaxAttempts is the total number of attempts including the first; 0 means 1
	MaxAttempts uint64
	// Base is the initial backoff delay, doubled each attempt
	Base time.Duration
	// MaxDelay caps the per-attempt backoff delay
	MaxDelay time.Duration
}

// DefaultPolicy mirrors the configured defaults of the writer daemon
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 8, Base: 25 * time.Millisecond, MaxDelay: 500 * time.Millisecond}
}

// Option attaches observation hooks to a single Execute call
type Option func(*hooks)

type hooks struct {
	onRetry  func(err error, next time.Duration)
	onGiveUp func(err error)
}

// OnRetry is invoked before each backoff sleep with the failing error and the upcoming delay
func OnRetry(fn func(err error, next time.Duration)) Option {
	return func(h *hooks) { h.onRetry = fn }
}

// OnGiveUp is invoked once when attempts are exhausted, before the original error is returned
func OnGiveUp(fn func(err error)) Option {
	return func(h *hooks) { h.onGiveUp = fn }
}

// Execute runs op, retrying only errors perr.Retryable classifies as transient
// contention. Backoff starts at Base, doubles per attempt, is capped at
// MaxDelay and bounded to MaxAttempts; exhaustion invokes OnGiveUp and
// returns the original error. Anything else propagates on first occurrence
func Execute(ctx context.Context, p Policy, op func() error, opts ...Option) error {
	var h hooks
	for _, o := range opts {
		o(&h)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.Base
	bo.MaxInterval = p.MaxDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0 // deterministic delays; contention here is single-node
	bo.MaxElapsedTime = 0

	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	var b backoff.BackOff = backoff.WithContext(bo, ctx)
	b = backoff.WithMaxRetries(b, attempts-1)

	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !perr.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		if h.onRetry != nil {
			h.onRetry(err, next)
		}
	}

	err := backoff.RetryNotify(wrapped, b, notify)
	if err != nil && perr.Retryable(err) && ctx.Err() == nil {
		// attempts exhausted on a transient error
		if h.onGiveUp != nil {
			h.onGiveUp(err)
		}
	}
	return err
}

// ExecuteValue is Execute for operations returning a value
func ExecuteValue[T any](ctx context.Context, p Policy, op func() (T, error), opts ...Option) (T, error) {
	var out T
	err := Execute(ctx, p, func() error {
		v, e := op()
		if e != nil {
			return e
		}
		out = v
		return nil
	}, opts...)
	return out, err
}
