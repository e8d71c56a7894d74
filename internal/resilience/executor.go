// Package resilience implements the retry and failover policy for
// provider calls. It is the single place routing decisions live: which
// error classes retry against the same provider, which fail over to the
// next one, and which give up. Callers hand it an ordered provider list
// and an operation closure; the executor knows nothing about text versus
// image generation.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/metrics"
	"github.com/nevishq/genforge/internal/provider"
)

// Common errors returned by the executor.
var (
	// ErrProvidersExhausted is returned when every provider in the order
	// has been tried and none produced a result.
	ErrProvidersExhausted = errors.New("all providers exhausted")

	// ErrNoProviders is returned when the executor is called with an
	// empty provider order.
	ErrNoProviders = errors.New("no providers to call")
)

// Policy bounds retry behavior per provider. Backoff is a monotonically
// non-decreasing schedule indexed by retry number; retries past the end
// of the schedule reuse its last entry.
type Policy struct {
	MaxAttemptsPerProvider int
	Backoff                []time.Duration
}

// DefaultPolicy returns the policy used when configuration does not
// override it.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttemptsPerProvider: 3,
		Backoff: []time.Duration{
			500 * time.Millisecond,
			2 * time.Second,
			5 * time.Second,
		},
	}
}

// Validate checks that the policy is usable.
func (p Policy) Validate() error {
	if p.MaxAttemptsPerProvider < 1 {
		return errors.New("max attempts per provider must be at least 1")
	}

	if len(p.Backoff) == 0 {
		return errors.New("backoff schedule cannot be empty")
	}

	if p.Backoff[0] < 0 {
		return errors.New("backoff delays cannot be negative")
	}

	for i := 1; i < len(p.Backoff); i++ {
		if p.Backoff[i] < p.Backoff[i-1] {
			return errors.New("backoff schedule must not decrease")
		}
	}

	return nil
}

// backoffFor returns the delay before retry number attempt (1-based),
// clamped to the schedule's last entry.
func (p Policy) backoffFor(attempt int) time.Duration {
	idx := attempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.Backoff) {
		idx = len(p.Backoff) - 1
	}
	return p.Backoff[idx]
}

// Operation is one provider-facing call. The executor picks the ref; the
// closure captures everything else, including where results go.
type Operation func(ctx context.Context, ref domain.ProviderRef) error

// Executor runs operations under the policy.
type Executor struct {
	policy Policy
	logger *slog.Logger
}

// NewExecutor creates an Executor with the given policy and logger.
func NewExecutor(policy Policy, logger *slog.Logger) (*Executor, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resilience policy: %w", err)
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Executor{
		policy: policy,
		logger: logger.With(slog.String("component", "resilience")),
	}, nil
}

// Call runs op against each ref in order until one succeeds.
//
// Per attempt, the returned error decides what happens next:
//   - nil: return the serving ref immediately
//   - rate limited: fail over to the next provider without retrying this
//     one, its window is closed and waiting here burns the caller's time
//   - unavailable: sleep the scheduled backoff and retry the same
//     provider, up to the per-provider attempt bound
//   - context cancellation: return immediately with the context error
//   - anything else: fatal for this provider, fail over
//
// When the order is exhausted the executor returns ErrProvidersExhausted
// carrying the last provider error's text.
func (e *Executor) Call(
	ctx context.Context,
	requestID uuid.UUID,
	refs []domain.ProviderRef,
	op Operation,
) (domain.ProviderRef, error) {
	if len(refs) == 0 {
		return "", ErrNoProviders
	}

	var lastErr error

providers:
	for _, ref := range refs {
		for attempt := 1; attempt <= e.policy.MaxAttemptsPerProvider; attempt++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}

			started := time.Now().UTC()
			err := op(ctx, ref)
			e.observe(ctx, domain.GenerationAttempt{
				RequestID: requestID,
				Provider:  ref,
				Number:    attempt,
				StartedAt: started,
				EndedAt:   time.Now().UTC(),
				Outcome:   classifyOutcome(err),
				Err:       err,
			})

			if err == nil {
				return ref, nil
			}
			lastErr = err

			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}

			switch {
			case errors.Is(err, provider.ErrRateLimited):
				continue providers
			case errors.Is(err, provider.ErrUnavailable):
				if attempt == e.policy.MaxAttemptsPerProvider {
					continue providers
				}

				delay := e.policy.backoffFor(attempt)
				e.logger.InfoContext(ctx, "retrying provider after backoff",
					"provider", string(ref),
					"attempt", attempt,
					"delay", delay.String())

				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return "", ctx.Err()
				}
			default:
				continue providers
			}
		}
	}

	return "", fmt.Errorf("%w: last provider error: %v", ErrProvidersExhausted, lastErr)
}

// observe records one attempt in logs and metrics.
func (e *Executor) observe(ctx context.Context, attempt domain.GenerationAttempt) {
	metrics.ProviderAttempts.WithLabelValues(string(attempt.Provider), string(attempt.Outcome)).Inc()
	metrics.ProviderAttemptDuration.WithLabelValues(string(attempt.Provider)).Observe(attempt.Duration().Seconds())

	if attempt.Outcome == domain.AttemptSucceeded {
		e.logger.InfoContext(ctx, "provider call succeeded",
			"provider", string(attempt.Provider),
			"attempt", attempt.Number,
			"duration_ms", attempt.Duration().Milliseconds())
		return
	}

	e.logger.WarnContext(ctx, "provider call failed",
		"provider", string(attempt.Provider),
		"attempt", attempt.Number,
		"outcome", string(attempt.Outcome),
		"error", attempt.Err)
}

// classifyOutcome maps an operation error onto the attempt taxonomy.
func classifyOutcome(err error) domain.AttemptOutcome {
	switch {
	case err == nil:
		return domain.AttemptSucceeded
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return domain.AttemptCanceled
	case errors.Is(err, provider.ErrRateLimited):
		return domain.AttemptRateLimited
	case errors.Is(err, provider.ErrUnavailable):
		return domain.AttemptUnavailable
	default:
		return domain.AttemptFailed
	}
}
