package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttemptOutcome classifies how a single provider call ended.
type AttemptOutcome string

// Possible attempt outcomes.
const (
	AttemptSucceeded   AttemptOutcome = "succeeded"
	AttemptRateLimited AttemptOutcome = "rate_limited"
	AttemptUnavailable AttemptOutcome = "unavailable"
	AttemptFailed      AttemptOutcome = "failed"
	AttemptCanceled    AttemptOutcome = "canceled"
)

// GenerationAttempt records one provider call made while serving a
// request. Attempts are transient observability records: they feed logs
// and metrics but are never persisted.
type GenerationAttempt struct {
	RequestID uuid.UUID      `json:"request_id"`
	Provider  ProviderRef    `json:"provider"`
	Number    int            `json:"number"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Outcome   AttemptOutcome `json:"outcome"`
	Err       error          `json:"-"`
}

// Duration returns how long the provider call took.
func (a GenerationAttempt) Duration() time.Duration {
	return a.EndedAt.Sub(a.StartedAt)
}
