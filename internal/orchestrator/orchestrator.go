package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/credit"
	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/provider"
	"github.com/nevishq/genforge/internal/registry"
	"github.com/nevishq/genforge/internal/resilience"
)

// ErrTooManyVariants is returned when a request asks for more image
// variants than its tier allows. Like unknown tiers, this fails
// pre-flight with no credits moved and no provider called.
var ErrTooManyVariants = errors.New("too many image variants for tier")

// CreditService is the slice of the credit metering API the pipeline
// drives. Reservations are keyed by request ID, and Commit and Refund
// are idempotent, so reconciliation is safe to repeat on retried
// requests.
type CreditService interface {
	Cost(tier domain.ModelTier, variantCount int) float64
	Reserve(ctx context.Context, accountID, requestID uuid.UUID, amount float64) error
	Commit(ctx context.Context, requestID uuid.UUID) error
	Refund(ctx context.Context, requestID uuid.UUID) error
}

// Verify the production metering service satisfies the interface.
var _ CreditService = (*credit.Service)(nil)

// Config tunes the orchestrator's scheduling.
type Config struct {
	// VariantDeadline bounds one image variant's generation, including
	// retries and failovers. Zero leaves variants bounded only by the
	// request context.
	VariantDeadline time.Duration

	// RequestTimeout bounds one whole generation request. Zero means the
	// caller's context is the only bound.
	RequestTimeout time.Duration
}

// Orchestrator runs generation requests end to end.
type Orchestrator struct {
	credits  CreditService
	tiers    *registry.Registry
	clients  *provider.Directory
	executor *resilience.Executor
	cfg      Config
	logger   *slog.Logger
}

// New builds an Orchestrator from its collaborators.
func New(
	credits CreditService,
	tiers *registry.Registry,
	clients *provider.Directory,
	executor *resilience.Executor,
	cfg Config,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if credits == nil {
		return nil, errors.New("credit service cannot be nil")
	}

	if tiers == nil {
		return nil, errors.New("registry cannot be nil")
	}

	if clients == nil {
		return nil, errors.New("provider directory cannot be nil")
	}

	if executor == nil {
		return nil, errors.New("executor cannot be nil")
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Orchestrator{
		credits:  credits,
		tiers:    tiers,
		clients:  clients,
		executor: executor,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "orchestrator")),
	}, nil
}

// FailureReason maps a pipeline error onto the single human-readable
// reason a failed result reports. Callers see this string; the raw
// error chain stays in logs.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, registry.ErrUnknownTier):
		return "the requested generation tier does not exist"
	case errors.Is(err, ErrTooManyVariants):
		return "the request asks for more image variants than its tier allows"
	case errors.Is(err, credit.ErrInsufficientCredits):
		return "the account has insufficient credits for this generation"
	case errors.Is(err, credit.ErrAccountNotFound):
		return "the account has no credit balance"
	case errors.Is(err, credit.ErrReservationConflict):
		return "this request ID was already used with different parameters"
	case errors.Is(err, provider.ErrContentBlocked):
		return "the request was declined by the provider's content filters"
	case errors.Is(err, resilience.ErrProvidersExhausted):
		return "the generation service is currently overloaded, please try again"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "the generation was canceled before it finished"
	default:
		return "the generation failed unexpectedly"
	}
}
