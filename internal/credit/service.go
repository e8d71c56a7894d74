package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/metrics"
)

// Service is the metering facade the orchestrator talks to. It owns the
// pricing formula and the interpretation of ledger states; the store
// underneath owns atomicity.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a credit Service backed by the given store.
func NewService(store Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Service{
		store:  store,
		logger: logger.With(slog.String("component", "credit")),
	}, nil
}

// Cost returns the credit cost of a generation: the tier's cost times
// the variant count, with a floor of one so text-only generations are
// billed as a single unit. Fractional costs are preserved exactly; there
// is no rounding anywhere in the metering path.
func (s *Service) Cost(tier domain.ModelTier, variantCount int) float64 {
	n := variantCount
	if n < 1 {
		n = 1
	}
	return tier.CreditCost * float64(n)
}

// Reserve withholds amount from the account, keyed by requestID. Calling
// it again with the same requestID replays the original outcome: a
// successful reservation stays reserved without double-charging, and a
// declined one fails with ErrInsufficientCredits again even if the
// balance has recovered since. Reusing a requestID with a different
// account or amount returns ErrReservationConflict.
func (s *Service) Reserve(ctx context.Context, accountID, requestID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	entry, created, err := s.store.Reserve(ctx, accountID, requestID, amount)
	if err != nil {
		return fmt.Errorf("failed to reserve credits: %w", err)
	}

	if !created {
		if entry.AccountID != accountID || entry.Amount != amount {
			return fmt.Errorf("%w: request %s", ErrReservationConflict, requestID)
		}
		s.logger.DebugContext(ctx, "reserve replayed",
			"state", string(entry.State))
	}

	if entry.State == EntryDeclined {
		return fmt.Errorf("%w: account %s needs %v credits", ErrInsufficientCredits, accountID, amount)
	}

	if created {
		s.logger.InfoContext(ctx, "credits reserved",
			"account_id", accountID.String(),
			"amount", amount)
	}

	return nil
}

// Commit converts a reservation into a final charge. Committing an
// already-committed reservation is a no-op; committing a refunded one is
// a caller bug and returns ErrReservationRefunded.
func (s *Service) Commit(ctx context.Context, requestID uuid.UUID) error {
	entry, changed, err := s.store.Commit(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	switch entry.State {
	case EntryCommitted:
		if changed {
			metrics.CreditsCharged.Add(entry.Amount)
			s.logger.InfoContext(ctx, "credits committed",
				"account_id", entry.AccountID.String(),
				"amount", entry.Amount)
		}
		return nil
	case EntryRefunded:
		return fmt.Errorf("%w: request %s", ErrReservationRefunded, requestID)
	default:
		return fmt.Errorf("%w: request %s was never reserved", ErrReservationNotFound, requestID)
	}
}

// Refund releases a reservation back to the account. Refunding an
// already-refunded or committed reservation is a no-op, never an error:
// refund sits on every failure path and must be safe to reach twice.
func (s *Service) Refund(ctx context.Context, requestID uuid.UUID) error {
	entry, changed, err := s.store.Refund(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to refund reservation: %w", err)
	}

	if changed {
		metrics.CreditsRefunded.Add(entry.Amount)
		s.logger.InfoContext(ctx, "credits refunded",
			"account_id", entry.AccountID.String(),
			"amount", entry.Amount)
	}

	return nil
}

// Balance returns the account's available credits.
func (s *Service) Balance(ctx context.Context, accountID uuid.UUID) (float64, error) {
	balance, err := s.store.Balance(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}
