package credit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevishq/genforge/internal/domain"
)

// mockStore is a function-field implementation of Store.
type mockStore struct {
	BalanceFunc       func(ctx context.Context, accountID uuid.UUID) (float64, error)
	GetEntryFunc      func(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, error)
	ReserveFunc       func(ctx context.Context, accountID, requestID uuid.UUID, amount float64) (*LedgerEntry, bool, error)
	CommitFunc        func(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, bool, error)
	RefundFunc        func(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, bool, error)
	CreditAccountFunc func(ctx context.Context, accountID uuid.UUID, amount float64) error
}

func (m *mockStore) Balance(ctx context.Context, accountID uuid.UUID) (float64, error) {
	if m.BalanceFunc != nil {
		return m.BalanceFunc(ctx, accountID)
	}
	return 0, nil
}

func (m *mockStore) GetEntry(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, error) {
	if m.GetEntryFunc != nil {
		return m.GetEntryFunc(ctx, requestID)
	}
	return nil, ErrReservationNotFound
}

func (m *mockStore) Reserve(ctx context.Context, accountID, requestID uuid.UUID, amount float64) (*LedgerEntry, bool, error) {
	if m.ReserveFunc != nil {
		return m.ReserveFunc(ctx, accountID, requestID, amount)
	}
	return nil, false, nil
}

func (m *mockStore) Commit(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, bool, error) {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, requestID)
	}
	return nil, false, ErrReservationNotFound
}

func (m *mockStore) Refund(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, bool, error) {
	if m.RefundFunc != nil {
		return m.RefundFunc(ctx, requestID)
	}
	return nil, false, ErrReservationNotFound
}

func (m *mockStore) CreditAccount(ctx context.Context, accountID uuid.UUID, amount float64) error {
	if m.CreditAccountFunc != nil {
		return m.CreditAccountFunc(ctx, accountID, amount)
	}
	return nil
}

func testService(t *testing.T, store Store) *Service {
	t.Helper()

	s, err := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func entryIn(state EntryState, accountID, requestID uuid.UUID, amount float64) *LedgerEntry {
	now := time.Now().UTC()
	return &LedgerEntry{
		ID:        uuid.New(),
		AccountID: accountID,
		RequestID: requestID,
		Amount:    amount,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCost(t *testing.T) {
	t.Parallel()

	tier := domain.ModelTier{ID: "revo-1.5", CreditCost: 1.5}

	testCases := []struct {
		name     string
		cost     float64
		variants int
		want     float64
	}{
		{name: "Three variants multiply the tier cost", cost: 1.5, variants: 3, want: 4.5},
		{name: "Single variant costs the tier rate", cost: 1.5, variants: 1, want: 1.5},
		{name: "Text-only generation is billed as one unit", cost: 1.5, variants: 0, want: 1.5},
		{name: "Fractional cost is preserved without rounding", cost: 0.5, variants: 3, want: 1.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tier := tier
			tier.CreditCost = tc.cost

			s := testService(t, &mockStore{})
			assert.Equal(t, tc.want, s.Cost(tier, tc.variants))
		})
	}
}

func TestReserve(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()
	requestID := uuid.New()

	t.Run("fresh reservation succeeds", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			ReserveFunc: func(_ context.Context, acc, req uuid.UUID, amount float64) (*LedgerEntry, bool, error) {
				return entryIn(EntryReserved, acc, req, amount), true, nil
			},
		}

		err := testService(t, store).Reserve(context.Background(), accountID, requestID, 4)
		assert.NoError(t, err)
	})

	t.Run("replayed reservation does not double-reserve", func(t *testing.T) {
		t.Parallel()

		existing := entryIn(EntryReserved, accountID, requestID, 4)
		store := &mockStore{
			ReserveFunc: func(context.Context, uuid.UUID, uuid.UUID, float64) (*LedgerEntry, bool, error) {
				return existing, false, nil
			},
		}

		err := testService(t, store).Reserve(context.Background(), accountID, requestID, 4)
		assert.NoError(t, err)
	})

	t.Run("declined reservation replays the failure", func(t *testing.T) {
		t.Parallel()

		declined := entryIn(EntryDeclined, accountID, requestID, 4)
		store := &mockStore{
			ReserveFunc: func(context.Context, uuid.UUID, uuid.UUID, float64) (*LedgerEntry, bool, error) {
				return declined, false, nil
			},
		}

		err := testService(t, store).Reserve(context.Background(), accountID, requestID, 4)
		assert.ErrorIs(t, err, ErrInsufficientCredits)
	})

	t.Run("request ID reuse with different amount conflicts", func(t *testing.T) {
		t.Parallel()

		existing := entryIn(EntryReserved, accountID, requestID, 4)
		store := &mockStore{
			ReserveFunc: func(context.Context, uuid.UUID, uuid.UUID, float64) (*LedgerEntry, bool, error) {
				return existing, false, nil
			},
		}

		err := testService(t, store).Reserve(context.Background(), accountID, requestID, 6)
		assert.ErrorIs(t, err, ErrReservationConflict)
	})

	t.Run("request ID reuse by another account conflicts", func(t *testing.T) {
		t.Parallel()

		existing := entryIn(EntryReserved, accountID, requestID, 4)
		store := &mockStore{
			ReserveFunc: func(context.Context, uuid.UUID, uuid.UUID, float64) (*LedgerEntry, bool, error) {
				return existing, false, nil
			},
		}

		err := testService(t, store).Reserve(context.Background(), uuid.New(), requestID, 4)
		assert.ErrorIs(t, err, ErrReservationConflict)
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		t.Parallel()

		s := testService(t, &mockStore{})
		assert.ErrorIs(t, s.Reserve(context.Background(), accountID, requestID, 0), ErrInvalidAmount)
		assert.ErrorIs(t, s.Reserve(context.Background(), accountID, requestID, -2), ErrInvalidAmount)
	})
}

func TestCommit(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()
	requestID := uuid.New()

	t.Run("commit finalizes a reservation", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			CommitFunc: func(_ context.Context, req uuid.UUID) (*LedgerEntry, bool, error) {
				return entryIn(EntryCommitted, accountID, req, 4), true, nil
			},
		}

		assert.NoError(t, testService(t, store).Commit(context.Background(), requestID))
	})

	t.Run("repeated commit is a no-op", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			CommitFunc: func(_ context.Context, req uuid.UUID) (*LedgerEntry, bool, error) {
				return entryIn(EntryCommitted, accountID, req, 4), false, nil
			},
		}

		assert.NoError(t, testService(t, store).Commit(context.Background(), requestID))
	})

	t.Run("commit after refund is an error", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			CommitFunc: func(_ context.Context, req uuid.UUID) (*LedgerEntry, bool, error) {
				return entryIn(EntryRefunded, accountID, req, 4), false, nil
			},
		}

		err := testService(t, store).Commit(context.Background(), requestID)
		assert.ErrorIs(t, err, ErrReservationRefunded)
	})

	t.Run("commit of unknown reservation is an error", func(t *testing.T) {
		t.Parallel()

		err := testService(t, &mockStore{}).Commit(context.Background(), requestID)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestRefund(t *testing.T) {
	t.Parallel()

	accountID := uuid.New()
	requestID := uuid.New()

	t.Run("refund releases a reservation", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			RefundFunc: func(_ context.Context, req uuid.UUID) (*LedgerEntry, bool, error) {
				return entryIn(EntryRefunded, accountID, req, 4), true, nil
			},
		}

		assert.NoError(t, testService(t, store).Refund(context.Background(), requestID))
	})

	t.Run("refund after commit is a no-op", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			RefundFunc: func(_ context.Context, req uuid.UUID) (*LedgerEntry, bool, error) {
				return entryIn(EntryCommitted, accountID, req, 4), false, nil
			},
		}

		assert.NoError(t, testService(t, store).Refund(context.Background(), requestID))
	})

	t.Run("repeated refund is a no-op", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{
			RefundFunc: func(_ context.Context, req uuid.UUID) (*LedgerEntry, bool, error) {
				return entryIn(EntryRefunded, accountID, req, 4), false, nil
			},
		}

		assert.NoError(t, testService(t, store).Refund(context.Background(), requestID))
	})
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewService(nil, logger)
	assert.Error(t, err)

	_, err = NewService(&mockStore{}, nil)
	assert.Error(t, err)
}
