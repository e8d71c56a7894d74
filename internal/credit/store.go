package credit

import (
	"context"

	"github.com/google/uuid"
)

// Store persists account balances and the reservation ledger. Each
// method is atomic with respect to concurrent calls touching the same
// account or request ID; that atomicity is the store's one job, and
// every implementation provides it with its backend's native mechanism
// (a mutex, a conditional SQL update, a Lua script).
type Store interface {
	// Balance returns the available credits for an account, after active
	// reservations. Unknown accounts return ErrAccountNotFound.
	Balance(ctx context.Context, accountID uuid.UUID) (float64, error)

	// GetEntry returns the ledger entry governing a request ID, or
	// ErrReservationNotFound.
	GetEntry(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, error)

	// Reserve records the outcome of one reservation attempt. When no
	// entry exists for requestID it atomically checks the balance,
	// withholds amount on success, and inserts a reserved entry, or
	// inserts a declined entry when the balance cannot cover it. When an
	// entry already exists it is returned untouched.
	//
	// The bool reports whether this call created the entry. Unknown
	// accounts return ErrAccountNotFound.
	Reserve(ctx context.Context, accountID, requestID uuid.UUID, amount float64) (*LedgerEntry, bool, error)

	// Commit transitions a reserved entry to committed. Entries in any
	// other state are returned unchanged; interpreting that is the
	// service's job. The bool reports whether this call changed the
	// entry. Unknown request IDs return ErrReservationNotFound.
	Commit(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, bool, error)

	// Refund transitions a reserved entry to refunded and restores the
	// withheld amount to the account balance, atomically. Entries in any
	// other state are returned unchanged. The bool reports whether this
	// call changed the entry. Unknown request IDs return
	// ErrReservationNotFound.
	Refund(ctx context.Context, requestID uuid.UUID) (*LedgerEntry, bool, error)

	// CreditAccount adds amount to an account's balance, creating the
	// account when it does not exist. Used by provisioning and top-ups.
	CreditAccount(ctx context.Context, accountID uuid.UUID, amount float64) error
}
