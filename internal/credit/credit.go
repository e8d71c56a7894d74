package credit

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryState is the lifecycle state of a ledger entry.
type EntryState string

// Possible ledger entry states. Declined entries record a reservation
// that failed its balance check; they hold no credits but make the
// failure replayable for retried request IDs.
const (
	EntryReserved  EntryState = "reserved"
	EntryCommitted EntryState = "committed"
	EntryRefunded  EntryState = "refunded"
	EntryDeclined  EntryState = "declined"
)

// Common errors returned by the credit service and its stores.
var (
	// ErrInsufficientCredits is returned when an account's available
	// balance cannot cover a reservation.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrAccountNotFound is returned when an operation names an account
	// the store has no balance row for.
	ErrAccountNotFound = errors.New("account not found")

	// ErrReservationNotFound is returned when a commit or refund names a
	// request ID with no ledger entry.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrReservationConflict is returned when a reserve reuses a request
	// ID with a different account or amount than the original call.
	ErrReservationConflict = errors.New("request ID already used with different parameters")

	// ErrReservationRefunded is returned when a commit names a
	// reservation that was already refunded.
	ErrReservationRefunded = errors.New("reservation already refunded")

	// ErrInvalidAmount is returned when a reserve amount is not positive.
	ErrInvalidAmount = errors.New("reserve amount must be positive")
)

// LedgerEntry is one reservation and its lifecycle. At most one
// non-refunded entry exists per request ID; stores enforce that with a
// uniqueness guarantee on RequestID.
type LedgerEntry struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"account_id"`
	RequestID uuid.UUID  `json:"request_id"`
	Amount    float64    `json:"amount"`
	State     EntryState `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Validate checks if the LedgerEntry has valid data. Stores call it on
// entries read back from their backend, so a corrupted row surfaces as
// an error instead of flowing into metering decisions.
func (e *LedgerEntry) Validate() error {
	if e.ID == uuid.Nil {
		return errors.New("ledger entry ID cannot be empty")
	}

	if e.AccountID == uuid.Nil {
		return errors.New("ledger entry account ID cannot be empty")
	}

	if e.RequestID == uuid.Nil {
		return errors.New("ledger entry request ID cannot be empty")
	}

	if e.Amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, e.Amount)
	}

	if !isValidEntryState(e.State) {
		return fmt.Errorf("invalid ledger entry state %q", e.State)
	}

	return nil
}

// isValidEntryState checks if the given state is a valid EntryState.
func isValidEntryState(s EntryState) bool {
	switch s {
	case EntryReserved, EntryCommitted, EntryRefunded, EntryDeclined:
		return true
	default:
		return false
	}
}
