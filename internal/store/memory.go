package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nevishq/genforge/internal/credit"
)

// MemoryLedger is an in-memory credit.Store guarded by a single mutex.
// It backs tests and single-process deployments; the Postgres and Redis
// stores provide the same semantics when state must outlive the process
// or be shared across replicas.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]float64
	entries  map[uuid.UUID]*credit.LedgerEntry // keyed by request ID
}

// Compile-time check that MemoryLedger satisfies the credit.Store interface.
var _ credit.Store = (*MemoryLedger)(nil)

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[uuid.UUID]float64),
		entries:  make(map[uuid.UUID]*credit.LedgerEntry),
	}
}

// Balance returns the available credits for an account.
func (m *MemoryLedger) Balance(ctx context.Context, accountID uuid.UUID) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[accountID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", credit.ErrAccountNotFound, accountID)
	}
	return balance, nil
}

// GetEntry returns the ledger entry for a request ID.
func (m *MemoryLedger) GetEntry(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[requestID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", credit.ErrReservationNotFound, requestID)
	}
	return copyEntry(entry), nil
}

// Reserve withholds amount from the account balance and records a
// reserved entry, or records a declined entry when the balance cannot
// cover the amount. An existing entry for the request ID is returned
// untouched.
func (m *MemoryLedger) Reserve(
	ctx context.Context,
	accountID, requestID uuid.UUID,
	amount float64,
) (*credit.LedgerEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.entries[requestID]; ok {
		return copyEntry(entry), false, nil
	}

	balance, ok := m.balances[accountID]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", credit.ErrAccountNotFound, accountID)
	}

	now := time.Now().UTC()
	entry := &credit.LedgerEntry{
		ID:        uuid.New(),
		AccountID: accountID,
		RequestID: requestID,
		Amount:    amount,
		State:     credit.EntryReserved,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if balance < amount {
		entry.State = credit.EntryDeclined
	} else {
		m.balances[accountID] = balance - amount
	}
	m.entries[requestID] = entry

	return copyEntry(entry), true, nil
}

// Commit transitions a reserved entry to committed. Entries in any
// other state are returned unchanged.
func (m *MemoryLedger) Commit(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[requestID]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", credit.ErrReservationNotFound, requestID)
	}
	if entry.State != credit.EntryReserved {
		return copyEntry(entry), false, nil
	}

	entry.State = credit.EntryCommitted
	entry.UpdatedAt = time.Now().UTC()
	return copyEntry(entry), true, nil
}

// Refund transitions a reserved entry to refunded and restores the
// withheld amount to the account balance.
func (m *MemoryLedger) Refund(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[requestID]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", credit.ErrReservationNotFound, requestID)
	}
	if entry.State != credit.EntryReserved {
		return copyEntry(entry), false, nil
	}

	entry.State = credit.EntryRefunded
	entry.UpdatedAt = time.Now().UTC()
	m.balances[entry.AccountID] += entry.Amount
	return copyEntry(entry), true, nil
}

// CreditAccount adds amount to an account's balance, creating the
// account when it does not exist.
func (m *MemoryLedger) CreditAccount(ctx context.Context, accountID uuid.UUID, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %v", credit.ErrInvalidAmount, amount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[accountID] += amount
	return nil
}

// copyEntry returns a copy so callers cannot mutate ledger state held
// behind the mutex.
func copyEntry(e *credit.LedgerEntry) *credit.LedgerEntry {
	c := *e
	return &c
}
