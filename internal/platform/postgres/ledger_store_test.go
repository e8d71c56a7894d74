package postgres

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nevishq/genforge/internal/credit"
	"github.com/nevishq/genforge/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getLedgerTestDB connects to the test database and makes sure the
// ledger schema is in place.
func getLedgerTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db := testdb.Connect(t)
	testdb.SetupSchema(t, db)
	return db
}

// newFundedAccount creates an account with the given starting balance
// and registers cleanup of its rows.
func newFundedAccount(
	ctx context.Context,
	t *testing.T,
	db *sql.DB,
	ledger *PostgresLedger,
	balance float64,
) uuid.UUID {
	t.Helper()

	accountID := uuid.New()
	require.NoError(t, ledger.CreditAccount(ctx, accountID, balance))

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM credit_ledger WHERE account_id = $1", accountID)
		_, _ = db.Exec("DELETE FROM credit_accounts WHERE account_id = $1", accountID)
	})
	return accountID
}

func TestPostgresLedgerReserveLifecycle(t *testing.T) {
	testdb.SkipWithoutDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	db := getLedgerTestDB(t)
	ledger := NewPostgresLedger(db, nil)
	accountID := newFundedAccount(ctx, t, db, ledger, 100)
	requestID := uuid.New()

	entry, created, err := ledger.Reserve(ctx, accountID, requestID, 25)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, credit.EntryReserved, entry.State)
	assert.Equal(t, accountID, entry.AccountID)
	assert.Equal(t, requestID, entry.RequestID)
	assert.Equal(t, 25.0, entry.Amount)

	balance, err := ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, balance)

	// Replaying the same request ID returns the entry untouched.
	replay, created, err := ledger.Reserve(ctx, accountID, requestID, 25)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, entry.ID, replay.ID)

	balance, err = ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, balance, "replay must not withhold twice")

	committed, changed, err := ledger.Commit(ctx, requestID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, credit.EntryCommitted, committed.State)

	// Commit spends the withheld amount, so the balance stays put.
	balance, err = ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, balance)

	again, changed, err := ledger.Commit(ctx, requestID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, credit.EntryCommitted, again.State)

	// Refund after commit is a no-op.
	refunded, changed, err := ledger.Refund(ctx, requestID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, credit.EntryCommitted, refunded.State)
}

func TestPostgresLedgerReserveDeclined(t *testing.T) {
	testdb.SkipWithoutDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	db := getLedgerTestDB(t)
	ledger := NewPostgresLedger(db, nil)
	accountID := newFundedAccount(ctx, t, db, ledger, 10)
	requestID := uuid.New()

	entry, created, err := ledger.Reserve(ctx, accountID, requestID, 25)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, credit.EntryDeclined, entry.State)

	balance, err := ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, balance, "declined reservation must not withhold")

	// A declined entry replays as declined even after a top-up; a fresh
	// request ID is needed to try again.
	require.NoError(t, ledger.CreditAccount(ctx, accountID, 90))

	replay, created, err := ledger.Reserve(ctx, accountID, requestID, 25)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, credit.EntryDeclined, replay.State)

	fresh, created, err := ledger.Reserve(ctx, accountID, uuid.New(), 25)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, credit.EntryReserved, fresh.State)
}

func TestPostgresLedgerRefund(t *testing.T) {
	testdb.SkipWithoutDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	db := getLedgerTestDB(t)
	ledger := NewPostgresLedger(db, nil)
	accountID := newFundedAccount(ctx, t, db, ledger, 50)
	requestID := uuid.New()

	_, _, err := ledger.Reserve(ctx, accountID, requestID, 20)
	require.NoError(t, err)

	balance, err := ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, balance)

	entry, changed, err := ledger.Refund(ctx, requestID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, credit.EntryRefunded, entry.State)

	balance, err = ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, balance)

	// Refund replay must not credit the account twice.
	again, changed, err := ledger.Refund(ctx, requestID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, credit.EntryRefunded, again.State)

	balance, err = ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, balance)

	// Commit of a refunded entry is a no-op.
	committed, changed, err := ledger.Commit(ctx, requestID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, credit.EntryRefunded, committed.State)
}

func TestPostgresLedgerNotFound(t *testing.T) {
	testdb.SkipWithoutDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	db := getLedgerTestDB(t)
	ledger := NewPostgresLedger(db, nil)

	_, err := ledger.Balance(ctx, uuid.New())
	assert.ErrorIs(t, err, credit.ErrAccountNotFound)

	_, err = ledger.GetEntry(ctx, uuid.New())
	assert.ErrorIs(t, err, credit.ErrReservationNotFound)

	_, _, err = ledger.Commit(ctx, uuid.New())
	assert.ErrorIs(t, err, credit.ErrReservationNotFound)

	_, _, err = ledger.Refund(ctx, uuid.New())
	assert.ErrorIs(t, err, credit.ErrReservationNotFound)

	_, _, err = ledger.Reserve(ctx, uuid.New(), uuid.New(), 5)
	assert.ErrorIs(t, err, credit.ErrAccountNotFound)
}

func TestPostgresLedgerCreditAccountAccumulates(t *testing.T) {
	testdb.SkipWithoutDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	db := getLedgerTestDB(t)
	ledger := NewPostgresLedger(db, nil)
	accountID := newFundedAccount(ctx, t, db, ledger, 10)

	require.NoError(t, ledger.CreditAccount(ctx, accountID, 15.5))

	balance, err := ledger.Balance(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 25.5, balance)
}

func TestPostgresLedgerConcurrentReserve(t *testing.T) {
	testdb.SkipWithoutDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := getLedgerTestDB(t)
	ledger := NewPostgresLedger(db, nil)

	t.Run("same request ID creates one entry", func(t *testing.T) {
		accountID := newFundedAccount(ctx, t, db, ledger, 100)
		requestID := uuid.New()

		const workers = 8
		createdCount := make(chan bool, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, created, err := ledger.Reserve(ctx, accountID, requestID, 2)
				if err != nil {
					t.Errorf("concurrent reserve failed: %v", err)
					return
				}
				createdCount <- created
			}()
		}
		wg.Wait()
		close(createdCount)

		total := 0
		for created := range createdCount {
			if created {
				total++
			}
		}
		assert.Equal(t, 1, total, "exactly one call must create the entry")

		balance, err := ledger.Balance(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, 98.0, balance, "only one withhold must land")
	})

	t.Run("distinct request IDs never overdraw", func(t *testing.T) {
		accountID := newFundedAccount(ctx, t, db, ledger, 5)

		const workers = 10
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := ledger.Reserve(ctx, accountID, uuid.New(), 1)
				if err != nil {
					t.Errorf("concurrent reserve failed: %v", err)
				}
			}()
		}
		wg.Wait()

		balance, err := ledger.Balance(ctx, accountID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, balance, "five reservations succeed, five decline")
	})
}
