package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nevishq/genforge/internal/credit"
	"github.com/nevishq/genforge/internal/platform/logger"
	"github.com/nevishq/genforge/internal/store"
)

// PostgresLedger implements the credit.Store interface using a
// PostgreSQL database as the storage backend. Reservation atomicity
// comes from a row lock on the account row plus the unique index on
// request_id; commit relies on a conditional update keyed by the entry
// state.
type PostgresLedger struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresLedger creates a new PostgreSQL implementation of the
// credit.Store interface. It accepts an open database handle and opens
// its own transactions on it. If logger is nil, a default logger will
// be used.
func NewPostgresLedger(db *sql.DB, logger *slog.Logger) *PostgresLedger {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLedger{
		db:     db,
		logger: logger.With(slog.String("component", "ledger_store")),
	}
}

// Ensure PostgresLedger implements the credit.Store interface
var _ credit.Store = (*PostgresLedger)(nil)

// Balance implements credit.Store.Balance
// It returns the available balance for an account, after active
// reservations (withheld amounts are already subtracted from the row).
// Returns credit.ErrAccountNotFound if no account row exists.
func (s *PostgresLedger) Balance(ctx context.Context, accountID uuid.UUID) (float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT balance
		FROM credit_accounts
		WHERE account_id = $1
	`
	var balance float64
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("account not found",
				slog.String("account_id", accountID.String()))
			return 0, fmt.Errorf("%w: %s", credit.ErrAccountNotFound, accountID)
		}

		log.Error("failed to read account balance",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return 0, MapError(err)
	}

	return balance, nil
}

// GetEntry implements credit.Store.GetEntry
// It retrieves the ledger entry governing a request ID.
// Returns credit.ErrReservationNotFound if no entry exists.
func (s *PostgresLedger) GetEntry(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, account_id, request_id, amount, state, created_at, updated_at
		FROM credit_ledger
		WHERE request_id = $1
	`
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: request %s", credit.ErrReservationNotFound, requestID)
		}

		log.Error("failed to read ledger entry",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID.String()))
		return nil, MapError(err)
	}

	return entry, nil
}

// Reserve implements credit.Store.Reserve
// It records the outcome of one reservation attempt. The account row is
// locked for the duration of the transaction, so concurrent
// reservations against the same account serialize on the balance check.
// A replayed request ID returns the existing entry untouched.
// Returns credit.ErrAccountNotFound if no account row exists.
func (s *PostgresLedger) Reserve(
	ctx context.Context,
	accountID, requestID uuid.UUID,
	amount float64,
) (*credit.LedgerEntry, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return nil, false, fmt.Errorf("%w: %v", credit.ErrInvalidAmount, amount)
	}

	var (
		entry   *credit.LedgerEntry
		created bool
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		existingQuery := `
			SELECT id, account_id, request_id, amount, state, created_at, updated_at
			FROM credit_ledger
			WHERE request_id = $1
		`
		existing, err := scanEntry(tx.QueryRowContext(ctx, existingQuery, requestID))
		if err == nil {
			entry = existing
			created = false
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		balanceQuery := `
			SELECT balance
			FROM credit_accounts
			WHERE account_id = $1
			FOR UPDATE
		`
		var balance float64
		err = tx.QueryRowContext(ctx, balanceQuery, accountID).Scan(&balance)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", credit.ErrAccountNotFound, accountID)
			}
			return err
		}

		now := time.Now().UTC()

		state := credit.EntryReserved
		if balance < amount {
			state = credit.EntryDeclined
		} else {
			withholdQuery := `
				UPDATE credit_accounts
				SET balance = balance - $1, updated_at = $2
				WHERE account_id = $3
			`
			if _, err := tx.ExecContext(ctx, withholdQuery, amount, now, accountID); err != nil {
				return err
			}
		}

		insertQuery := `
			INSERT INTO credit_ledger (id, account_id, request_id, amount, state, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		e := &credit.LedgerEntry{
			ID:        uuid.New(),
			AccountID: accountID,
			RequestID: requestID,
			Amount:    amount,
			State:     state,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = tx.ExecContext(
			ctx,
			insertQuery,
			e.ID,
			e.AccountID,
			e.RequestID,
			e.Amount,
			e.State,
			e.CreatedAt,
			e.UpdatedAt,
		)
		if err != nil {
			return err
		}

		entry = e
		created = true
		return nil
	})

	if err != nil {
		// Two reservations for the same request ID can both pass the
		// replay check before either inserts. The request_id unique
		// index picks the winner; the loser reads the winner's entry
		// back and reports it as a replay.
		if IsUniqueViolation(err) {
			existing, getErr := s.GetEntry(ctx, requestID)
			if getErr != nil {
				return nil, false, getErr
			}
			log.Debug("reservation replay resolved after insert race",
				slog.String("request_id", requestID.String()))
			return existing, false, nil
		}

		if errors.Is(err, credit.ErrAccountNotFound) {
			log.Warn("reservation against unknown account",
				slog.String("account_id", accountID.String()),
				slog.String("request_id", requestID.String()))
			return nil, false, err
		}

		log.Error("failed to reserve credits",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()),
			slog.String("request_id", requestID.String()))
		return nil, false, MapError(err)
	}

	if created {
		log.Info("ledger entry created",
			slog.String("request_id", requestID.String()),
			slog.String("account_id", accountID.String()),
			slog.String("state", string(entry.State)),
			slog.Float64("amount", entry.Amount))
	} else {
		log.Debug("reservation replayed",
			slog.String("request_id", requestID.String()),
			slog.String("state", string(entry.State)))
	}

	return entry, created, nil
}

// Commit implements credit.Store.Commit
// It transitions a reserved entry to committed with a conditional
// update; the withheld amount stays off the balance. Entries in any
// other state come back unchanged with a false changed flag.
// Returns credit.ErrReservationNotFound if no entry exists.
func (s *PostgresLedger) Commit(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE credit_ledger
		SET state = $1, updated_at = $2
		WHERE request_id = $3 AND state = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		credit.EntryCommitted,
		time.Now().UTC(),
		requestID,
		credit.EntryReserved,
	)
	if err != nil {
		log.Error("failed to commit reservation",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID.String()))
		return nil, false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	// Re-read rather than reconstruct. Entry states only move forward,
	// so the row we read back is the row our update produced, or the
	// terminal state that made the update a no-op.
	entry, err := s.GetEntry(ctx, requestID)
	if err != nil {
		return nil, false, err
	}

	changed := rowsAffected > 0
	if changed {
		log.Info("reservation committed",
			slog.String("request_id", requestID.String()),
			slog.String("account_id", entry.AccountID.String()),
			slog.Float64("amount", entry.Amount))
	} else {
		log.Debug("commit found entry outside reserved state",
			slog.String("request_id", requestID.String()),
			slog.String("state", string(entry.State)))
	}

	return entry, changed, nil
}

// Refund implements credit.Store.Refund
// It transitions a reserved entry to refunded and restores the withheld
// amount to the account balance in one transaction. Entries in any
// other state come back unchanged with a false changed flag.
// Returns credit.ErrReservationNotFound if no entry exists.
func (s *PostgresLedger) Refund(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		entry   *credit.LedgerEntry
		changed bool
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			SELECT id, account_id, request_id, amount, state, created_at, updated_at
			FROM credit_ledger
			WHERE request_id = $1
			FOR UPDATE
		`
		existing, err := scanEntry(tx.QueryRowContext(ctx, query, requestID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: request %s", credit.ErrReservationNotFound, requestID)
			}
			return err
		}

		if existing.State != credit.EntryReserved {
			entry = existing
			changed = false
			return nil
		}

		now := time.Now().UTC()

		updateEntryQuery := `
			UPDATE credit_ledger
			SET state = $1, updated_at = $2
			WHERE id = $3
		`
		if _, err := tx.ExecContext(ctx, updateEntryQuery, credit.EntryRefunded, now, existing.ID); err != nil {
			return err
		}

		restoreQuery := `
			UPDATE credit_accounts
			SET balance = balance + $1, updated_at = $2
			WHERE account_id = $3
		`
		result, err := tx.ExecContext(ctx, restoreQuery, existing.Amount, now, existing.AccountID)
		if err != nil {
			return err
		}
		if err := CheckRowsAffected(result, "credit account"); err != nil {
			return err
		}

		existing.State = credit.EntryRefunded
		existing.UpdatedAt = now
		entry = existing
		changed = true
		return nil
	})

	if err != nil {
		if errors.Is(err, credit.ErrReservationNotFound) {
			return nil, false, err
		}

		log.Error("failed to refund reservation",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID.String()))
		return nil, false, MapError(err)
	}

	if changed {
		log.Info("reservation refunded",
			slog.String("request_id", requestID.String()),
			slog.String("account_id", entry.AccountID.String()),
			slog.Float64("amount", entry.Amount))
	} else {
		log.Debug("refund found entry outside reserved state",
			slog.String("request_id", requestID.String()),
			slog.String("state", string(entry.State)))
	}

	return entry, changed, nil
}

// CreditAccount implements credit.Store.CreditAccount
// It adds amount to an account balance, creating the account row when
// none exists. Returns credit.ErrInvalidAmount for non-positive
// amounts.
func (s *PostgresLedger) CreditAccount(ctx context.Context, accountID uuid.UUID, amount float64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return fmt.Errorf("%w: %v", credit.ErrInvalidAmount, amount)
	}

	query := `
		INSERT INTO credit_accounts (account_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (account_id)
		DO UPDATE SET balance = credit_accounts.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, accountID, amount, time.Now().UTC()); err != nil {
		log.Error("failed to credit account",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return MapError(err)
	}

	log.Info("account credited",
		slog.String("account_id", accountID.String()),
		slog.Float64("amount", amount))
	return nil
}

// scanEntry maps one credit_ledger row onto a LedgerEntry and validates
// it, so a corrupted row surfaces here instead of inside metering
// decisions.
func scanEntry(row *sql.Row) (*credit.LedgerEntry, error) {
	var (
		entry credit.LedgerEntry
		state string
	)
	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.RequestID,
		&entry.Amount,
		&state,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.State = credit.EntryState(state)
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger entry for request %s: %w", entry.RequestID, err)
	}

	return &entry, nil
}
