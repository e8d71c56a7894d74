package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nevishq/genforge/internal/credit"
	"github.com/nevishq/genforge/internal/platform/logger"
)

// Key layout. Account balances are float strings so INCRBYFLOAT works
// on them; entries are JSON so the scripts can inspect state with
// cjson.
const (
	accountKeyPrefix = "genforge:credits:account:"
	entryKeyPrefix   = "genforge:credits:entry:"
)

// Script replies are {flag, entryJSON} pairs. A negative flag means the
// referenced account or entry does not exist, zero means the entry was
// found but left untouched, one means this call wrote it.
const (
	replyMissing   = -1
	replyUntouched = 0
	replyWritten   = 1
)

// reserveScript replays an existing entry, or checks the balance and
// inserts a reserved or declined entry. ARGV carries both candidate
// JSON payloads so the script never has to build one.
var reserveScript = goredis.NewScript(`
local existing = redis.call("GET", KEYS[2])
if existing then
  return {0, existing}
end
if redis.call("EXISTS", KEYS[1]) == 0 then
  return {-1, ""}
end
local balance = tonumber(redis.call("GET", KEYS[1]))
if balance >= tonumber(ARGV[1]) then
  redis.call("INCRBYFLOAT", KEYS[1], "-" .. ARGV[1])
  redis.call("SET", KEYS[2], ARGV[2])
  return {1, ARGV[2]}
end
redis.call("SET", KEYS[2], ARGV[3])
return {1, ARGV[3]}
`)

// commitScript moves a reserved entry to committed. Any other state is
// returned untouched.
var commitScript = goredis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return {-1, ""}
end
local entry = cjson.decode(raw)
if entry.state ~= "reserved" then
  return {0, raw}
end
entry.state = "committed"
entry.updated_at = ARGV[1]
local updated = cjson.encode(entry)
redis.call("SET", KEYS[1], updated)
return {1, updated}
`)

// refundScript moves a reserved entry to refunded and restores the
// withheld amount in the same script invocation.
var refundScript = goredis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return {-1, ""}
end
local entry = cjson.decode(raw)
if entry.state ~= "reserved" then
  return {0, raw}
end
entry.state = "refunded"
entry.updated_at = ARGV[1]
local updated = cjson.encode(entry)
redis.call("SET", KEYS[1], updated)
redis.call("INCRBYFLOAT", KEYS[2], tostring(entry.amount))
return {1, updated}
`)

// RedisLedger implements the credit.Store interface using Redis as the
// storage backend.
type RedisLedger struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewRedisLedger creates a new Redis implementation of the credit.Store
// interface. The client should be initialized and pinged by the caller.
// If logger is nil, a default logger will be used.
func NewRedisLedger(client *goredis.Client, logger *slog.Logger) *RedisLedger {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RedisLedger{
		client: client,
		logger: logger.With(slog.String("component", "redis_ledger_store")),
	}
}

// Ensure RedisLedger implements the credit.Store interface
var _ credit.Store = (*RedisLedger)(nil)

// Balance implements credit.Store.Balance
// Returns credit.ErrAccountNotFound if no balance key exists.
func (s *RedisLedger) Balance(ctx context.Context, accountID uuid.UUID) (float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := s.client.Get(ctx, accountKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, fmt.Errorf("%w: %s", credit.ErrAccountNotFound, accountID)
		}

		log.Error("failed to read account balance",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return 0, err
	}

	balance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt balance for account %s: %w", accountID, err)
	}

	return balance, nil
}

// GetEntry implements credit.Store.GetEntry
// Returns credit.ErrReservationNotFound if no entry key exists.
func (s *RedisLedger) GetEntry(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := s.client.Get(ctx, entryKey(requestID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, fmt.Errorf("%w: request %s", credit.ErrReservationNotFound, requestID)
		}

		log.Error("failed to read ledger entry",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID.String()))
		return nil, err
	}

	return decodeEntry([]byte(raw))
}

// Reserve implements credit.Store.Reserve
// The whole check-and-insert runs in one Lua script, so concurrent
// reservations against the same account serialize inside Redis.
// Returns credit.ErrAccountNotFound if no balance key exists.
func (s *RedisLedger) Reserve(
	ctx context.Context,
	accountID, requestID uuid.UUID,
	amount float64,
) (*credit.LedgerEntry, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return nil, false, fmt.Errorf("%w: %v", credit.ErrInvalidAmount, amount)
	}

	now := time.Now().UTC()
	reserved, err := encodeEntry(accountID, requestID, amount, credit.EntryReserved, now)
	if err != nil {
		return nil, false, err
	}
	declined, err := encodeEntry(accountID, requestID, amount, credit.EntryDeclined, now)
	if err != nil {
		return nil, false, err
	}

	res, err := reserveScript.Run(
		ctx,
		s.client,
		[]string{accountKey(accountID), entryKey(requestID)},
		formatAmount(amount),
		reserved,
		declined,
	).Result()
	if err != nil {
		log.Error("reserve script failed",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()),
			slog.String("request_id", requestID.String()))
		return nil, false, err
	}

	flag, raw, err := scriptReply(res)
	if err != nil {
		return nil, false, err
	}
	if flag == replyMissing {
		log.Warn("reservation against unknown account",
			slog.String("account_id", accountID.String()),
			slog.String("request_id", requestID.String()))
		return nil, false, fmt.Errorf("%w: %s", credit.ErrAccountNotFound, accountID)
	}

	entry, err := decodeEntry([]byte(raw))
	if err != nil {
		return nil, false, err
	}

	created := flag == replyWritten
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
// Returns credit.ErrReservationNotFound if no entry key exists.
func (s *RedisLedger) Commit(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := commitScript.Run(
		ctx,
		s.client,
		[]string{entryKey(requestID)},
		time.Now().UTC().Format(time.RFC3339Nano),
	).Result()
	if err != nil {
		log.Error("commit script failed",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID.String()))
		return nil, false, err
	}

	entry, changed, err := transitionReply(res, requestID)
	if err != nil {
		return nil, false, err
	}

	if changed {
		log.Info("reservation committed",
			slog.String("request_id", requestID.String()),
			slog.Float64("amount", entry.Amount))
	} else {
		log.Debug("commit found entry outside reserved state",
			slog.String("request_id", requestID.String()),
			slog.String("state", string(entry.State)))
	}

	return entry, changed, nil
}

// Refund implements credit.Store.Refund
// The entry's account ID is read first to name the balance key; the
// script re-checks the state, so the read is only a key lookup, not a
// decision.
// Returns credit.ErrReservationNotFound if no entry key exists.
func (s *RedisLedger) Refund(ctx context.Context, requestID uuid.UUID) (*credit.LedgerEntry, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.GetEntry(ctx, requestID)
	if err != nil {
		return nil, false, err
	}

	res, err := refundScript.Run(
		ctx,
		s.client,
		[]string{entryKey(requestID), accountKey(existing.AccountID)},
		time.Now().UTC().Format(time.RFC3339Nano),
	).Result()
	if err != nil {
		log.Error("refund script failed",
			slog.String("error", err.Error()),
			slog.String("request_id", requestID.String()))
		return nil, false, err
	}

	entry, changed, err := transitionReply(res, requestID)
	if err != nil {
		return nil, false, err
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
// INCRBYFLOAT creates the balance key when it does not exist, which is
// exactly the interface's account-provisioning contract.
func (s *RedisLedger) CreditAccount(ctx context.Context, accountID uuid.UUID, amount float64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount <= 0 {
		return fmt.Errorf("%w: %v", credit.ErrInvalidAmount, amount)
	}

	if err := s.client.IncrByFloat(ctx, accountKey(accountID), amount).Err(); err != nil {
		log.Error("failed to credit account",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID.String()))
		return err
	}

	log.Info("account credited",
		slog.String("account_id", accountID.String()),
		slog.Float64("amount", amount))
	return nil
}

func accountKey(accountID uuid.UUID) string {
	return accountKeyPrefix + accountID.String()
}

func entryKey(requestID uuid.UUID) string {
	return entryKeyPrefix + requestID.String()
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func encodeEntry(
	accountID, requestID uuid.UUID,
	amount float64,
	state credit.EntryState,
	now time.Time,
) (string, error) {
	entry := credit.LedgerEntry{
		ID:        uuid.New(),
		AccountID: accountID,
		RequestID: requestID,
		Amount:    amount,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode ledger entry: %w", err)
	}
	return string(raw), nil
}

// decodeEntry unmarshals and validates a stored entry, so a corrupted
// value surfaces here instead of inside metering decisions.
func decodeEntry(raw []byte) (*credit.LedgerEntry, error) {
	var entry credit.LedgerEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("corrupt ledger entry: %w", err)
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger entry for request %s: %w", entry.RequestID, err)
	}
	return &entry, nil
}

// scriptReply unpacks the {flag, entryJSON} pair the ledger scripts
// return.
func scriptReply(res interface{}) (int64, string, error) {
	pair, ok := res.([]interface{})
	if !ok || len(pair) != 2 {
		return 0, "", fmt.Errorf("unexpected script reply type %T", res)
	}

	flag, ok := pair[0].(int64)
	if !ok {
		return 0, "", fmt.Errorf("unexpected script flag type %T", pair[0])
	}

	raw, ok := pair[1].(string)
	if !ok {
		return 0, "", fmt.Errorf("unexpected script payload type %T", pair[1])
	}

	return flag, raw, nil
}

func transitionReply(res interface{}, requestID uuid.UUID) (*credit.LedgerEntry, bool, error) {
	flag, raw, err := scriptReply(res)
	if err != nil {
		return nil, false, err
	}
	if flag == replyMissing {
		return nil, false, fmt.Errorf("%w: request %s", credit.ErrReservationNotFound, requestID)
	}

	entry, err := decodeEntry([]byte(raw))
	if err != nil {
		return nil, false, err
	}

	return entry, flag == replyWritten, nil
}
