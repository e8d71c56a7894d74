// Package redis provides the Redis implementation of the credit ledger
// interface defined in the internal/credit package. Balances live as
// plain float keys and ledger entries as JSON values; every multi-step
// transition runs inside a Lua script so concurrent calls observe the
// same atomicity the SQL implementation gets from row locks.
package redis
