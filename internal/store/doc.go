// Package store holds the persistence building blocks shared by the
// ledger store implementations: the in-memory ledger, the transaction
// helper the Postgres ledger is built on, and the error sentinels
// stores wrap their backend failures in. Metering rules live in the
// credit package; this layer only moves data.
package store
