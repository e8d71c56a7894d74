// Package postgres provides the PostgreSQL implementation of the credit
// ledger interface defined in the internal/credit package. It handles
// query execution, row locking, and the mapping between ledger entities
// and database rows. Metering policy stays in the credit package; this
// layer's one promise is that each interface method is atomic.
package postgres
