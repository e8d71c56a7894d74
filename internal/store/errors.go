package store

import "errors"

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested row does not exist in the
	// store. Ledger stores translate this into the credit package's
	// entity-specific sentinels before returning.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a
	// uniqueness guarantee (e.g., a second entry for the same request ID).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored or after being read back. Check the wrapped error for
	// specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")
)
