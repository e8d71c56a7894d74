// Package credit implements reservation-based credit metering for
// generation requests. Every request reserves its full cost before any
// provider is called, then commits or refunds exactly once; the request
// ID doubles as the idempotency key, so retried calls replay their
// original outcome instead of moving money twice.
//
// The package owns the metering semantics; the atomicity lives in the
// Store implementations backing it.
package credit
