package provider

import "errors"

// Common errors returned by provider adapters. Adapters map their raw
// transport and API errors onto these so routing decisions never depend
// on provider-specific error shapes.
var (
	// ErrRateLimited is returned when a backend rejects a call for quota
	// or request-rate reasons. Retrying the same backend will not help
	// within the current window; callers should fail over instead.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrUnavailable is returned for transient overload or availability
	// failures that may resolve on retry against the same backend.
	ErrUnavailable = errors.New("provider temporarily unavailable")

	// ErrContentBlocked is returned when a backend refuses the request on
	// safety grounds. Retrying the identical prompt is pointless.
	ErrContentBlocked = errors.New("content blocked by provider safety filters")

	// ErrInvalidResponse is returned when a backend responds with a
	// payload the adapter cannot use.
	ErrInvalidResponse = errors.New("invalid response from provider")

	// ErrInvalidConfig is returned when an adapter's configuration is
	// invalid.
	ErrInvalidConfig = errors.New("invalid provider configuration")

	// ErrUnknownProvider is returned when a directory lookup names a ref
	// no client was registered for.
	ErrUnknownProvider = errors.New("unknown provider ref")
)
