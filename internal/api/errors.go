package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nevishq/genforge/internal/brand"
	"github.com/nevishq/genforge/internal/credit"
	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/orchestrator"
	"github.com/nevishq/genforge/internal/provider"
	"github.com/nevishq/genforge/internal/registry"
	"github.com/nevishq/genforge/internal/resilience"
)

// MapErrorToStatusCode maps engine errors to HTTP status codes. Errors
// outside the known taxonomy fall through to 500 so internal details
// never steer the response.
func MapErrorToStatusCode(err error) int {
	switch {
	// Malformed or unsatisfiable requests
	case errors.Is(err, registry.ErrUnknownTier),
		errors.Is(err, orchestrator.ErrTooManyVariants),
		errors.Is(err, domain.ErrUnknownPlatform),
		errors.Is(err, domain.ErrUnknownAspectRatio),
		errors.Is(err, domain.ErrEmptyTopic),
		errors.Is(err, domain.ErrEmptyBusinessName),
		errors.Is(err, domain.ErrUnknownBusinessType),
		errors.Is(err, domain.ErrEmptyRequestID),
		errors.Is(err, domain.ErrEmptyAccountID),
		errors.Is(err, domain.ErrEmptyTier):
		return http.StatusBadRequest

	// Billing errors
	case errors.Is(err, credit.ErrInsufficientCredits):
		return http.StatusPaymentRequired

	// Not found errors
	case errors.Is(err, credit.ErrAccountNotFound),
		errors.Is(err, brand.ErrProfileNotFound):
		return http.StatusNotFound

	// Idempotency conflicts
	case errors.Is(err, credit.ErrReservationConflict):
		return http.StatusConflict

	// Provider refused the content itself
	case errors.Is(err, provider.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Upstream pressure
	case errors.Is(err, provider.ErrRateLimited):
		return http.StatusTooManyRequests

	case errors.Is(err, resilience.ErrProvidersExhausted),
		errors.Is(err, provider.ErrUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// given error. Raw error strings never reach clients; anything unmapped
// gets the generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, registry.ErrUnknownTier):
		return "Unknown generation tier"

	case errors.Is(err, orchestrator.ErrTooManyVariants):
		return "Too many image variants for this tier"

	case errors.Is(err, domain.ErrUnknownPlatform):
		return "Unknown platform"

	case errors.Is(err, domain.ErrUnknownAspectRatio):
		return "Unknown aspect ratio"

	case errors.Is(err, domain.ErrEmptyTopic):
		return "Content topic is required"

	case errors.Is(err, domain.ErrEmptyBusinessName):
		return "Brand business name is required"

	case errors.Is(err, domain.ErrUnknownBusinessType):
		return "Unknown business type"

	case errors.Is(err, domain.ErrEmptyRequestID),
		errors.Is(err, domain.ErrEmptyAccountID),
		errors.Is(err, domain.ErrEmptyTier):
		return "Invalid generation request"

	case errors.Is(err, credit.ErrInsufficientCredits):
		return "Insufficient credits"

	case errors.Is(err, credit.ErrAccountNotFound):
		return "Account not found"

	case errors.Is(err, brand.ErrProfileNotFound):
		return "No brand profile found for this account"

	case errors.Is(err, credit.ErrReservationConflict):
		return "Request ID already used with different parameters"

	case errors.Is(err, provider.ErrContentBlocked):
		return "The request was declined by the provider's content filters"

	case errors.Is(err, provider.ErrRateLimited):
		return "Generation providers are rate limiting requests"

	case errors.Is(err, resilience.ErrProvidersExhausted),
		errors.Is(err, provider.ErrUnavailable):
		return "Generation providers are currently unavailable"

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return "The generation timed out"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a user-friendly
// message naming the first failed field, without echoing submitted values.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// validationTagMessage maps validation tags to user-friendly fragments.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid":
		return "must be a UUID"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
