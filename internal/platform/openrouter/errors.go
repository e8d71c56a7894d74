package openrouter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nevishq/genforge/internal/provider"
)

// Error definitions for the openrouter package.
var (
	// ErrEmptyPrompt is returned when a request carries no prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

// maxResponseBytes caps how much of a response body is read. Image
// payloads arrive base64-encoded inside the JSON, so the cap is generous.
const maxResponseBytes = 32 << 20

// statusError translates an HTTP status code into the provider error
// taxonomy. OpenRouter uses 403 for moderation blocks and the usual
// 429/5xx split for load problems.
func statusError(code int, body []byte) error {
	detail := truncate(string(body), 256)

	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d: %s", provider.ErrRateLimited, code, detail)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", provider.ErrContentBlocked, code, detail)
	case code == http.StatusRequestTimeout || code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d: %s", provider.ErrUnavailable, code, detail)
	}

	// Remaining 4xx (bad request, bad credentials, out of credits) will
	// not improve on retry.
	return fmt.Errorf("openrouter API error: status %d: %s", code, detail)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
