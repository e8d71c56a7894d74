package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/nevishq/genforge/internal/provider"
)

// Error definitions for the gemini package.
var (
	// ErrEmptyPrompt is returned when a request carries no prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

// mapError translates a Gemini API error into the provider error
// taxonomy. Context errors pass through untouched so cancellation is
// never mistaken for a provider fault.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", provider.ErrRateLimited, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
		}
		// 4xx other than 429 will not improve on retry.
		return fmt.Errorf("gemini API error: %w", err)
	}

	// Transport-level failures (DNS, connect, TLS) may recover on retry.
	return fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
}
