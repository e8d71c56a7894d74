package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nevishq/genforge/internal/provider"
)

// usableCandidate pulls the first candidate out of a response, mapping
// safety blocks and empty responses onto the provider error taxonomy.
func usableCandidate(resp *genai.GenerateContentResponse) (*genai.Candidate, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", provider.ErrInvalidResponse)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked: %s",
			provider.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", provider.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety ||
		candidate.FinishReason == genai.FinishReasonProhibitedContent {
		return nil, fmt.Errorf("%w: generation stopped: %s",
			provider.ErrContentBlocked, candidate.FinishReason)
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content in response", provider.ErrInvalidResponse)
	}

	return candidate, nil
}

// textFromResponse concatenates the text parts of the first candidate.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := usableCandidate(resp)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("%w: response carries no text", provider.ErrInvalidResponse)
	}

	return text.String(), nil
}

// imageFromResponse extracts the first inline image payload of the first
// candidate as a data URL.
func imageFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	candidate, err := usableCandidate(resp)
	if err != nil {
		return "", err
	}

	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mime := part.InlineData.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return provider.DataURL(mime, part.InlineData.Data), nil
	}

	if candidate.FinishReason != "" && candidate.FinishReason != genai.FinishReasonStop {
		return "", fmt.Errorf("%w: no image payload, finish reason %s",
			provider.ErrInvalidResponse, candidate.FinishReason)
	}
	return "", fmt.Errorf("%w: response carries no image payload", provider.ErrInvalidResponse)
}
