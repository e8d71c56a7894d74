package provider

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nevishq/genforge/internal/domain"
)

// DataURL encodes an image payload as a data URL, the transport format
// variant results carry for inline creatives.
func DataURL(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// contentSchema is the JSON contract the text prompt asks models for.
type contentSchema struct {
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline"`
	Caption     string   `json:"caption"`
	ImageText   string   `json:"image_text"`
	Hashtags    []string `json:"hashtags"`
}

// ParseContent parses a model's raw text answer into the content bundle.
// Models wrap JSON in markdown fences often enough that fences are
// stripped before unmarshalling. Shared by all adapters so every backend
// is held to the same contract.
func ParseContent(raw string) (domain.GeneratedContent, error) {
	trimmed := stripFences(strings.TrimSpace(raw))
	if trimmed == "" {
		return domain.GeneratedContent{}, fmt.Errorf("%w: empty text response", ErrInvalidResponse)
	}

	var payload contentSchema
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("%w: failed to parse content JSON: %v", ErrInvalidResponse, err)
	}

	if payload.Headline == "" && payload.Caption == "" {
		return domain.GeneratedContent{}, fmt.Errorf("%w: content bundle has neither headline nor caption", ErrInvalidResponse)
	}

	return domain.GeneratedContent{
		Headline:    payload.Headline,
		Subheadline: payload.Subheadline,
		Caption:     payload.Caption,
		ImageText:   payload.ImageText,
		Hashtags:    payload.Hashtags,
	}, nil
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag, leaving the payload untouched otherwise.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}
