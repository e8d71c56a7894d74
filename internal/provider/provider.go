package provider

import (
	"context"

	"github.com/nevishq/genforge/internal/domain"
)

// TextRequest is one text-generation call to a backend.
type TextRequest struct {
	// Model is the backend-specific model name serving the call.
	Model string

	// Prompt is the fully composed prompt; adapters send it verbatim.
	Prompt string
}

// TextResult is a backend's answer to a TextRequest.
type TextResult struct {
	// Content is the parsed text bundle.
	Content domain.GeneratedContent

	// Model echoes the model that served the call.
	Model string
}

// ImageRequest is one image-generation call to a backend.
type ImageRequest struct {
	// Model is the backend-specific model name serving the call.
	Model string

	// Prompt is the fully composed prompt; adapters send it verbatim.
	Prompt string

	// AspectRatio is the requested rendering shape, e.g. "1:1".
	AspectRatio string

	// Reference optionally carries an input image (a product shot or
	// logo) for backends that accept one. Adapters without image input
	// support ignore it.
	Reference     []byte
	ReferenceMIME string
}

// ImageResult is a backend's answer to an ImageRequest.
type ImageResult struct {
	// ImageURL references the produced creative: a data URL for inline
	// payloads or an https URL for hosted ones.
	ImageURL string

	// Model echoes the model that served the call.
	Model string
}

// TextProvider generates a text bundle from a composed prompt.
// Implementations must honor context cancellation and map their failure
// modes onto this package's error taxonomy.
type TextProvider interface {
	GenerateText(ctx context.Context, req TextRequest) (TextResult, error)
}

// ImageProvider generates a single creative from a composed prompt.
// Implementations must honor context cancellation and map their failure
// modes onto this package's error taxonomy.
type ImageProvider interface {
	GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error)
}

// Client is one credentialed backend serving both modalities.
type Client interface {
	TextProvider
	ImageProvider
}
