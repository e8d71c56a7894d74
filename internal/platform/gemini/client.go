package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/nevishq/genforge/internal/provider"
)

// Generation parameters sent with every call. Text runs cool so copy
// stays on-brief; image runs hot for visual variety across variants.
const (
	textTemperature  float32 = 0.7
	imageTemperature float32 = 1.0
	maxOutputTokens  int32   = 2048
)

// Config carries the settings for the Gemini adapter.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// BaseURL overrides the API endpoint. Empty means the public
	// endpoint; tests point this at a local server.
	BaseURL string
}

// Client calls the Gemini API for text and image generation. It
// implements provider.Client.
type Client struct {
	logger *slog.Logger
	client *genai.Client
}

var _ provider.Client = (*Client)(nil)

// NewClient creates a Gemini adapter with the provided dependencies.
func NewClient(ctx context.Context, logger *slog.Logger, cfg Config) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", provider.ErrInvalidConfig)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", provider.ErrInvalidConfig, err)
	}

	return &Client{
		logger: logger.With(slog.String("component", "gemini_client")),
		client: client,
	}, nil
}

// GenerateText sends the composed prompt to the given model and parses
// the JSON text bundle out of the response.
func (c *Client) GenerateText(ctx context.Context, req provider.TextRequest) (provider.TextResult, error) {
	if req.Model == "" {
		return provider.TextResult{}, fmt.Errorf("%w: model cannot be empty", provider.ErrInvalidConfig)
	}
	if req.Prompt == "" {
		return provider.TextResult{}, ErrEmptyPrompt
	}

	c.logger.DebugContext(ctx, "calling Gemini text generation",
		slog.String("model", req.Model),
		slog.Int("prompt_length", len(req.Prompt)))

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(textTemperature),
		MaxOutputTokens:  maxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return provider.TextResult{}, mapError(err)
	}

	text, err := textFromResponse(resp)
	if err != nil {
		return provider.TextResult{}, err
	}

	content, err := provider.ParseContent(text)
	if err != nil {
		return provider.TextResult{}, err
	}

	return provider.TextResult{
		Content: content,
		Model:   req.Model,
	}, nil
}

// GenerateImage sends the composed prompt to the given model and
// extracts the inline image payload as a data URL.
func (c *Client) GenerateImage(ctx context.Context, req provider.ImageRequest) (provider.ImageResult, error) {
	if req.Model == "" {
		return provider.ImageResult{}, fmt.Errorf("%w: model cannot be empty", provider.ErrInvalidConfig)
	}
	if req.Prompt == "" {
		return provider.ImageResult{}, ErrEmptyPrompt
	}

	c.logger.DebugContext(ctx, "calling Gemini image generation",
		slog.String("model", req.Model),
		slog.String("aspect_ratio", req.AspectRatio))

	cfg := &genai.GenerateContentConfig{
		Temperature:        genai.Ptr(imageTemperature),
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := c.client.Models.GenerateContent(ctx, req.Model, imageContents(req), cfg)
	if err != nil {
		return provider.ImageResult{}, mapError(err)
	}

	dataURL, err := imageFromResponse(resp)
	if err != nil {
		return provider.ImageResult{}, err
	}

	return provider.ImageResult{
		ImageURL: dataURL,
		Model:    req.Model,
	}, nil
}

// imageContents builds the request contents: the prompt with an aspect
// hint, plus the reference image when one is supplied. The generateContent
// API takes the rendering shape as prompt instruction, not config.
func imageContents(req provider.ImageRequest) []*genai.Content {
	prompt := req.Prompt
	if req.AspectRatio != "" {
		prompt = fmt.Sprintf("%s\n\nRender the image at a %s aspect ratio.", prompt, req.AspectRatio)
	}

	parts := []*genai.Part{{Text: prompt}}
	if len(req.Reference) > 0 {
		mime := req.ReferenceMIME
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     req.Reference,
				MIMEType: mime,
			},
		})
	}

	return []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
}
