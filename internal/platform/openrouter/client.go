package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nevishq/genforge/internal/provider"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"

	// OpenRouter asks applications to identify themselves on every call.
	refererHeader = "https://genforge.dev"
	titleHeader   = "GenForge"

	textTemperature  = 0.7
	imageTemperature = 0.8
	maxTokens        = 2048
)

// Config carries the settings for the OpenRouter adapter.
type Config struct {
	// APIKey authenticates against OpenRouter.
	APIKey string

	// BaseURL overrides the API endpoint. Empty means the public
	// endpoint; tests point this at a local server.
	BaseURL string

	// HTTPClient overrides the transport. Nil means a client with a
	// conservative timeout; per-request deadlines still come from the
	// caller's context.
	HTTPClient *http.Client
}

// Client calls OpenRouter's chat completions API for text and image
// generation. It implements provider.Client.
type Client struct {
	logger  *slog.Logger
	apiKey  string
	baseURL string
	http    *http.Client
}

var _ provider.Client = (*Client)(nil)

// NewClient creates an OpenRouter adapter with the provided dependencies.
func NewClient(logger *slog.Logger, cfg Config) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openrouter API key cannot be empty", provider.ErrInvalidConfig)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}

	return &Client{
		logger:  logger.With(slog.String("component", "openrouter_client")),
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}, nil
}

// GenerateText sends the composed prompt through chat completions and
// parses the JSON text bundle out of the answer.
func (c *Client) GenerateText(ctx context.Context, req provider.TextRequest) (provider.TextResult, error) {
	if req.Model == "" {
		return provider.TextResult{}, fmt.Errorf("%w: model cannot be empty", provider.ErrInvalidConfig)
	}
	if req.Prompt == "" {
		return provider.TextResult{}, ErrEmptyPrompt
	}

	c.logger.DebugContext(ctx, "calling OpenRouter text generation",
		slog.String("model", req.Model),
		slog.Int("prompt_length", len(req.Prompt)))

	payload := chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: textTemperature,
		MaxTokens:   maxTokens,
	}

	choice, err := c.complete(ctx, payload)
	if err != nil {
		return provider.TextResult{}, err
	}

	content, err := provider.ParseContent(choice.Message.Content)
	if err != nil {
		return provider.TextResult{}, err
	}

	return provider.TextResult{
		Content: content,
		Model:   req.Model,
	}, nil
}

// GenerateImage sends the composed prompt through chat completions with
// the image modality enabled and extracts the returned creative.
func (c *Client) GenerateImage(ctx context.Context, req provider.ImageRequest) (provider.ImageResult, error) {
	if req.Model == "" {
		return provider.ImageResult{}, fmt.Errorf("%w: model cannot be empty", provider.ErrInvalidConfig)
	}
	if req.Prompt == "" {
		return provider.ImageResult{}, ErrEmptyPrompt
	}

	c.logger.DebugContext(ctx, "calling OpenRouter image generation",
		slog.String("model", req.Model),
		slog.String("aspect_ratio", req.AspectRatio))

	prompt := req.Prompt
	if req.AspectRatio != "" {
		prompt = fmt.Sprintf("%s\n\nRender the image at a %s aspect ratio.", prompt, req.AspectRatio)
	}

	payload := chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{imageMessage(prompt, req)},
		Temperature: imageTemperature,
		MaxTokens:   maxTokens,
		Modalities:  []string{"image", "text"},
	}

	choice, err := c.complete(ctx, payload)
	if err != nil {
		return provider.ImageResult{}, err
	}

	imageURL, err := imageFromChoice(choice)
	if err != nil {
		return provider.ImageResult{}, err
	}

	return provider.ImageResult{
		ImageURL: imageURL,
		Model:    req.Model,
	}, nil
}

// imageMessage builds the user message, attaching the reference image as
// a data URL part when one is supplied.
func imageMessage(prompt string, req provider.ImageRequest) chatMessage {
	if len(req.Reference) == 0 {
		return chatMessage{Role: "user", Content: prompt}
	}

	mime := req.ReferenceMIME
	if mime == "" {
		mime = "image/png"
	}

	return chatMessage{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &imageURLPart{
				URL: provider.DataURL(mime, req.Reference),
			}},
		},
	}
}

// complete posts one chat completion request and returns its first choice.
func (c *Client) complete(ctx context.Context, payload chatRequest) (*chatChoice, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("HTTP-Referer", refererHeader)
	httpReq.Header.Set("X-Title", titleHeader)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", provider.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", provider.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response JSON: %v", provider.ErrInvalidResponse, err)
	}

	// OpenRouter reports some upstream failures inside a 200 body.
	if parsed.Error != nil {
		return nil, statusError(parsed.Error.Code, respBody)
	}

	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", provider.ErrInvalidResponse)
	}

	return &parsed.Choices[0], nil
}

// imageFromChoice pulls the creative out of a chat choice: the images
// array when present, otherwise a data URL in the content itself.
func imageFromChoice(choice *chatChoice) (string, error) {
	for _, img := range choice.Message.Images {
		if img.ImageURL != nil && img.ImageURL.URL != "" {
			return img.ImageURL.URL, nil
		}
	}

	if strings.HasPrefix(choice.Message.Content, "data:image/") {
		return choice.Message.Content, nil
	}

	return "", fmt.Errorf("%w: response carries no image payload", provider.ErrInvalidResponse)
}
