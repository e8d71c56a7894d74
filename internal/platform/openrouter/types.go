package openrouter

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`

	// Modalities enables image output on models that support it.
	Modalities []string `json:"modalities,omitempty"`
}

// chatMessage is one request message. Content is a plain string for
// text-only messages, or a []contentPart when a reference image rides
// along.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// contentPart is one element of a multimodal message.
type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

// chatResponse is the chat completions response body.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`

	// Error is set when OpenRouter reports an upstream failure inside a
	// 200 response.
	Error *apiError `json:"error"`
}

type chatChoice struct {
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// responseMessage is the assistant message of one choice. Generated
// images arrive in the Images list as data URLs.
type responseMessage struct {
	Content string          `json:"content"`
	Images  []responseImage `json:"images"`
}

type responseImage struct {
	Type     string        `json:"type"`
	ImageURL *imageURLPart `json:"image_url"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
