package domain

import "github.com/google/uuid"

// GeneratedContent is the validated text bundle produced for a request.
// ImageText is the literal string embedded into image prompts; the
// remaining fields are the post copy.
type GeneratedContent struct {
	Headline    string   `json:"headline"`
	Subheadline string   `json:"subheadline"`
	Caption     string   `json:"caption"`
	ImageText   string   `json:"image_text"`
	Hashtags    []string `json:"hashtags"`
}

// VariantResult is the outcome of one platform variant. Exactly one of
// ImageURL or Err is set: a variant either produced a creative or failed
// independently of its siblings.
type VariantResult struct {
	Platform    Platform     `json:"platform"`
	AspectRatio AspectRatio  `json:"aspect_ratio"`
	Provider    ProviderRef  `json:"provider,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Overlay     *OverlayPlan `json:"overlay,omitempty"`
	Err         error        `json:"-"`
}

// Failed reports whether this variant ended in failure.
func (v VariantResult) Failed() bool {
	return v.Err != nil
}

// GenerationResult is the terminal outcome of a generation request:
// which state the pipeline ended in, the content produced, per-variant
// outcomes in request order, and what the run cost. FailureReason is a
// single human-readable explanation set only when State is Failed.
type GenerationResult struct {
	RequestID      uuid.UUID        `json:"request_id"`
	State          GenerationState  `json:"state"`
	Content        GeneratedContent `json:"content"`
	Variants       []VariantResult  `json:"variants"`
	TextProvider   ProviderRef      `json:"text_provider,omitempty"`
	TextModel      string           `json:"text_model,omitempty"`
	CreditsCharged float64          `json:"credits_charged"`
	Partial        bool             `json:"partial"`
	QualityIssues  []string         `json:"quality_issues,omitempty"`
	FailureReason  string           `json:"failure_reason,omitempty"`
}

// SucceededVariants returns how many variants produced a creative.
func (r *GenerationResult) SucceededVariants() int {
	n := 0
	for _, v := range r.Variants {
		if !v.Failed() {
			n++
		}
	}
	return n
}
