package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for GenerationRequest.
var (
	ErrEmptyRequestID = errors.New("request ID cannot be empty")
	ErrEmptyAccountID = errors.New("account ID cannot be empty")
	ErrEmptyTier      = errors.New("tier ID cannot be empty")
	ErrEmptyTopic     = errors.New("content topic cannot be empty")
)

// ContentSpec describes what a single generation should produce: the
// subject of the post, an optional call to action, and the literal text
// to render onto the creative for image-text tasks.
type ContentSpec struct {
	Topic        string `json:"topic"`
	CallToAction string `json:"call_to_action"`
	ImageText    string `json:"image_text"`
}

// Validate checks if the ContentSpec has valid data.
func (c ContentSpec) Validate() error {
	if c.Topic == "" {
		return ErrEmptyTopic
	}

	return nil
}

// GenerationRequest is one caller request to generate branded content.
// The RequestID doubles as the idempotency key for credit operations:
// retried requests must reuse it. Instances are built through
// NewGenerationRequest and treated as immutable afterwards.
type GenerationRequest struct {
	RequestID uuid.UUID         `json:"request_id"`
	AccountID uuid.UUID         `json:"account_id"`
	TierID    string            `json:"tier_id"`
	Brand     BrandContext      `json:"brand"`
	Content   ContentSpec       `json:"content"`
	Variants  []PlatformVariant `json:"variants"`
}

// NewGenerationRequest builds a validated GenerationRequest. The variant
// slice is copied so later mutation by the caller cannot reach the
// request. An empty variant list is legal and means a text-only
// generation.
func NewGenerationRequest(
	requestID, accountID uuid.UUID,
	tierID string,
	brand BrandContext,
	content ContentSpec,
	variants []PlatformVariant,
) (*GenerationRequest, error) {
	req := &GenerationRequest{
		RequestID: requestID,
		AccountID: accountID,
		TierID:    tierID,
		Brand:     brand,
		Content:   content,
		Variants:  append([]PlatformVariant(nil), variants...),
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

// Validate checks if the GenerationRequest has valid data.
// Returns an error if any field fails validation.
func (r *GenerationRequest) Validate() error {
	if r.RequestID == uuid.Nil {
		return ErrEmptyRequestID
	}

	if r.AccountID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if r.TierID == "" {
		return ErrEmptyTier
	}

	if err := r.Brand.Validate(); err != nil {
		return err
	}

	if err := r.Content.Validate(); err != nil {
		return err
	}

	for _, v := range r.Variants {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// VariantCount returns the number of image variants the request asks for.
func (r *GenerationRequest) VariantCount() int {
	return len(r.Variants)
}
