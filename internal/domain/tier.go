package domain

import "errors"

// ProviderRef is an opaque handle identifying one credentialed generation
// backend. Each ref maps to exactly one credential set and rate-limit
// domain; routing decisions are made in terms of refs, never raw clients.
type ProviderRef string

// Provider refs wired into the default engine build.
const (
	ProviderGemini     ProviderRef = "gemini"
	ProviderOpenRouter ProviderRef = "openrouter"
)

// Common validation errors for ModelTier.
var (
	ErrEmptyTierID        = errors.New("tier ID cannot be empty")
	ErrNonPositiveCost    = errors.New("tier credit cost must be positive")
	ErrEmptyProviderOrder = errors.New("tier provider order cannot be empty")
	ErrMissingTierModels  = errors.New("tier is missing models for a listed provider")
)

// TierModels names the text and image models a tier uses on one provider.
// Providers name the same underlying model differently, so each provider
// in a tier's order carries its own pair.
type TierModels struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// ModelTier describes one quality level of the generation engine: what it
// costs, which models serve it, which providers to try in order, and what
// the tier is capable of producing.
type ModelTier struct {
	ID               string                     `json:"id"`
	DisplayName      string                     `json:"display_name"`
	CreditCost       float64                    `json:"credit_cost"`
	PromptDirectives []string                   `json:"prompt_directives"`
	ProviderOrder    []ProviderRef              `json:"provider_order"`
	Models           map[ProviderRef]TierModels `json:"models"`
	MaxImageVariants int                        `json:"max_image_variants"`
	SupportsLogo     bool                       `json:"supports_logo"`
}

// Validate checks if the ModelTier has valid data.
// Returns an error if any field fails validation.
func (t ModelTier) Validate() error {
	if t.ID == "" {
		return ErrEmptyTierID
	}

	if t.CreditCost <= 0 {
		return ErrNonPositiveCost
	}

	if len(t.ProviderOrder) == 0 {
		return ErrEmptyProviderOrder
	}

	for _, ref := range t.ProviderOrder {
		if _, ok := t.Models[ref]; !ok {
			return ErrMissingTierModels
		}
	}

	return nil
}

// ModelsFor returns the model pair the tier uses on the given provider.
// The second return is false when the provider is not in the tier's order.
func (t ModelTier) ModelsFor(ref ProviderRef) (TierModels, bool) {
	m, ok := t.Models[ref]
	return m, ok
}
