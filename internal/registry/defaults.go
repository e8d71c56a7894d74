package registry

import "github.com/nevishq/genforge/internal/domain"

// DefaultTiers returns the engine's built-in tier table. Deployments can
// replace it through configuration; the built-ins mirror the three
// product tiers and the model each provider serves them with.
func DefaultTiers() []domain.ModelTier {
	return []domain.ModelTier{
		{
			ID:          "revo-1.0",
			DisplayName: "Revo 1.0",
			CreditCost:  1,
			PromptDirectives: []string{
				"Bold, simple composition with one clear focal point",
			},
			ProviderOrder: []domain.ProviderRef{domain.ProviderGemini, domain.ProviderOpenRouter},
			Models: map[domain.ProviderRef]domain.TierModels{
				domain.ProviderGemini: {
					Text:  "gemini-2.5-flash-lite",
					Image: "gemini-2.5-flash-image-preview",
				},
				domain.ProviderOpenRouter: {
					Text:  "google/gemini-2.5-flash-lite",
					Image: "google/gemini-2.5-flash-image-preview",
				},
			},
			MaxImageVariants: 2,
		},
		{
			ID:          "revo-1.5",
			DisplayName: "Revo 1.5",
			CreditCost:  1.5,
			PromptDirectives: []string{
				"Polished, on-trend composition",
				"Copy should read like a social media manager wrote it",
			},
			ProviderOrder: []domain.ProviderRef{domain.ProviderGemini, domain.ProviderOpenRouter},
			Models: map[domain.ProviderRef]domain.TierModels{
				domain.ProviderGemini: {
					Text:  "gemini-2.5-flash",
					Image: "gemini-2.5-flash-image-preview",
				},
				domain.ProviderOpenRouter: {
					Text:  "google/gemini-2.5-flash",
					Image: "google/gemini-2.5-flash-image-preview",
				},
			},
			MaxImageVariants: 4,
			SupportsLogo:     true,
		},
		{
			ID:          "revo-2.0",
			DisplayName: "Revo 2.0",
			CreditCost:  2,
			PromptDirectives: []string{
				"Premium editorial quality, magazine-grade art direction",
				"Copy should be distinctive enough to stop a scrolling thumb",
			},
			ProviderOrder: []domain.ProviderRef{domain.ProviderGemini, domain.ProviderOpenRouter},
			Models: map[domain.ProviderRef]domain.TierModels{
				domain.ProviderGemini: {
					Text:  "gemini-2.5-flash",
					Image: "gemini-2.5-flash-image-preview",
				},
				domain.ProviderOpenRouter: {
					Text:  "google/gemini-2.5-flash",
					Image: "google/gemini-2.5-flash-image-preview",
				},
			},
			MaxImageVariants: 4,
			SupportsLogo:     true,
		},
	}
}

// Default builds a Registry from the built-in tier table.
func Default() *Registry {
	r, err := New(DefaultTiers())
	if err != nil {
		// The built-in table is a compile-time constant; failing to build
		// it is a programming error, not a runtime condition.
		panic(err)
	}
	return r
}
