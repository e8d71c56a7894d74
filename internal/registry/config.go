package registry

import (
	"github.com/nevishq/genforge/internal/config"
	"github.com/nevishq/genforge/internal/domain"
)

// FromConfig builds a Registry from the configuration's tier table,
// falling back to the built-in tiers when the table is empty.
func FromConfig(tiers []config.TierConfig) (*Registry, error) {
	if len(tiers) == 0 {
		return New(DefaultTiers())
	}

	converted := make([]domain.ModelTier, 0, len(tiers))
	for _, tc := range tiers {
		converted = append(converted, tierFromConfig(tc))
	}
	return New(converted)
}

// tierFromConfig maps one configuration entry onto the domain tier type.
// Validation happens in New, so a malformed entry still fails startup
// with a tier-naming error.
func tierFromConfig(tc config.TierConfig) domain.ModelTier {
	order := make([]domain.ProviderRef, 0, len(tc.Providers))
	for _, p := range tc.Providers {
		order = append(order, domain.ProviderRef(p))
	}

	models := make(map[domain.ProviderRef]domain.TierModels, len(tc.Models))
	for ref, m := range tc.Models {
		models[domain.ProviderRef(ref)] = domain.TierModels{
			Text:  m.Text,
			Image: m.Image,
		}
	}

	return domain.ModelTier{
		ID:               tc.ID,
		DisplayName:      tc.DisplayName,
		CreditCost:       tc.CreditCost,
		PromptDirectives: tc.PromptDirectives,
		ProviderOrder:    order,
		Models:           models,
		MaxImageVariants: tc.MaxImageVariants,
		SupportsLogo:     tc.SupportsLogo,
	}
}
