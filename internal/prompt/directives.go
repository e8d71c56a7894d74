package prompt

import "github.com/nevishq/genforge/internal/domain"

// platformDirectives returns the composition rules for one platform.
// The platform set is closed; an empty platform means a text-only
// generation with no platform slant.
func platformDirectives(p domain.Platform) []string {
	switch p {
	case domain.PlatformInstagram:
		return []string{
			"Lead with a strong visual hook in the first line",
			"Keep the caption to two or three short paragraphs",
			"Suggest 5 to 10 specific hashtags, no generic ones",
		}
	case domain.PlatformFacebook:
		return []string{
			"Write a conversational caption that invites comments",
			"Keep paragraphs short enough to survive the fold",
			"Suggest 2 to 4 hashtags at most",
		}
	case domain.PlatformLinkedIn:
		return []string{
			"Keep the tone professional without being stiff",
			"Open with the business insight, not the offer",
			"Suggest 3 to 5 industry hashtags",
		}
	case domain.PlatformTwitter:
		return []string{
			"Keep the caption under 280 characters",
			"Make the first clause carry the whole message",
			"Suggest 1 or 2 hashtags only",
		}
	default:
		return nil
	}
}

// businessDirectives returns the style rules for one business type.
func businessDirectives(t domain.BusinessType) []string {
	switch t {
	case domain.BusinessTypeRestaurant:
		return []string{
			"Make the food the hero, appetite appeal first",
			"Mention a concrete dish or offer, not the menu in general",
		}
	case domain.BusinessTypeRetail:
		return []string{
			"Feature the product and the offer together",
			"Create urgency without sounding like a clearance bin",
		}
	case domain.BusinessTypeFitness:
		return []string{
			"Lead with energy and outcomes, not equipment",
			"Speak to the person starting out, not the athlete",
		}
	case domain.BusinessTypeBeauty:
		return []string{
			"Keep the aesthetic clean and aspirational",
			"Show the result, name the service",
		}
	case domain.BusinessTypeTechnology:
		return []string{
			"Plain language over jargon, benefit over feature",
			"Keep the visual style minimal and modern",
		}
	case domain.BusinessTypeServices:
		return []string{
			"Build trust with specifics, not superlatives",
			"Address the client's problem before the credentials",
		}
	default:
		return []string{
			"Keep the message specific to this business",
		}
	}
}

// platformLabel returns the platform name used in prompt prose.
func platformLabel(p domain.Platform) string {
	switch p {
	case domain.PlatformInstagram:
		return "Instagram"
	case domain.PlatformFacebook:
		return "Facebook"
	case domain.PlatformLinkedIn:
		return "LinkedIn"
	case domain.PlatformTwitter:
		return "X"
	default:
		return "social media"
	}
}

// businessLabel returns the human-readable label used in prompt prose.
func businessLabel(t domain.BusinessType) string {
	switch t {
	case domain.BusinessTypeRestaurant:
		return "restaurant"
	case domain.BusinessTypeRetail:
		return "retail store"
	case domain.BusinessTypeFitness:
		return "fitness business"
	case domain.BusinessTypeBeauty:
		return "beauty business"
	case domain.BusinessTypeTechnology:
		return "technology company"
	case domain.BusinessTypeServices:
		return "professional services firm"
	default:
		return "business"
	}
}
