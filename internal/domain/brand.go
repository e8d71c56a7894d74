package domain

import "errors"

// BusinessType classifies the business a brand profile belongs to. The
// prompt composer keys style directives off this value, so the set is
// closed: profiles carrying a type outside it fail validation instead of
// silently composing generic prompts.
type BusinessType string

// Business types the engine composes for.
const (
	BusinessTypeRestaurant BusinessType = "restaurant"
	BusinessTypeRetail     BusinessType = "retail"
	BusinessTypeFitness    BusinessType = "fitness"
	BusinessTypeBeauty     BusinessType = "beauty"
	BusinessTypeTechnology BusinessType = "technology"
	BusinessTypeServices   BusinessType = "professional_services"
	BusinessTypeOther      BusinessType = "other"
)

// KnownBusinessType reports whether the given type is one the engine has
// style directives for.
func KnownBusinessType(t BusinessType) bool {
	switch t {
	case BusinessTypeRestaurant, BusinessTypeRetail, BusinessTypeFitness,
		BusinessTypeBeauty, BusinessTypeTechnology, BusinessTypeServices,
		BusinessTypeOther:
		return true
	default:
		return false
	}
}

// Common validation errors for BrandContext.
var (
	ErrEmptyBusinessName   = errors.New("business name cannot be empty")
	ErrUnknownBusinessType = errors.New("unknown business type")
)

// BrandColors is the palette embedded into image prompts when color
// consistency is enabled. Values are hex strings such as "#1A2B3C".
type BrandColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// ContactInfo holds the contact details a brand may want rendered into
// its creatives.
type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

// BrandConsistency toggles which brand elements generation must honor.
// A disabled element is fully absent from composed prompts, not defaulted.
type BrandConsistency struct {
	Voice   bool `json:"voice"`
	Colors  bool `json:"colors"`
	Contact bool `json:"contact"`
}

// BrandContext carries everything the engine knows about the requesting
// brand for a single generation. It is supplied by the caller per request
// and never persisted by this layer.
type BrandContext struct {
	BusinessName   string           `json:"business_name"`
	BusinessType   BusinessType     `json:"business_type"`
	Location       string           `json:"location"`
	TargetAudience string           `json:"target_audience"`
	Voice          string           `json:"voice"`
	Colors         BrandColors      `json:"colors"`
	Contact        ContactInfo      `json:"contact"`
	Consistency    BrandConsistency `json:"consistency"`
	LogoRef        string           `json:"logo_ref"`
}

// Validate checks if the BrandContext has valid data.
// Returns an error if any field fails validation.
func (b BrandContext) Validate() error {
	if b.BusinessName == "" {
		return ErrEmptyBusinessName
	}

	if !KnownBusinessType(b.BusinessType) {
		return ErrUnknownBusinessType
	}

	return nil
}
