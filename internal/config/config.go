package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Credit       CreditConfig       `mapstructure:"credit"       validate:"required"`
	Providers    ProvidersConfig    `mapstructure:"providers"    validate:"required"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator" validate:"required"`
	Tiers        []TierConfig       `mapstructure:"tiers"        validate:"omitempty,dive"`
	Brands       []BrandConfig      `mapstructure:"brands"       validate:"omitempty,dive"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// CreditConfig selects and configures the ledger store backing the
// credit service.
type CreditConfig struct {
	// Store picks the backend: "memory" for single-process deployments,
	// "postgres" or "redis" when ledger state must be shared or durable.
	Store       string `mapstructure:"store"        validate:"required,oneof=memory postgres redis"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Store postgres,omitempty,url"`
	RedisAddr   string `mapstructure:"redis_addr"   validate:"required_if=Store redis"`
	RedisDB     int    `mapstructure:"redis_db"     validate:"gte=0"`
}

// ProvidersConfig carries the credentials for the generation backends.
// OpenRouter is optional; when its key is absent the engine runs on
// Gemini alone and tiers listing openrouter simply skip it.
type ProvidersConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"      validate:"required"`
	OpenRouterAPIKey  string `mapstructure:"openrouter_api_key"`
	OpenRouterBaseURL string `mapstructure:"openrouter_base_url" validate:"omitempty,url"`
}

// OrchestratorConfig tunes the resilience and scheduling behavior of the
// generation pipeline.
type OrchestratorConfig struct {
	// ProviderAttempts is the number of tries against a single provider
	// before failing over to the next one in the tier's order.
	ProviderAttempts int `mapstructure:"provider_attempts" validate:"required,gte=1"`

	// RetryBackoffs is the wait schedule between attempts on the same
	// provider. Attempts beyond the schedule's length reuse its last entry.
	RetryBackoffs []time.Duration `mapstructure:"retry_backoffs" validate:"required,min=1,dive,gt=0"`

	// VariantDeadline bounds each image variant's generation, including
	// retries and failovers.
	VariantDeadline time.Duration `mapstructure:"variant_deadline" validate:"required,gt=0"`

	// RequestTimeout bounds one whole generation request.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
}

// TierConfig describes one generation tier in the configuration file.
// When no tiers are configured the built-in tier table is used.
type TierConfig struct {
	ID               string                      `mapstructure:"id"                 validate:"required"`
	DisplayName      string                      `mapstructure:"display_name"`
	CreditCost       float64                     `mapstructure:"credit_cost"        validate:"required,gt=0"`
	PromptDirectives []string                    `mapstructure:"prompt_directives"`
	Providers        []string                    `mapstructure:"providers"          validate:"required,min=1,dive,oneof=gemini openrouter"`
	Models           map[string]TierModelsConfig `mapstructure:"models"             validate:"required,dive"`
	MaxImageVariants int                         `mapstructure:"max_image_variants" validate:"required,gte=1"`
	SupportsLogo     bool                        `mapstructure:"supports_logo"`
}

// TierModelsConfig names the text and image models a tier uses on one
// provider.
type TierModelsConfig struct {
	Text  string `mapstructure:"text"  validate:"required"`
	Image string `mapstructure:"image" validate:"required"`
}

// BrandConfig seeds one account's stored brand profile and starting
// balance. Requests from the account can then omit the brand block and
// fall back to this profile.
type BrandConfig struct {
	AccountID      string  `mapstructure:"account_id"      validate:"required,uuid"`
	BusinessName   string  `mapstructure:"business_name"   validate:"required"`
	BusinessType   string  `mapstructure:"business_type"   validate:"required"`
	Location       string  `mapstructure:"location"`
	TargetAudience string  `mapstructure:"target_audience"`
	PrimaryColor   string  `mapstructure:"primary_color"   validate:"omitempty,hexcolor"`
	SecondaryColor string  `mapstructure:"secondary_color" validate:"omitempty,hexcolor"`
	AccentColor    string  `mapstructure:"accent_color"    validate:"omitempty,hexcolor"`
	Email          string  `mapstructure:"email"           validate:"omitempty,email"`
	Phone          string  `mapstructure:"phone"`
	Website        string  `mapstructure:"website"         validate:"omitempty,url"`
	LogoURL        string  `mapstructure:"logo_url"        validate:"omitempty,url"`
	Voice          string  `mapstructure:"voice"`
	InitialCredits float64 `mapstructure:"initial_credits" validate:"gte=0"`
}
