package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional YAML config file; environment variables override it.
	v.SetConfigName("genforge")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/genforge/")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables with GENFORGE_ prefix, e.g. GENFORGE_SERVER_PORT
	// maps to server.port.
	v.SetEnvPrefix("GENFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every environment-configurable key.
// Viper only surfaces automatic env values for keys it already knows about,
// so each key needs a default even when that default is empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("credit.store", "memory")
	v.SetDefault("credit.database_url", "")
	v.SetDefault("credit.redis_addr", "")
	v.SetDefault("credit.redis_db", 0)

	v.SetDefault("providers.gemini_api_key", "")
	v.SetDefault("providers.openrouter_api_key", "")
	v.SetDefault("providers.openrouter_base_url", "https://openrouter.ai/api/v1")

	v.SetDefault("orchestrator.provider_attempts", 3)
	v.SetDefault("orchestrator.retry_backoffs", []string{"500ms", "2s", "5s"})
	v.SetDefault("orchestrator.variant_deadline", "90s")
	v.SetDefault("orchestrator.request_timeout", "5m")
}
