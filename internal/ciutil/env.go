package ciutil

import (
	"log/slog"
	"os"

	"github.com/nevishq/genforge/internal/redact"
)

// Common environment variable names used across the codebase. These
// constants ensure consistent access and prevent typos.
const (
	// CI environment detection variables
	EnvCI               = "CI"
	EnvGitHubActions    = "GITHUB_ACTIONS"
	EnvGitHubWorkspace  = "GITHUB_WORKSPACE"
	EnvGitLabCI         = "GITLAB_CI"
	EnvGitLabProjectDir = "CI_PROJECT_DIR"

	// EnvProjectRoot overrides project root detection entirely.
	EnvProjectRoot = "GENFORGE_PROJECT_ROOT"

	// Database connection environment variables
	EnvDatabaseURL     = "DATABASE_URL"
	EnvTestDatabaseURL = "GENFORGE_TEST_DB_URL"
)

// IsCI returns true if the current environment is a CI environment.
// It checks for the environment variables the common CI providers set.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != ""
}

// IsGitHubActions returns true if the current environment is GitHub
// Actions with a usable workspace.
func IsGitHubActions() bool {
	return os.Getenv(EnvGitHubActions) != "" && os.Getenv(EnvGitHubWorkspace) != ""
}

// IsGitLabCI returns true if the current environment is GitLab CI with
// a usable project directory.
func IsGitLabCI() bool {
	return os.Getenv(EnvGitLabCI) != "" && os.Getenv(EnvGitLabProjectDir) != ""
}

// GetEnvWithFallbacks returns the value of the first non-empty
// environment variable from the provided list, or defaultValue when
// none is set. When a fallback variable supplied the value, a warning
// names the preferred one, with anything sensitive redacted.
func GetEnvWithFallbacks(envVars []string, defaultValue string, logger *slog.Logger) string {
	for i, envVar := range envVars {
		if val := os.Getenv(envVar); val != "" {
			if i > 0 && logger != nil {
				logger.Warn("using fallback environment variable",
					"used_var", envVar,
					"preferred_var", envVars[0],
					"value", redact.String(val))
			}
			return val
		}
	}
	return defaultValue
}
