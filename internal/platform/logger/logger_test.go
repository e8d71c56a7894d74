// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/nevishq/genforge/internal/config"
	"github.com/nevishq/genforge/internal/platform/logger"
)

func TestSetupLogLevels(t *testing.T) {
	// Setup replaces the process default logger, so restore it afterwards.
	original := slog.Default()
	defer slog.SetDefault(original)

	tests := []struct {
		name         string
		configLevel  string
		debugEnabled bool
		infoEnabled  bool
		errorEnabled bool
	}{
		{
			name:         "debug level enables everything",
			configLevel:  "debug",
			debugEnabled: true,
			infoEnabled:  true,
			errorEnabled: true,
		},
		{
			name:         "info level filters debug",
			configLevel:  "info",
			debugEnabled: false,
			infoEnabled:  true,
			errorEnabled: true,
		},
		{
			name:         "warn level filters info",
			configLevel:  "warn",
			debugEnabled: false,
			infoEnabled:  false,
			errorEnabled: true,
		},
		{
			name:         "error level filters warn",
			configLevel:  "error",
			debugEnabled: false,
			infoEnabled:  false,
			errorEnabled: true,
		},
		{
			name:         "level parsing is case-insensitive",
			configLevel:  "DEBUG",
			debugEnabled: true,
			infoEnabled:  true,
			errorEnabled: true,
		},
		{
			name:         "invalid level falls back to info",
			configLevel:  "verbose",
			debugEnabled: false,
			infoEnabled:  true,
			errorEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: tt.configLevel})
			if err != nil {
				t.Fatalf("Setup returned unexpected error: %v", err)
			}
			if log == nil {
				t.Fatal("Setup returned nil logger")
			}

			ctx := context.Background()
			if got := log.Enabled(ctx, slog.LevelDebug); got != tt.debugEnabled {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugEnabled)
			}
			if got := log.Enabled(ctx, slog.LevelInfo); got != tt.infoEnabled {
				t.Errorf("info enabled = %v, want %v", got, tt.infoEnabled)
			}
			if got := log.Enabled(ctx, slog.LevelError); got != tt.errorEnabled {
				t.Errorf("error enabled = %v, want %v", got, tt.errorEnabled)
			}
		})
	}
}

func TestSetupSetsDefaultLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	log, err := logger.Setup(config.ServerConfig{LogLevel: "info"})
	if err != nil {
		t.Fatalf("Setup returned unexpected error: %v", err)
	}

	if slog.Default() != log {
		t.Error("Setup did not install the returned logger as the default")
	}
}
