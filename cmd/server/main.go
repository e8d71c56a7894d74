// Package main implements the entry point for the genforge server,
// which orchestrates AI content generation for social media posts and
// meters it against per-account credit balances.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/nevishq/genforge/internal/config"
	"github.com/nevishq/genforge/internal/platform/logger"
)

// main parses command-line flags and either runs a migration command or
// starts the HTTP server.
func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"Run a migration command (up, down, reset, status, version, create) and exit",
	)
	migrationName := flag.String(
		"migration-name",
		"",
		"Name for the new migration when using -migrate create",
	)
	flag.Parse()

	if err := run(*migrateCmd, *migrationName); err != nil {
		log.Fatalf("genforge: %v", err)
	}
}

// run loads configuration, sets up logging, and dispatches to either the
// migration runner or the application server. Keeping it separate from
// main lets every exit path flow through a single error return.
func run(migrateCmd, migrationName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"credit_store", cfg.Credit.Store,
		"configured_tiers", len(cfg.Tiers),
		"configured_brands", len(cfg.Brands))

	if migrateCmd != "" {
		return handleMigrations(cfg, migrateCmd, migrationName)
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
