package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nevishq/genforge/internal/ciutil"
	"github.com/nevishq/genforge/internal/config"
	"github.com/nevishq/genforge/internal/redact"
	"github.com/pressly/goose/v3"
)

// migrationsDir is the repository-relative path holding the SQL
// migration files for the postgres ledger schema.
const migrationsDir = "internal/platform/postgres/migrations"

// migrationTableName is the table goose uses to track applied versions.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding
// messages to slog.Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error
// messages to slog.Error. It deliberately does not exit; the error
// flows back to main, which owns process exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// handleMigrations runs one migration command against the configured
// postgres database and returns when it completes. It is called from
// main when the -migrate flag is set.
func handleMigrations(cfg *config.Config, command, migrationName string) error {
	if cfg.Credit.DatabaseURL == "" {
		return fmt.Errorf("credit.database_url must be configured to run migrations")
	}

	dir, err := findMigrationsDir()
	if err != nil {
		return err
	}

	slog.Info("executing migration command",
		"command", command,
		"dir", dir,
		"database_url", redact.String(cfg.Credit.DatabaseURL))

	db, err := sql.Open("pgx", cfg.Credit.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
	}()

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetLogger(&slogGooseLogger{})
	goose.SetTableName(migrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "reset":
		err = goose.Reset(db, dir)
	case "status":
		err = goose.Status(db, dir)
	case "version":
		err = goose.Version(db, dir)
	case "create":
		if migrationName == "" {
			return fmt.Errorf("migration name is required for the create command")
		}
		err = goose.Create(db, dir, migrationName, "sql")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}

	if err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	slog.Info("migration command completed", "command", command)
	return nil
}

// findMigrationsDir resolves the migrations directory against the
// project root, so the command works from the repository root and from
// a package directory alike. GENFORGE_PROJECT_ROOT overrides detection
// for deployments that unpack the tree somewhere unusual.
func findMigrationsDir() (string, error) {
	root, err := ciutil.FindProjectRoot()
	if err != nil {
		return "", fmt.Errorf("failed to find project root: %w", err)
	}

	dir := filepath.Join(root, migrationsDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("migrations directory not found at %s", dir)
	}

	return dir, nil
}
