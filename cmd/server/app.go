package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nevishq/genforge/internal/brand"
	"github.com/nevishq/genforge/internal/config"
	"github.com/nevishq/genforge/internal/credit"
	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/orchestrator"
	"github.com/nevishq/genforge/internal/platform/gemini"
	"github.com/nevishq/genforge/internal/platform/openrouter"
	"github.com/nevishq/genforge/internal/platform/postgres"
	redisstore "github.com/nevishq/genforge/internal/platform/redis"
	"github.com/nevishq/genforge/internal/provider"
	"github.com/nevishq/genforge/internal/registry"
	"github.com/nevishq/genforge/internal/resilience"
	"github.com/nevishq/genforge/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger

	// Backend handles, set only when the matching ledger store is selected
	db    *sql.DB
	redis *goredis.Client

	// Credit accounting
	ledger  credit.Store
	credits *credit.Service

	// Generation engine
	tiers    *registry.Registry
	clients  *provider.Directory
	executor *resilience.Executor
	engine   *orchestrator.Orchestrator

	// Stored brand profiles
	brands *brand.StaticSource
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the configuration and logger that must be
// established before application initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Initialize the ledger store named by the credit configuration
	if err := app.setupLedger(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize credit ledger: %w", err)
	}
	logger.Info("credit ledger initialized", "store", cfg.Credit.Store)

	var err error
	app.credits, err = credit.NewService(app.ledger, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credit service: %w", err)
	}

	// Build the tier registry from configuration, falling back to the
	// built-in tier table when none is configured
	app.tiers, err = registry.FromConfig(cfg.Tiers)
	if err != nil {
		return nil, fmt.Errorf("failed to build tier registry: %w", err)
	}
	logger.Info("tier registry initialized", "tiers", len(app.tiers.Tiers()))

	// Initialize provider clients
	if err := app.setupProviders(ctx); err != nil {
		return nil, err
	}
	logger.Info("provider clients initialized", "providers", app.clients.Refs())

	app.executor, err = resilience.NewExecutor(resilience.Policy{
		MaxAttemptsPerProvider: cfg.Orchestrator.ProviderAttempts,
		Backoff:                cfg.Orchestrator.RetryBackoffs,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resilience executor: %w", err)
	}

	app.engine, err = orchestrator.New(
		app.credits,
		app.tiers,
		app.clients,
		app.executor,
		orchestrator.Config{
			VariantDeadline: cfg.Orchestrator.VariantDeadline,
			RequestTimeout:  cfg.Orchestrator.RequestTimeout,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	// Load stored brand profiles and provision their ledger accounts
	app.brands, err = brand.FromConfig(cfg.Brands)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand profiles: %w", err)
	}

	if err := app.provisionAccounts(ctx, cfg.Brands); err != nil {
		return nil, fmt.Errorf("failed to provision brand accounts: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters
// problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupLedger selects and connects the ledger backend named by the
// credit configuration.
func (app *application) setupLedger(ctx context.Context) error {
	switch app.config.Credit.Store {
	case "memory":
		app.ledger = store.NewMemoryLedger()

	case "postgres":
		db, err := setupDatabase(ctx, app.config.Credit.DatabaseURL)
		if err != nil {
			return err
		}
		app.db = db
		app.ledger = postgres.NewPostgresLedger(db, app.logger)

	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr: app.config.Credit.RedisAddr,
			DB:   app.config.Credit.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}

		app.redis = client
		app.ledger = redisstore.NewRedisLedger(client, app.logger)

	default:
		return fmt.Errorf("unsupported credit store %q", app.config.Credit.Store)
	}

	return nil
}

// setupDatabase opens a postgres connection pool and verifies it is
// reachable before any store touches it.
func setupDatabase(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Warn("failed to close database after ping failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// setupProviders builds the provider client directory. Gemini is always
// present; OpenRouter joins only when its API key is configured, and
// tiers listing it skip over the missing provider otherwise.
func (app *application) setupProviders(ctx context.Context) error {
	clients := make(map[domain.ProviderRef]provider.Client)

	geminiClient, err := gemini.NewClient(ctx, app.logger, gemini.Config{
		APIKey: app.config.Providers.GeminiAPIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize gemini client: %w", err)
	}
	clients[domain.ProviderGemini] = geminiClient

	if app.config.Providers.OpenRouterAPIKey != "" {
		openRouterClient, err := openrouter.NewClient(app.logger, openrouter.Config{
			APIKey:  app.config.Providers.OpenRouterAPIKey,
			BaseURL: app.config.Providers.OpenRouterBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize openrouter client: %w", err)
		}
		clients[domain.ProviderOpenRouter] = openRouterClient
	} else {
		app.logger.Info("openrouter API key not configured, running on gemini alone")
	}

	app.clients, err = provider.NewDirectory(clients)
	if err != nil {
		return fmt.Errorf("failed to build provider directory: %w", err)
	}

	return nil
}

// provisionAccounts creates a ledger account for every configured brand
// that does not have one yet, seeded with the brand's starting credits.
// Accounts that already exist keep their balance, so restarting against
// a durable store never double-credits. Brands configured with zero
// starting credits get no account until they are topped up.
func (app *application) provisionAccounts(ctx context.Context, brands []config.BrandConfig) error {
	for _, b := range brands {
		accountID, err := uuid.Parse(b.AccountID)
		if err != nil {
			return fmt.Errorf("invalid account ID %q: %w", b.AccountID, err)
		}

		if b.InitialCredits <= 0 {
			continue
		}

		_, err = app.ledger.Balance(ctx, accountID)
		if err == nil {
			app.logger.Debug("account already provisioned", "account_id", accountID)
			continue
		}
		if !errors.Is(err, credit.ErrAccountNotFound) {
			return fmt.Errorf("failed to check account %s: %w", accountID, err)
		}

		if err := app.ledger.CreditAccount(ctx, accountID, b.InitialCredits); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", accountID, err)
		}

		app.logger.Info("provisioned brand account",
			"account_id", accountID,
			"initial_credits", b.InitialCredits)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
	}
}
