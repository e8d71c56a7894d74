// Package testdb provides helpers for integration tests that need a
// real postgres database: resolving the connection URL from the
// environment, connecting, and applying the ledger migrations. Tests
// skip cleanly on machines without a database and fail loudly on CI
// runners where one is expected.
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/nevishq/genforge/internal/ciutil"
)

// TestTimeout bounds individual test database operations.
const TestTimeout = 5 * time.Second

// URL returns the database URL for tests, preferring DATABASE_URL and
// falling back to GENFORGE_TEST_DB_URL. Empty when neither is set.
func URL() string {
	return ciutil.GetEnvWithFallbacks(
		[]string{ciutil.EnvDatabaseURL, ciutil.EnvTestDatabaseURL}, "", nil)
}

// IsIntegrationTestEnvironment returns true when a test database URL is
// configured, meaning database-backed tests can run.
func IsIntegrationTestEnvironment() bool {
	return URL() != ""
}

// SkipWithoutDatabase skips the calling test when no database URL is
// configured. On a CI runner a missing URL is a pipeline
// misconfiguration, so the test fails instead of silently passing.
func SkipWithoutDatabase(t *testing.T) {
	t.Helper()

	if IsIntegrationTestEnvironment() {
		return
	}

	if ciutil.IsCI() {
		t.Fatalf("integration test requires %s, which the CI pipeline must provide",
			ciutil.EnvDatabaseURL)
	}

	t.Skipf("skipping integration test: %s not set", ciutil.EnvDatabaseURL)
}

// Connect opens a pooled connection to the test database and verifies
// it is reachable. The connection closes when the test finishes.
func Connect(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", URL())
	require.NoError(t, err, "failed to open database connection")

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping database")

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// Migrations run once per test binary; every test that needs the schema
// calls SetupSchema and the first caller pays for the goose run.
var (
	migrateOnce sync.Once
	migrateErr  error
)

// SetupSchema applies the ledger migrations to the test database.
func SetupSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	migrateOnce.Do(func() {
		root, err := ciutil.FindProjectRoot()
		if err != nil {
			migrateErr = fmt.Errorf("failed to find project root: %w", err)
			return
		}

		dir := filepath.Join(root, "internal", "platform", "postgres", "migrations")

		goose.SetLogger(&testGooseLogger{t: t})
		goose.SetTableName("schema_migrations")
		if migrateErr = goose.SetDialect("postgres"); migrateErr != nil {
			return
		}
		migrateErr = goose.Up(db, dir)
	})
	require.NoError(t, migrateErr, "failed to apply migrations")
}

// testGooseLogger forwards goose output into the test log.
type testGooseLogger struct {
	t *testing.T
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Logf(format, v...)
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatalf(format, v...)
}
