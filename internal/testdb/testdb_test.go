package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nevishq/genforge/internal/ciutil"
)

func TestURLPrefersDatabaseURL(t *testing.T) {
	t.Setenv(ciutil.EnvDatabaseURL, "postgres://one:pw@localhost:5432/a")
	t.Setenv(ciutil.EnvTestDatabaseURL, "postgres://two:pw@localhost:5432/b")

	assert.Equal(t, "postgres://one:pw@localhost:5432/a", URL())
}

func TestURLFallsBackToTestVariable(t *testing.T) {
	t.Setenv(ciutil.EnvDatabaseURL, "")
	t.Setenv(ciutil.EnvTestDatabaseURL, "postgres://two:pw@localhost:5432/b")

	assert.Equal(t, "postgres://two:pw@localhost:5432/b", URL())
}

func TestIsIntegrationTestEnvironment(t *testing.T) {
	t.Setenv(ciutil.EnvDatabaseURL, "")
	t.Setenv(ciutil.EnvTestDatabaseURL, "")
	assert.False(t, IsIntegrationTestEnvironment())

	t.Setenv(ciutil.EnvDatabaseURL, "postgres://u:p@localhost/db")
	assert.True(t, IsIntegrationTestEnvironment())
}
