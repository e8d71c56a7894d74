package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevishq/genforge/internal/ciutil"
)

func TestHandleMigrationsRequiresDatabaseURL(t *testing.T) {
	err := handleMigrations(testConfig(), "up", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}

func TestFindMigrationsDir(t *testing.T) {
	// Pin detection to the working directory walk so CI workspace
	// variables cannot point it somewhere else.
	t.Setenv(ciutil.EnvProjectRoot, "")
	t.Setenv(ciutil.EnvGitHubActions, "")
	t.Setenv(ciutil.EnvGitLabCI, "")

	dir, err := findMigrationsDir()
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(dir, filepath.FromSlash(migrationsDir)))
	assert.DirExists(t, dir)
}
