package ciutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// goModFile marks the project root for detection purposes.
const goModFile = "go.mod"

// Common errors for project root detection.
var (
	ErrProjectRootNotFound = errors.New("unable to find project root")
	ErrInvalidProjectRoot  = errors.New("invalid project root: no go.mod file found")
)

// FindProjectRoot returns the absolute path to the project root
// directory. It checks several sources in order:
//
//  1. GENFORGE_PROJECT_ROOT environment variable (explicit override)
//  2. GITHUB_WORKSPACE when running under GitHub Actions
//  3. CI_PROJECT_DIR when running under GitLab CI
//  4. Walking upward from the working directory looking for go.mod
//
// An explicit override that does not hold a go.mod is an error; the CI
// hints fall through to detection when they point somewhere else.
func FindProjectRoot() (string, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		if !isValidProjectRoot(root) {
			return "", fmt.Errorf("%w at %s", ErrInvalidProjectRoot, root)
		}
		return root, nil
	}

	if IsGitHubActions() {
		if workspace := os.Getenv(EnvGitHubWorkspace); isValidProjectRoot(workspace) {
			return workspace, nil
		}
	}

	if IsGitLabCI() {
		if projectDir := os.Getenv(EnvGitLabProjectDir); isValidProjectRoot(projectDir) {
			return projectDir, nil
		}
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	for {
		if isValidProjectRoot(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrProjectRootNotFound
		}
		dir = parent
	}
}

// isValidProjectRoot reports whether dir contains a go.mod file.
func isValidProjectRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, goModFile))
	return err == nil && !info.IsDir()
}
