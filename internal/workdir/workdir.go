// Package workdir resolves the places data directory, supporting
// redirection to another directory via a .places-root file.
package workdir

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// EnvHome overrides the default data directory.
	EnvHome = "PLACES_HOME"

	rootFile   = ".places-root"
	defaultDir = ".places"
)

// ResolveDataDir picks the data directory. An explicit directory wins, then
// $PLACES_HOME, then ~/.places. The result is passed through
// ResolveRedirect. Falls back to ./.places when no home directory exists.
func ResolveDataDir(explicit string) string {
	dir := explicit
	if dir == "" {
		dir = os.Getenv(EnvHome)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			dir = defaultDir
		} else {
			dir = filepath.Join(home, defaultDir)
		}
	}
	return ResolveRedirect(dir)
}

// ResolveRedirect checks for a .places-root file in the given directory.
// If found, it returns the path contained in that file, resolved relative
// to dir when not absolute. Otherwise dir is returned unchanged. This lets
// a machine keep its notebook in a different folder (for example one
// managed by a file-sync tool) without changing every invocation.
func ResolveRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return dir
	}
	resolved := strings.TrimSpace(string(content))
	if resolved == "" {
		return dir
	}
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	return filepath.Clean(resolved)
}
