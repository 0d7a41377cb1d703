package weave

import (
	"os"
	"path/filepath"
)

// Home returns the Weave home directory.
// It defaults to ~/.weave but can be overridden with the WEAVE_HOME
// environment variable.
func Home() string {
	if v := os.Getenv("WEAVE_HOME"); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".weave")
}

// DefaultCachePath returns the default resource cache database path
// (~/.weave/cache.db).
func DefaultCachePath() string {
	return filepath.Join(Home(), "cache.db")
}

// EnsureHome creates the Weave home directory if it doesn't exist.
func EnsureHome() error {
	return os.MkdirAll(Home(), 0o755)
}
