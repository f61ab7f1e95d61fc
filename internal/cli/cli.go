// Package cli implements the diagramgen command-line interface.
//
// This package provides commands for compiling diagram notation into
// SVG, asking an LLM provider for diagram suggestions, running the
// multi-step agent loop, browsing the built-in demo gallery, and
// serving the compiler over MCP. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - compile: Compile notation into SVG, DOT, PNG, or JSON
//   - suggest: Generate diagram suggestions for a topic
//   - agent: Run the multi-step diagram agent on a task
//   - demo: Browse and compile the demo gallery
//   - mcp: Serve the compiler over MCP stdio
//   - cache: Manage the suggestion cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"os"
	"path/filepath"

	"github.com/HomenShum/paper-diagram-gen/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "diagramgen"

// cacheDir returns the cache directory using XDG standard (~/.cache/diagramgen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newCache builds the suggestion cache. Cache failures degrade to a
// null cache rather than failing the command.
func newCache(refresh bool) cache.Cache {
	if refresh {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}
