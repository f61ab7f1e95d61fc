// Package cache provides byte-level caching for LLM responses.
//
// Suggestion requests are deterministic in (provider, model, topic), so
// their completions can be reused across CLI invocations instead of paying
// for a network round trip every time. Two backends are provided:
//
//   - FileCache: entries as files under a directory, for CLI usage
//   - NullCache: a no-op backend for tests and --refresh runs
//
// Keys are hashed with SHA-256 before hitting the filesystem, so arbitrary
// topic text never appears in file names.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached completions stay fresh. Suggestions go
// stale slowly; a day keeps repeated demo runs free without pinning old
// model output forever.
const DefaultTTL = 24 * time.Hour

// Cache stores opaque byte values with per-entry expiration.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SuggestionKey builds the cache key for a suggestion completion.
// The key binds provider and model so switching either never serves
// stale output from the other.
func SuggestionKey(provider, model, topic string) string {
	return hashKey("suggest", provider, model, topic)
}
