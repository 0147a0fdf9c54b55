// Package cache stores rendered drawings and artifacts between runs.
//
// # Backends
//
// All backends implement [Cache]:
//
//   - [FileCache]: one file per entry below a directory (CLI default)
//   - [BadgerCache]: an embedded badger database, or an in-memory one
//   - [RedisCache]: a shared redis server, for API deployments
//   - [NullCache]: stores nothing, used when caching is disabled
//
// [Open] selects a backend by name.
//
// # Keys
//
// A [Keyer] derives keys from the topology hash and every option that
// changes the result, so a change of cell size or costs never serves a
// stale drawing. [ScopedKeyer] prefixes keys for namespace isolation.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	TTLDrawing  = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
