// Package cache stores rendered card sheets and generated coded images so
// repeated runs over the same input skip the render stage.
//
// Three implementations share the [Cache] interface:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON entry file per key, used by the CLI
//   - [RedisCache]: shared cache for the HTTP API
//
// Keys are produced by a [Keyer] so the CLI and the API agree on them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default time-to-live values per entry kind.
const (
	// TTLArtifact is how long a rendered document stays cached.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLCodedImage is how long a generated QR image stays cached. Codes
	// depend only on their content, so they live longer than documents.
	TTLCodedImage = 30 * 24 * time.Hour
)
