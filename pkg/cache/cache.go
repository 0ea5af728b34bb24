// Package cache provides caching for molecular format conversions.
//
// Normalizing a structure input can shell out to Open Babel, and 3-D
// embedding of a SMILES string is by far the slowest step of building a
// packing session. Converted geometries are content-addressed, so the
// results are safe to reuse across sessions and across molpack runs.
//
// Two implementations are provided:
//   - FileCache: directory-backed cache for CLI usage
//   - NullCache: disables caching (tests, --no-cache)
//
// Cache keys are produced by a Keyer so that every component hashing the
// same inputs arrives at the same key.
package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts. Geometries are content-addressed by input
// hash, format, and force field, so they never go stale; the TTLs bound
// disk growth rather than correctness.
const (
	// TTLGeometry is the lifetime of converted geometry files.
	TTLGeometry = 30 * 24 * time.Hour

	// TTLEnergy is the lifetime of computed single-point energies.
	TTLEnergy = 30 * 24 * time.Hour
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
