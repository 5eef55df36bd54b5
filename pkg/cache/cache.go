// Package cache stores derived artifacts keyed by content hash: decoded
// trees, computed layouts, and rendered output. Because every key embeds a
// hash of the inputs that produced the value, entries never go stale — a
// changed tree simply hashes to a new key.
//
// Three backends are provided: [FileCache] for CLI usage, [RedisCache] for
// the HTTP server, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must treat a missing key as (nil, false, nil), not as an
// error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
