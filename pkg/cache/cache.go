// Package cache provides the byte-level caches behind deckview's data
// source and frame pipeline.
//
// A [Cache] stores opaque byte slices under string keys with an optional
// TTL. Three backends exist:
//   - [FileCache]: one JSON entry file per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis server
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer] so that every caller builds them the same
// way. [NewScopedKeyer] prefixes all keys, which keeps different users'
// private sheets apart in a shared backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte cache keyed by string.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Expired entries are misses. A non-nil error means the backend failed.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs per kind of entry.
const (
	// TTLSheet covers raw sheet responses. Sheets change, so keep it short.
	TTLSheet = 10 * time.Minute

	// TTLPhoto covers downloaded card photos.
	TTLPhoto = 7 * 24 * time.Hour

	// TTLArtifact covers rendered frames, which are a pure function of
	// their key.
	TTLArtifact = 30 * 24 * time.Hour
)
