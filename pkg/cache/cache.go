// Package cache provides byte caches for decoded datasets and rendered
// scenes.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the preview server
//   - [NullCache]: stores nothing; used when caching is disabled
//
// All backends implement [Cache]. Keys are built with a [Keyer] so that
// different deployments can share one Redis instance under separate
// prefixes.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error; errors are reserved for
// backend failures. A ttl <= 0 passed to Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
