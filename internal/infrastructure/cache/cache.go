// Package cache provides a small byte-value cache with Redis and in-memory backends.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value cache
type Store interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
