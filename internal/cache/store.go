// Package cache provides key/value stores for upstream provider responses.
package cache

import (
	"context"
	"time"
)

// Store caches JSON-serializable values under string keys
type Store interface {
	// Get decodes the value stored under key into dst and reports whether it was found
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores value under key for ttl; a zero ttl uses the store default
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error

	// Close releases backend resources
	Close() error
}
