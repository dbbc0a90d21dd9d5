// Package cache provides the session-handle cache injected into the calling
// layer: key is a user identity, value an opaque session handle, eviction is
// explicit TTL rather than ad hoc module-level state.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns the cached value and whether it was present and unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value for the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete evicts a key.
	Delete(ctx context.Context, key string) error
}
