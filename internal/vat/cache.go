package vat

import (
	"context"
	"time"
)

// CacheStore is the transient store backing the AADE client: raw response
// bodies keyed by VAT number with a fixed TTL. Implementations are plain
// key/value stores with no locking — two concurrent first-time lookups for
// the same VAT may both hit the remote service, which is acceptable because
// the operation is idempotent.
type CacheStore interface {
	// Get returns the cached body for key and whether a live entry exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores body under key for the given TTL, replacing any prior entry.
	Set(ctx context.Context, key, provider, body string, ttl time.Duration) error
}
