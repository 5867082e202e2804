package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that have already been accepted,
// so a client retrying a create after a timeout does not produce a duplicate
// order and a double stock deduction.
type IdempotencyStore interface {
	// MarkProcessed records a request key with a TTL. Returns true if the key
	// was newly recorded, false if a request with the same key was already
	// accepted within the TTL window.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release removes a key recorded by MarkProcessed. Called when the
	// request the key was marked for did not complete, so the client can
	// retry with the same key.
	Release(ctx context.Context, key string) error

	// Close releases any resources held by the store
	Close() error
}
