package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied idempotency keys and the response
// produced for them, so a repeated submission replays instead of re-executing.
type IdempotencyStore interface {
	// Claim reserves key for the caller.
	// Returns true if the key was newly claimed, false if it is already claimed or completed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the response recorded for a claimed key
	Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error

	// Lookup returns the stored response for key.
	// A nil slice with a nil error means the key is claimed but still in flight, or unknown.
	Lookup(ctx context.Context, key string) ([]byte, error)

	// Release forgets a claimed key so the request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key and its response are remembered
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
