package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been claimed, such as
// processed event IDs or client supplied Idempotency-Key headers.
type IdempotencyStore interface {
	// MarkProcessed claims the key for ttl.
	// Returns true if the key was newly claimed, false if it was already taken.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether the key has been claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claim so that the key can be used again
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a claimed key is remembered. Default: 24 hours
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
