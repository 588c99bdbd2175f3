package cache

import (
	"context"

	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Key prefixes of the two idempotency namespaces
const (
	RequestKeyPrefix = "propdesk:idempotency:request:"
	EventKeyPrefix   = "propdesk:idempotency:event:"
)

// NewIdempotencyStore returns a Redis backed store when Redis is configured
// and reachable. Otherwise it logs the reason and returns an in-memory store,
// except in production where an unreachable Redis is an error.
func NewIdempotencyStore(ctx context.Context, cfg *config.Config, keyPrefix string, log *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Redis.Enabled() {
		log.Info("Redis not configured, using in-memory idempotency store",
			zap.String("prefix", keyPrefix))
		return NewInMemoryIdempotencyStore(), nil
	}

	client, err := NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		if cfg.IsProduction() {
			return nil, err
		}
		log.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err))
		return NewInMemoryIdempotencyStore(), nil
	}

	store := NewRedisIdempotencyStore(client, keyPrefix)
	store.owned = true
	log.Info("Using Redis idempotency store",
		zap.String("addr", cfg.Redis.Addr()),
		zap.String("prefix", keyPrefix))
	return store, nil
}
