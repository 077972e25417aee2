package cache

import (
	"fmt"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/config"
)

// NewIdempotencyStore builds the idempotency store selected by configuration.
// Returns nil when idempotency is disabled; callers treat a nil store as
// "accept every request".
func NewIdempotencyStore(cfg *config.Config) (shared.IdempotencyStore, error) {
	if !cfg.Idempotency.Enabled {
		return nil, nil
	}

	switch cfg.Idempotency.Backend {
	case "memory":
		return NewInMemoryIdempotencyStore(), nil
	case "redis":
		return NewRedisIdempotencyStore(RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return nil, fmt.Errorf("unknown idempotency backend: %q", cfg.Idempotency.Backend)
	}
}
