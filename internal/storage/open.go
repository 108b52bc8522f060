package storage

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"github.com/rs/zerolog"
)

// Open builds the store selected by cfg.
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageFile:
		return NewFileStore(cfg.Path, logger)
	case config.StorageRedis:
		return NewRedisStore(ctx, RedisConfig{
			URL:     cfg.RedisURL,
			Prefix:  cfg.Prefix,
			Channel: cfg.Channel,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
