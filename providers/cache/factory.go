package cache

import (
	"fmt"

	"weatherboard.app/config"
)

// NewStore builds the non-database cache backend named by the configuration.
// The database backend lives in the repository layer and is wired by the
// application directly.
func NewStore(cfg *config.CacheConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(&RedisCacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
