package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache stores weather payloads in Redis, leaning on Redis TTLs for expiry
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

// RedisCacheConfig contains Redis connection settings
type RedisCacheConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCache creates a Redis cache backend and verifies connectivity
func NewRedisCache(config *RedisCacheConfig) (*RedisCache, error) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	slog.Info("redis cache connected", "addr", config.Addr)

	return &RedisCache{
		client: client,
		ctx:    ctx,
	}, nil
}

// Get returns the payload for (cityID, kind) if the key has not expired
func (r *RedisCache) Get(cityID, kind string) ([]byte, bool) {
	val, err := r.client.Get(r.ctx, cacheKey(cityID, kind)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Error("redis get error", "error", err, "city_id", cityID, "kind", kind)
		}
		return nil, false
	}

	return val, true
}

// Put stores or overwrites the payload for (cityID, kind) with the given TTL
func (r *RedisCache) Put(cityID, kind string, payload []byte, ttl time.Duration) {
	if payload == nil {
		return
	}

	if err := r.client.Set(r.ctx, cacheKey(cityID, kind), payload, ttl).Err(); err != nil {
		slog.Error("redis set error", "error", err, "city_id", cityID, "kind", kind)
	}
}
