package config

import (
	"context"
	"fmt"
	"time"

	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/cache"
	"Foodgram-Backend/internal/utils/logging"

	"github.com/redis/go-redis/v9"
)

// ConnectCache returns a Redis backed cache, or the in-memory cache when
// REDIS_ADDR is empty.
func ConnectCache(ctx context.Context) (cache.Cache, func() error, error) {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		logging.Warn().Msg("REDIS_ADDR not set, using in-memory cache")
		return cache.NewMemoryCache(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       utils.GetConfigInt("REDIS_DB", 0),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis connection failed: %w", err)
	}

	logging.Info().Str("addr", addr).Msg("connected to redis")
	return cache.NewRedisCache(client), client.Close, nil
}
