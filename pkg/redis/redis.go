package redis

import (
	"context"
	"fmt"

	"github.com/Eusa190/FIXITY-CRI/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient создает клиент Redis для кеша обращений, очереди вебхуков и лимитов.
// При неудачном ping клиент закрывается.
func NewRedisClient(ctx context.Context, appCfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPass,
		DB:       appCfg.RedisDB,
		PoolSize: 10,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", appCfg.RedisAddr, err)
	}

	return rdb, nil
}
