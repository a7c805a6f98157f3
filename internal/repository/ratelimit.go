package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const reportLimitPrefix = "report_limit"

// ReportLimiter ограничивает количество обращений от одного автора за окно времени.
// Счетчик живет в Redis, TTL ставится при первом обращении в окне.
type ReportLimiter struct {
	redisClient *redis.Client
	limit       int
	window      time.Duration
}

func NewReportLimiter(redisClient *redis.Client, limit int, window time.Duration) *ReportLimiter {
	return &ReportLimiter{
		redisClient: redisClient,
		limit:       limit,
		window:      window,
	}
}

// Allow увеличивает счетчик для ключа и сообщает, укладывается ли он в лимит.
// При превышении возвращает время до сброса окна.
func (l *ReportLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.limit <= 0 {
		return true, 0, nil
	}

	redisKey := reportLimitPrefix + ":" + key
	count, err := l.redisClient.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment report counter: %w", err)
	}

	if count == 1 {
		if err := l.redisClient.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set report counter ttl: %w", err)
		}
	}

	if count > int64(l.limit) {
		retryAfter, err := l.redisClient.TTL(ctx, redisKey).Result()
		if err != nil {
			return false, 0, fmt.Errorf("failed to get report counter ttl: %w", err)
		}
		return false, retryAfter, nil
	}
	return true, 0, nil
}
