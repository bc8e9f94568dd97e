package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "articlehub:throttle:"

// RedisLimiter shares windows between instances through redis. The first hit
// in a window creates the counter with the window's expiry.
type RedisLimiter struct {
	rdb   *redis.Client
	limit int
	ttl   time.Duration
}

// NewRedisLimiter allows limit hits per key every ttl.
func NewRedisLimiter(rdb *redis.Client, limit int, ttl time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, ttl: ttl}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := keyPrefix + key

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.ttl)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("throttle %s: %w", key, err)
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		resetIn = l.ttl
	}
	return decide(incr.Val(), l.limit, resetIn), nil
}

// Ping checks the redis connection.
func (l *RedisLimiter) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
