package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// FixedWindowLimiter is a Redis INCR counter per key and window bucket,
// shared by every server instance.
type FixedWindowLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewFixedWindowLimiter(client redis.Cmdable, limit int, window time.Duration) *FixedWindowLimiter {
	if window < time.Second {
		window = time.Minute
	}
	return &FixedWindowLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "cinezone:ratelimit",
		now:    time.Now,
	}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	windowSeconds := int64(l.window / time.Second)
	bucket := now.Unix() / windowSeconds
	resetAt := time.Unix((bucket+1)*windowSeconds, 0)

	if l.limit <= 0 {
		return Decision{Allowed: true, ResetAt: resetAt}, nil
	}

	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := incr.Val()
	remaining := int64(l.limit) - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: int(remaining),
		ResetAt:   resetAt,
	}, nil
}
