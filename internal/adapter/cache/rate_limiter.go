package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ppc-sim/internal/core/port"
)

const keyPrefix = "ppcsim:ratelimit:"

// RateLimiter implements port.RateLimiter with fixed windows stored in Redis.
// Every window gets its own counter key which expires with the window.
type RateLimiter struct {
	client redis.Cmdable
	window time.Duration
	now    func() time.Time
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRateLimiter returns a limiter counting requests per window.
func NewRateLimiter(client redis.Cmdable, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{client: client, window: window, now: time.Now}
}

// Allow increments the counter of key in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int) (port.RateLimitResult, error) {
	now := l.now()
	redisKey, resetIn := l.windowKey(key, now)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		p.PExpire(ctx, redisKey, resetIn+time.Second)
		return nil
	})
	if err != nil {
		return port.RateLimitResult{}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	count := int(incr.Val())
	return port.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(0, limit-count),
		ResetIn:   resetIn,
	}, nil
}

// windowKey returns the counter key for the window containing now and the
// time left until that window closes.
func (l *RateLimiter) windowKey(key string, now time.Time) (string, time.Duration) {
	start := now.Truncate(l.window)
	return fmt.Sprintf("%s%s:%d", keyPrefix, key, start.Unix()), start.Add(l.window).Sub(now)
}
