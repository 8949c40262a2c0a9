package httpx

import (
	"context"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every replica. Redis
// errors fail open so an outage never locks users out of their clock.
type RedisLimiter struct {
	client  *redis.Client
	logger  *slog.Logger
	prefix  string
	timeout time.Duration
}

// NewRedisLimiter connects and pings Redis before returning.
func NewRedisLimiter(addr, password string, db int, logger *slog.Logger) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLimiter{
		client:  client,
		logger:  logger,
		prefix:  "timeclock:ratelimit:",
		timeout: 250 * time.Millisecond,
	}, nil
}

// Allow counts the request in the current window. The limit is the larger
// of RequestsPerWindow and Burst.
func (rl *RedisLimiter) Allow(ctx context.Context, key string, cfg RateLimitConfig) Decision {
	limit := max(cfg.RequestsPerWindow, cfg.Burst)
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.logger.Error("redis rate limiter error", "op", "incr", "error", err)
		return Decision{Allowed: true}
	}
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			rl.logger.Error("redis rate limiter error", "op", "expire", "error", err)
		}
	}
	if int(counter) <= limit {
		return Decision{Allowed: true}
	}

	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return Decision{Allowed: false, RetryAfter: ttl}
}

// Ping reports whether Redis is reachable. Used by readiness checks.
func (rl *RedisLimiter) Ping(ctx context.Context) error {
	return rl.client.Ping(ctx).Err()
}

func (rl *RedisLimiter) Close() error {
	return rl.client.Close()
}
