package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int           // default: 5
	RetryDelay time.Duration // default: 2 seconds
}

// ConnectRedisWithRetry pings the server until it answers or the retries
// run out. The client is closed on failure.
func ConnectRedisWithRetry(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	var lastErr error
	for i := 1; i <= opts.MaxRetries; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			slog.Info("Connected to Redis", "addr", opts.Addr, "db", opts.DB)
			return rdb, nil
		}

		slog.Warn("Redis ping failed", "attempt", i, "max_retries", opts.MaxRetries, "error", lastErr)
		if i == opts.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("redis connection failed after %d retries: %w", opts.MaxRetries, lastErr)
}
