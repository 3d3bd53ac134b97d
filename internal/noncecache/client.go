package noncecache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// connectRetryDelay is the base delay between Redis dial attempts.
	connectRetryDelay = 200 * time.Millisecond

	// maxConnectRetryDelay caps the exponential backoff between attempts.
	maxConnectRetryDelay = 5 * time.Second

	// connectAttempts bounds how many times Connect retries before giving
	// up. Nonce allocation sits on the hot path of transaction submission;
	// a submitter shouldn't hard-fail on a transient Redis blip at startup.
	connectAttempts = 5
)

// ClientConfig holds connection parameters for the Redis client backing a
// Cache.
type ClientConfig struct {
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	MaxRetries int
	TLSEnabled bool
}

// Connect dials Redis, retrying with exponential backoff, then verifies the
// embedded nonce-reservation script loads into the server's script cache
// before returning. Loading the script here rather than lazily on the first
// Next call means a Redis deployment with scripting disabled (or fronted by
// a proxy that blocks EVAL/SCRIPT) fails at startup, not under load.
func Connect(ctx context.Context, cfg ClientConfig) (*Cache, error) {
	opts := &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		PoolSize:   cfg.PoolSize,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.TLSEnabled {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	rdb := redis.NewClient(opts)
	if err := dialWithRetry(ctx, rdb); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("noncecache: connect: %w", err)
	}

	c := New(rdb)
	if err := c.reserve.Load(ctx, rdb).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("noncecache: load reservation script: %w", err)
	}
	return c, nil
}

func dialWithRetry(ctx context.Context, rdb *redis.Client) error {
	delay := connectRetryDelay
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		err := rdb.Ping(ctx).Err()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxConnectRetryDelay {
			delay = maxConnectRetryDelay
		}
	}
	return lastErr
}

// Close closes the underlying Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
