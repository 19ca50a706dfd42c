// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lead-scoring-workers/internal/common/config"
)

const minPoolSize = 4

// RedisClient holds the connection backing the completion reply cache.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a client whose pool fits concurrent scoring calls, one
// cache lookup and one store per in-flight lead. It does not dial.
func NewRedis(cfg config.RedisConfig, concurrency int) *RedisClient {
	pool := 2 * concurrency
	if pool < minPoolSize {
		pool = minPoolSize
	}
	return &RedisClient{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     pool,
		MinIdleConns: 1,
	})}
}

// PoolSize reports the configured connection pool size.
func (c *RedisClient) PoolSize() int {
	return c.Client.Options().PoolSize
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.Client.Options().Addr, err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}

// Cmdable exposes the command surface the reply cache depends on.
func (c *RedisClient) Cmdable() redis.Cmdable {
	return c.Client
}
