package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lead-scoring-workers/internal/common/logger"
)

// CachedCompleter serves repeated deterministic prompts from redis.
// Only temperature-0 requests are cached. Cache failures fall through to next.
type CachedCompleter struct {
	next   Completer
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
	log    logger.Logger
}

func NewCachedCompleter(next Completer, rdb redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *CachedCompleter {
	return &CachedCompleter{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: prefix,
		log:    log.WithFields(map[string]interface{}{"component": "reply-cache"}),
	}
}

// CacheKey derives the redis key for req.
func (c *CachedCompleter) CacheKey(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%g\x00%d\x00%s", req.Model, req.Temperature, req.MaxTokens, req.Prompt)
	return c.prefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if req.Temperature != 0 {
		return c.next.Complete(ctx, req)
	}

	key := c.CacheKey(req)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.log.Debug("reply cache hit", map[string]interface{}{"key": key})
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.log.Warn("reply cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	reply, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.rdb.Set(ctx, key, reply, c.ttl).Err(); err != nil {
		c.log.Warn("reply cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return reply, nil
}
