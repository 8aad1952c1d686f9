package oracle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Completer is the minimal completion contract the cache decorates.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CachedCompleter caches oracle responses in Redis keyed by prompt hash.
// Identical inputs within the TTL skip the network call entirely. Cache
// errors are logged and treated as misses.
type CachedCompleter struct {
	inner  Completer
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedCompleter wraps a completer with a Redis response cache.
func NewCachedCompleter(inner Completer, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCompleter {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedCompleter{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Complete returns a cached response when available, otherwise delegates
// and stores the result.
func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		c.logger.Debug("oracle cache hit", "key", key)
		return cached, nil
	}
	if err != redis.Nil {
		c.logger.Warn("oracle cache read failed", "error", err)
	}

	response, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, response, c.ttl).Err(); err != nil {
		c.logger.Warn("oracle cache write failed", "error", err)
	}

	return response, nil
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "flowspace:oracle:" + hex.EncodeToString(sum[:])
}
