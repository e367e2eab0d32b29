package websearch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"skintech-consultant-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// CachedProvider keeps provider answers in Redis. Cache faults fall through to the provider.
type CachedProvider struct {
	next   Provider
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger logger.ILogger
}

func NewCachedProvider(next Provider, rdb *redis.Client, ttl time.Duration, name string, logger logger.ILogger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		prefix: "websearch:" + name,
		logger: logger,
	}
}

func (c *CachedProvider) key(query string, maxResults int) string {
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("%s:%d:%s", c.prefix, maxResults, hex.EncodeToString(sum[:]))
}

func (c *CachedProvider) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	key := c.key(query, maxResults)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []SearchResult
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			return cached, nil
		}
		// data corrupt: treat as miss
		_ = c.rdb.Del(ctx, key).Err()
	case err != redis.Nil:
		c.logger.Warn("WEBSEARCH", "Search cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results, err := c.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	// Empty answers are not cached so a transient blank page does not stick.
	if len(results) > 0 {
		if b, err := json.Marshal(results); err == nil {
			if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
				c.logger.Warn("WEBSEARCH", "Search cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
	return results, nil
}
