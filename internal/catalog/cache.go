package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/orders-intake/internal/entity"
)

// Store is the subset of redis commands the cache uses. *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisCache keeps a JSON snapshot of another provider's catalog in redis so
// that workers share one read of the source. Cache failures fall through to the source.
type RedisCache struct {
	Next   Provider
	Store  Store
	Key    string
	TTL    time.Duration
	Logger *slog.Logger
}

func NewRedisCache(next Provider, store Store, key string, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = "orders:catalog"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{Next: next, Store: store, Key: key, TTL: ttl, Logger: logger}
}

func (c *RedisCache) GetCatalog(ctx context.Context) (entity.Catalog, error) {
	data, err := c.Store.Get(ctx, c.Key).Result()
	switch {
	case err == nil && data != "":
		var cat entity.Catalog
		if jerr := json.Unmarshal([]byte(data), &cat); jerr == nil && len(cat) > 0 {
			c.Logger.Debug("catalog.cache.hit", "key", c.Key, "entries", len(cat))
			return cat, nil
		} else if jerr != nil {
			c.Logger.Warn("catalog.cache.corrupt", "key", c.Key, "error", jerr)
		}
	case errors.Is(err, redis.Nil):
	case err != nil:
		c.Logger.Warn("catalog.cache.get_failed", "key", c.Key, "error", err)
	}

	cat, err := c.Next.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(cat) == 0 {
		return cat, nil
	}
	payload, err := json.Marshal(cat)
	if err != nil {
		return cat, nil
	}
	if err := c.Store.Set(ctx, c.Key, payload, c.TTL).Err(); err != nil {
		c.Logger.Warn("catalog.cache.set_failed", "key", c.Key, "error", err)
	}
	return cat, nil
}

// Invalidate drops the snapshot, e.g. after a catalog import.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.Store.Del(ctx, c.Key).Err()
}
