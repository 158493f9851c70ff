package druginfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a lookup stays cached.
const DefaultCacheTTL = 24 * time.Hour

// RedisCache keeps lookups in Redis.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisCache creates a cache. A non-positive ttl uses DefaultCacheTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if client == nil {
		panic("druginfo: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{redis: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, name string) (Info, bool, error) {
	data, err := c.redis.Get(ctx, cacheKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Info{}, false, nil
	}
	if err != nil {
		return Info{}, false, fmt.Errorf("druginfo: cache get: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, false, fmt.Errorf("druginfo: cache decode: %w", err)
	}
	return info, true, nil
}

func (c *RedisCache) Set(ctx context.Context, name string, info Info) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("druginfo: cache encode: %w", err)
	}
	if err := c.redis.Set(ctx, cacheKey(name), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("druginfo: cache set: %w", err)
	}
	return nil
}

func cacheKey(name string) string {
	return fmt.Sprintf("druginfo:%s", name)
}
