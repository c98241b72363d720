package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "medstud:quiz:"

// RedisCache is a Cache shared between processes through Redis. Entries
// are stored as JSON item lists.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRedisCache creates a cache on client. A zero ttl keeps entries until
// evicted by Redis. A nil logger discards cache errors.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *log.Logger) *RedisCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) key(k string) string {
	return redisKeyPrefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Item, bool) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Printf("quiz cache get %s: %v", key, err)
		return nil, false
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Printf("quiz cache decode %s: %v", key, err)
		return nil, false
	}
	return items, true
}

func (c *RedisCache) Put(ctx context.Context, key string, items []Item) {
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Printf("quiz cache encode %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		c.logger.Printf("quiz cache put %s: %v", key, err)
	}
}
