// Package cache is a small JSON cache over redis used for read-heavy
// lookups like organization details and dashboard statistics.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when the key is not cached.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, key string, value interface{}) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return errors.Wrap(err, "reading cache")
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return errors.Wrap(err, "decoding cached value")
	}
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encoding cache value")
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "writing cache")
	}
	return nil
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}
