package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLUnreadTotal = 30 * time.Second // unread aggregate (frequently updated)
	TTLDedup       = 24 * time.Hour   // trigger dedup tokens
	TTLDefault     = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixUnreadTotal = "unread:total:"
	PrefixDedup       = "trigger:msg:"
)

// ErrCacheMiss is returned when a key is not present
var ErrCacheMiss = errors.New("cache miss")

// Service Redis-backed cache for hot messaging reads
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Unread aggregate cache
	GetUnreadTotal(ctx context.Context, userID string) (int, bool)
	SetUnreadTotal(ctx context.Context, userID string, total int)
	InvalidateUnreadTotal(ctx context.Context, userID string)

	// Once reserves a one-shot token; returns false when the token was
	// already claimed (used to dedup at-least-once trigger deliveries).
	Once(ctx context.Context, key string, ttl time.Duration) bool

	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetUnreadTotal(ctx context.Context, userID string) (int, bool) {
	var total int
	if err := c.Get(ctx, PrefixUnreadTotal+userID, &total); err != nil {
		return 0, false
	}
	return total, true
}

func (c *redisCache) SetUnreadTotal(ctx context.Context, userID string, total int) {
	//nolint:errcheck // cache writes are best effort
	c.Set(ctx, PrefixUnreadTotal+userID, total, TTLUnreadTotal)
}

func (c *redisCache) InvalidateUnreadTotal(ctx context.Context, userID string) {
	//nolint:errcheck // cache writes are best effort
	c.Delete(ctx, PrefixUnreadTotal+userID)
}

func (c *redisCache) Once(ctx context.Context, key string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = TTLDedup
	}
	ok, err := c.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		// Redis unavailable: fall open, the upstream contract is at-least-once
		return true
	}
	return ok
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return c.client.Ping(ctx).Err()
}
