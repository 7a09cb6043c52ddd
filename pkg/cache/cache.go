// Package cache provides an optional Redis read-through cache.
//
// The storefront works without Redis: Connect marks the client unavailable on
// failure and every Get becomes a miss, every Set a no-op.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rsharma-dev/zaika/config"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// Connect initialises the Redis client and verifies the connection.
// When REDIS_ADDR is unset the cache stays disabled and Connect returns nil.
func Connect() error {
	addr := config.RedisAddr()
	if addr == "" {
		return nil
	}

	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb = nil // unavailable: Get/Set/Forget no-op safely
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Client exposes the underlying Redis client, or nil when disabled.
// The broadcast package shares this connection for pub/sub.
func Client() *redis.Client { return rdb }

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss, error, or a disabled cache.
func Get(key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}

	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}

	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a value under key with the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return rdb.Set(ctx, key, raw, ttl).Err()
}

// Forget removes a key.
func Forget(key string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, key).Err()
}
