package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by GetJSON when the key is absent or caching is disabled.
var ErrCacheMiss = errors.New("cache miss")

// GetJSON fetches key and unmarshals the stored JSON into dest.
func GetJSON(ctx context.Context, key string, dest interface{}) error {
	if client == nil {
		return ErrCacheMiss
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON marshals value as JSON and stores it under key with the given TTL.
// Failures are swallowed so callers never degrade on a cache error.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: if key is cached, unmarshal it into
// dest and return. Otherwise run load (which must populate dest), cache dest,
// and return load's error.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if err := GetJSON(ctx, key, dest); err == nil {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}
