// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPrefix namespaces every key this package writes.
const redisPrefix = "sauron:lookup:"

const scanBatch = 500

// RedisStore shares entries between machines through a Redis server.
// Expiry is delegated to Redis.
type RedisStore struct {
	client *redis.Client
	url    string
}

// OpenRedis connects to url (redis://host:port/db) and pings the server.
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		return nil, fmt.Errorf("redis cache needs a URL")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client, url: opts.Addr}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return data, true, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, redisPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Stats counts keys under the cache prefix. Redis drops expired keys
// itself, so Expired is always zero.
func (r *RedisStore) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Backend: "redis", Location: r.url}
	err := r.scan(ctx, func(keys []string) error {
		st.Entries += len(keys)
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return r.scan(ctx, func(keys []string) error {
		if len(keys) == 0 {
			return nil
		}
		return r.client.Del(ctx, keys...).Err()
	})
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, redisPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scanning cache keys: %w", err)
		}
		if err := fn(keys); err != nil {
			return fmt.Errorf("processing cache keys: %w", err)
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
