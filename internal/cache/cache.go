// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps registry lookups that rarely change (author profiles
// and institution names) across runs. Entries expire after a TTL. Search
// results and membership listings are never cached: they carry the current
// affiliation the pipeline verifies.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/wevbarker/sauron/pkg/types"
)

// Store is a byte-valued key store with per-entry expiry.
type Store interface {
	// Get returns the value for key. A missing or expired entry is
	// (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key for ttl. A zero ttl never expires.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Stats counts the stored entries.
	Stats(ctx context.Context) (Stats, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	Close() error
}

// Stats describes a cache's contents.
type Stats struct {
	Backend  string `json:"backend" yaml:"backend"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Entries  int    `json:"entries" yaml:"entries"`
	Expired  int    `json:"expired" yaml:"expired"`
}

// Open returns the store selected by cfg. The none backend returns a nil
// Store and no error.
func Open(ctx context.Context, cfg types.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case types.CacheNone, "":
		return nil, nil
	case types.CacheMemory:
		return NewMemoryStore(), nil
	case types.CacheSQLite:
		s, err := OpenSQLite(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.CacheRedis:
		s, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q (want none, memory, sqlite, or redis)", cfg.Backend)
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
