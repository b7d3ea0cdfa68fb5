//go:build integration

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "starting redis container")

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestRedisStore(t *testing.T) {
	url := startRedis(t)

	s, err := OpenRedis(context.Background(), url)
	require.NoError(t, err)
	defer s.Close()

	storeContract(t, s)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, err := OpenRedis(ctx, startRedis(t))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "short", []byte("v"), time.Second))
	ttl, err := s.client.TTL(ctx, redisPrefix+"short").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.Eventually(t, func() bool {
		_, ok, err := s.Get(ctx, "short")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisStore_ClearKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	s, err := OpenRedis(ctx, startRedis(t))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.client.Set(ctx, "other:key", "x", 0).Err())
	require.NoError(t, s.Put(ctx, "profile:1", []byte("p"), 0))
	require.NoError(t, s.Clear(ctx))

	n, err := s.client.Exists(ctx, "other:key").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := OpenRedis(ctx, "redis://127.0.0.1:1/0")
	assert.Error(t, err)
}
