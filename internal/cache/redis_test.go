package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/worklog-ledger/internal/config"
)

type testStruct struct {
	Name  string
	Cents int64
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := testStruct{Name: "record:alice:2025-3", Cents: 245000}
	err := cache.Set("record:alice:2025-3", expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get("record:alice:2025-3", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("profile:alice", testStruct{Name: "Alice"}, time.Minute))
	require.NoError(t, cache.Invalidate("profile:alice"))

	var out testStruct
	found, err := cache.Get("profile:alice", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
