package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCachePutGet(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, "flights", nil)
	ctx := context.Background()

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)

	c.Put(ctx, "k1", sample("FlySafair"), 15*time.Minute)
	got, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, "FlySafair", got[0].Provider)
}

func TestRedisCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, "flights", nil)
	ctx := context.Background()

	c.Put(ctx, "k1", sample("Intercape"), 15*time.Minute)
	mr.FastForward(16 * time.Minute)

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok, "entry must never be served past expiry")
}

func TestRedisCachePrefixIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	flights := NewRedisCache(client, "flights", nil)
	buses := NewRedisCache(client, "buses", nil)
	ctx := context.Background()

	flights.Put(ctx, "k1", sample("FlySafair"), time.Minute)
	_, ok := buses.Get(ctx, "k1")
	assert.False(t, ok, "flight and bus caches must be independent")
}

func TestRedisCacheDownDegradesToMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, "flights", nil)
	ctx := context.Background()

	mr.Close()

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
	// Put must not panic either.
	c.Put(ctx, "k1", sample("FlySafair"), time.Minute)
}
