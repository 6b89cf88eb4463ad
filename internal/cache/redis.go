package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fareleap/traveldeals/internal/offers"
	"github.com/fareleap/traveldeals/pkg/logging"
)

// RedisCache is a Store backed by Redis, for deployments where multiple bot
// processes should share one offer cache. Redis trouble degrades to a cache
// miss; a search must never fail because the cache is down.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *logging.Logger
	tracer trace.Tracer
}

// NewRedisCache creates a Redis-backed offer cache. prefix namespaces keys
// per service so flight and bus instances stay independent.
func NewRedisCache(client *redis.Client, prefix string, logger *logging.Logger) *RedisCache {
	if client == nil {
		panic("cache: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		logger: logger,
		tracer: otel.Tracer("traveldeals.internal.cache.redis"),
	}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

// Get returns the cached offers, or absent on unknown keys, expiry, or any
// Redis/decode failure.
func (c *RedisCache) Get(ctx context.Context, key string) ([]offers.Offer, bool) {
	ctx, span := c.tracer.Start(ctx, "cache.redis_get")
	defer span.End()

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			span.RecordError(err)
			c.logger.Warn("cache: redis get failed, treating as miss", "error", err)
		}
		return nil, false
	}

	var value []offers.Offer
	if err := json.Unmarshal(data, &value); err != nil {
		span.RecordError(err)
		c.logger.Warn("cache: failed to decode cached offers, treating as miss", "error", err)
		return nil, false
	}
	return value, true
}

// Put stores value under key with the given TTL. Failures are logged and
// swallowed.
func (c *RedisCache) Put(ctx context.Context, key string, value []offers.Offer, ttl time.Duration) {
	ctx, span := c.tracer.Start(ctx, "cache.redis_put")
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		c.logger.Warn("cache: failed to encode offers", "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		span.RecordError(err)
		c.logger.Warn("cache: redis set failed", "error", err)
	}
}
