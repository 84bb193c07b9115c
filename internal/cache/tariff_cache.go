package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"freightdesk/internal/model"
	"freightdesk/internal/pricing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultTTL bounds how long a bracket answer, including a miss, is served from cache.
const DefaultTTL = 5 * time.Minute

// missMarker is cached when the store had no covering bracket.
const missMarker = "null"

// KV is the subset of the redis client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// TariffCache is a read-through cache in front of a pricing.TariffStore.
// Redis failures degrade to direct store reads.
type TariffCache struct {
	next       pricing.TariffStore
	kv         KV
	ttl        time.Duration
	log        zerolog.Logger
	generation atomic.Int64
	hits       func()
	misses     func()
}

var _ pricing.TariffStore = (*TariffCache)(nil)

func NewTariffCache(next pricing.TariffStore, kv KV, ttl time.Duration, log zerolog.Logger) *TariffCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TariffCache{
		next:   next,
		kv:     kv,
		ttl:    ttl,
		log:    log.With().Str("component", "tariff_cache").Logger(),
		hits:   func() {},
		misses: func() {},
	}
}

// WithCounters hooks hit and miss counters.
func (c *TariffCache) WithCounters(hit, miss func()) *TariffCache {
	c.hits, c.misses = hit, miss
	return c
}

// Invalidate drops every cached answer of this process by moving to a new key generation.
func (c *TariffCache) Invalidate() {
	c.generation.Add(1)
}

func (c *TariffCache) FindBracket(ctx context.Context, origin, destination string, bucketKg decimal.Decimal) (*model.Tariff, error) {
	key := c.key("route", strings.ToLower(origin), strings.ToLower(destination), bucketKg.String())
	return c.readThrough(ctx, key, func() (*model.Tariff, error) {
		return c.next.FindBracket(ctx, origin, destination, bucketKg)
	})
}

func (c *TariffCache) FindAnyBracket(ctx context.Context, bucketKg decimal.Decimal) (*model.Tariff, error) {
	key := c.key("any", bucketKg.String())
	return c.readThrough(ctx, key, func() (*model.Tariff, error) {
		return c.next.FindAnyBracket(ctx, bucketKg)
	})
}

func (c *TariffCache) key(parts ...string) string {
	return fmt.Sprintf("tariff:%d:%s", c.generation.Load(), strings.Join(parts, "|"))
}

func (c *TariffCache) readThrough(ctx context.Context, key string, load func() (*model.Tariff, error)) (*model.Tariff, error) {
	raw, err := c.kv.Get(ctx, key).Result()
	switch {
	case err == nil:
		if t, ok := c.decode(key, raw); ok {
			c.hits()
			return t, nil
		}
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	c.misses()

	t, err := load()
	if err != nil {
		return nil, err
	}

	value := missMarker
	if t != nil {
		b, err := json.Marshal(t)
		if err != nil {
			return t, nil
		}
		value = string(b)
	}
	if err := c.kv.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return t, nil
}

func (c *TariffCache) decode(key, raw string) (*model.Tariff, bool) {
	if raw == missMarker {
		return nil, true
	}
	var t model.Tariff
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		return nil, false
	}
	return &t, true
}
