package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"freightdesk/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data   map[string]string
	getErr error
	setErr error
	ttls   []time.Duration
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if m.setErr != nil {
		return redis.NewStatusResult("", m.setErr)
	}
	m.data[key] = value.(string)
	m.ttls = append(m.ttls, expiration)
	return redis.NewStatusResult("OK", nil)
}

type countingStore struct {
	tariff *model.Tariff
	calls  int
	err    error
}

func (s *countingStore) FindBracket(context.Context, string, string, decimal.Decimal) (*model.Tariff, error) {
	s.calls++
	return s.tariff, s.err
}

func (s *countingStore) FindAnyBracket(context.Context, decimal.Decimal) (*model.Tariff, error) {
	s.calls++
	return s.tariff, s.err
}

func sampleTariff() *model.Tariff {
	return &model.Tariff{
		ID:          4,
		Origin:      "Buenos Aires",
		Destination: "Salta",
		TariffType:  model.TariffTypeStandard,
		WeightToKg:  decimal.NewFromInt(50),
		Price:       decimal.RequireFromString("5000.50"),
	}
}

func TestTariffCache_ReadThrough(t *testing.T) {
	store := &countingStore{tariff: sampleTariff()}
	kv := newMemKV()
	c := NewTariffCache(store, kv, time.Minute, zerolog.Nop())

	var hits, misses int
	c.WithCounters(func() { hits++ }, func() { misses++ })

	for i := 0; i < 3; i++ {
		got, err := c.FindBracket(context.Background(), "Buenos Aires", "Salta", decimal.NewFromInt(50))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(4), got.ID)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("5000.50")))
	}

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, []time.Duration{time.Minute}, kv.ttls)
}

func TestTariffCache_CachesMisses(t *testing.T) {
	store := &countingStore{}
	c := NewTariffCache(store, newMemKV(), 0, zerolog.Nop())

	for i := 0; i < 2; i++ {
		got, err := c.FindAnyBracket(context.Background(), decimal.NewFromInt(900))
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	assert.Equal(t, 1, store.calls)
}

func TestTariffCache_RouteKeyIgnoresCase(t *testing.T) {
	store := &countingStore{tariff: sampleTariff()}
	c := NewTariffCache(store, newMemKV(), time.Minute, zerolog.Nop())

	_, err := c.FindBracket(context.Background(), "Buenos Aires", "Salta", decimal.NewFromInt(50))
	require.NoError(t, err)
	_, err = c.FindBracket(context.Background(), "BUENOS AIRES", "salta", decimal.NewFromInt(50))
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
}

func TestTariffCache_Invalidate(t *testing.T) {
	store := &countingStore{tariff: sampleTariff()}
	c := NewTariffCache(store, newMemKV(), time.Minute, zerolog.Nop())

	_, _ = c.FindAnyBracket(context.Background(), decimal.NewFromInt(50))
	c.Invalidate()
	_, _ = c.FindAnyBracket(context.Background(), decimal.NewFromInt(50))

	assert.Equal(t, 2, store.calls)
}

func TestTariffCache_RedisDownFallsBackToStore(t *testing.T) {
	store := &countingStore{tariff: sampleTariff()}
	kv := newMemKV()
	kv.getErr = errors.New("dial tcp: connection refused")
	kv.setErr = kv.getErr
	c := NewTariffCache(store, kv, time.Minute, zerolog.Nop())

	got, err := c.FindBracket(context.Background(), "Buenos Aires", "Salta", decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, store.calls)
}

func TestTariffCache_StoreErrorIsNotCached(t *testing.T) {
	boom := errors.New("db down")
	store := &countingStore{err: boom}
	kv := newMemKV()
	c := NewTariffCache(store, kv, time.Minute, zerolog.Nop())

	_, err := c.FindAnyBracket(context.Background(), decimal.NewFromInt(50))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, kv.data)
}

func TestTariffCache_CorruptEntryIsReloaded(t *testing.T) {
	store := &countingStore{tariff: sampleTariff()}
	kv := newMemKV()
	c := NewTariffCache(store, kv, time.Minute, zerolog.Nop())
	kv.data[c.key("any", "50")] = "{not json"

	got, err := c.FindAnyBracket(context.Background(), decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, store.calls)
}
