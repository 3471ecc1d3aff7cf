package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketmind/backend/internal/domain"
)

type fakeEstimator struct {
	trees int
}

func entries(c *MemoryCache) int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	t.Cleanup(cache.Close)
	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{name: "string value", key: "k1", value: "v1"},
		{name: "pointer value", key: "estimator:abc", value: &fakeEstimator{trees: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, cache.Set(ctx, tt.key, tt.value, time.Minute))

			got, err := cache.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	est := &fakeEstimator{trees: 3}
	require.NoError(t, cache.Set(ctx, "same", est, time.Minute))
	got, err := cache.Get(ctx, "same")
	require.NoError(t, err)
	assert.Same(t, est, got.(*fakeEstimator))
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	t.Cleanup(cache.Close)

	_, err := cache.Get(context.Background(), "non-existent-key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	t.Cleanup(cache.Close)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", "v", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := cache.Get(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemoryCache_SetOverwrites(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	t.Cleanup(cache.Close)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "old", time.Millisecond))
	require.NoError(t, cache.Set(ctx, "k", "new", time.Minute))
	time.Sleep(10 * time.Millisecond)

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, entries(cache))
}

func TestMemoryCache_EvictExpired(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	t.Cleanup(cache.Close)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "old", "v", time.Millisecond))
	require.NoError(t, cache.Set(ctx, "fresh", "v", time.Hour))
	assert.Equal(t, 2, entries(cache))

	cache.evictExpired(time.Now().Add(time.Second))
	assert.Equal(t, 1, entries(cache))

	_, err := cache.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	cache := NewMemoryCache(time.Millisecond)
	cache.Close()
	assert.NotPanics(t, cache.Close)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	t.Cleanup(cache.Close)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "key"
			_ = cache.Set(ctx, key, n, time.Minute)
			_, _ = cache.Get(ctx, key)
			cache.evictExpired(time.Now())
		}(i)
	}
	wg.Wait()

	_, err := cache.Get(ctx, "key")
	assert.NoError(t, err)
}
