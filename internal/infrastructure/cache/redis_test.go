package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softwarescout/backend/config"
	"github.com/softwarescout/backend/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(RedisConfig{Address: mr.Addr(), KeyPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "industry-page:crm-for-landscaping", []byte(`{"page":{}}`), time.Hour))

	got, err := c.Get(ctx, "industry-page:crm-for-landscaping")
	require.NoError(t, err)
	assert.Equal(t, `{"page":{}}`, string(got))

	// keys are namespaced
	assert.True(t, mr.Exists("test:industry-page:crm-for-landscaping"))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestRedisCache(t)

	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	mr.FastForward(2 * time.Minute)

	exists, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := newTestRedisCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k")
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable))
	assert.False(t, errors.Is(err, domain.ErrCacheMiss))
}

func TestNewRedisCache_Errors(t *testing.T) {
	_, err := NewRedisCache(RedisConfig{})
	assert.Error(t, err)

	_, err = NewRedisCache(RedisConfig{Address: "127.0.0.1:1"})
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestNew(t *testing.T) {
	mem, err := New(config.CacheConfig{Type: "memory"})
	require.NoError(t, err)
	_, isMemory := mem.(*MemoryCache)
	assert.True(t, isMemory)
	_ = mem.Close()

	mr := miniredis.RunT(t)
	red, err := New(config.CacheConfig{Type: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	_, isRedis := red.(*RedisCache)
	assert.True(t, isRedis)
	_ = red.Close()

	_, err = New(config.CacheConfig{Type: "memcached"})
	assert.Error(t, err)
}
