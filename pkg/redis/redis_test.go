package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SKuytov/SVP/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestNewFromRedis_Nil(t *testing.T) {
	client := NewFromRedis(nil)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestOptions(t *testing.T) {
	opts := Options(&config.Config{Redis: config.RedisConfig{
		Host:     "cache.internal",
		Port:     "6380",
		Password: "secret",
		DB:       2,
	}})

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, connectTimeout, opts.DialTimeout)
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")
	cfg := ClientRateLimit("10.0.0.1", 1, 5)

	d, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, cfg.Limit, d.Remaining)
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	var result map[string]int
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Set(ctx, "key", map[string]int{"a": 1}, time.Minute))
	n, err := cache.DeletePrefix(ctx, "")
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestClientRateLimit(t *testing.T) {
	tests := []struct {
		name  string
		rps   float64
		burst int
		want  int
	}{
		{"rate dominates", 20, 40, 1200},
		{"burst floor", 0.1, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ClientRateLimit("1.2.3.4", tt.rps, tt.burst)
			assert.Equal(t, tt.want, cfg.Limit)
			assert.Equal(t, time.Minute, cfg.Window)
			assert.Equal(t, "api:1.2.3.4", cfg.Key)
		})
	}
}

// liveClient connects to REDIS_ADDR (skipped when unset)
func liveClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" || testing.Short() {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromRedis(rdb)
}

func TestCache_RoundTrip(t *testing.T) {
	client := liveClient(t)
	cache := NewCache(client, "svp-test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "bundle", map[string]int{"total": 3}, time.Minute))

	var got map[string]int
	found, err := cache.Get(ctx, "bundle", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got["total"])

	require.NoError(t, cache.Set(ctx, "bundle:6", 6, time.Minute))
	require.NoError(t, cache.Set(ctx, "other", 1, time.Minute))

	n, err := cache.DeletePrefix(ctx, "bundle")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err = cache.Get(ctx, "bundle", &got)
	require.NoError(t, err)
	assert.False(t, found)

	var other int
	found, err = cache.Get(ctx, "other", &other)
	require.NoError(t, err)
	assert.True(t, found)
	_, _ = cache.DeletePrefix(ctx, "other")
}

func TestRateLimiter_Window(t *testing.T) {
	client := liveClient(t)
	limiter := NewRateLimiter(client, "svp-test")
	ctx := context.Background()
	cfg := RateLimitConfig{Key: "window-" + time.Now().Format("150405.000000"), Limit: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 1-i, d.Remaining)
	}
	d, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)
}
