package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-service/internal/domain"
)

func TestRedisProductCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	require.NoError(t, client.Del(ctx, catalogKey).Err())

	c := NewRedisProductCache(client, time.Minute, nil)
	_, ok := c.Get(ctx, 3)
	assert.False(t, ok)

	c.Set(ctx, domain.Product{ID: 3, Name: "Sony WH-1000XM5", Price: decimal.RequireFromString("349.00")})
	p, ok := c.Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, "Sony WH-1000XM5", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(349)))

	ttl, err := client.TTL(ctx, catalogKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisProductCache_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisProductCache(client, time.Minute, nil)
	c.Set(context.Background(), domain.Product{ID: 1})
	_, ok := c.Get(context.Background(), 1)
	assert.False(t, ok)
}
