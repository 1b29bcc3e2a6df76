package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront-service/internal/domain"
)

const catalogKey = "storefront:catalog"

// RedisProductCache keeps the catalog in one Redis hash keyed by product id,
// so that several instances share a warm cache. Redis errors count as misses.
type RedisProductCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisProductCache(client redis.UniversalClient, ttl time.Duration, log *slog.Logger) *RedisProductCache {
	if log == nil {
		log = slog.Default()
	}
	return &RedisProductCache{client: client, ttl: ttl, log: log}
}

func (c *RedisProductCache) Get(ctx context.Context, id int64) (domain.Product, bool) {
	raw, err := c.client.HGet(ctx, catalogKey, strconv.FormatInt(id, 10)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Product{}, false
	}
	if err != nil {
		c.log.Warn("catalog cache read failed", "product_id", id, "error", err)
		return domain.Product{}, false
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Warn("catalog cache entry corrupted", "product_id", id, "error", err)
		return domain.Product{}, false
	}
	return p, true
}

func (c *RedisProductCache) Set(ctx context.Context, p domain.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, catalogKey, strconv.FormatInt(p.ID, 10), raw)
	if c.ttl > 0 {
		pipe.Expire(ctx, catalogKey, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("catalog cache write failed", "product_id", p.ID, "error", err)
	}
}

var _ domain.ProductCache = (*RedisProductCache)(nil)
