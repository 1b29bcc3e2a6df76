package cache

import (
	"context"
	"sync"

	"github.com/example/storefront-service/internal/domain"
)

type MemoryProductCache struct {
	mu    sync.RWMutex
	store map[int64]domain.Product
}

func NewMemoryProductCache() *MemoryProductCache {
	return &MemoryProductCache{store: make(map[int64]domain.Product)}
}

func (c *MemoryProductCache) Get(_ context.Context, id int64) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.store[id]
	return p, ok
}

func (c *MemoryProductCache) Set(_ context.Context, p domain.Product) {
	c.mu.Lock()
	c.store[p.ID] = p
	c.mu.Unlock()
}

var _ domain.ProductCache = (*MemoryProductCache)(nil)
