package pricing

import (
	"context"
	"sync"

	"github.com/gplima89/filetier/pkg/models"
)

// Provider obtains a rate table for a region and redundancy scheme.
type Provider interface {
	FetchTierPricing(ctx context.Context, region string, redundancy models.Redundancy) *PriceSet
}

// Cache memoizes price sets per (region, redundancy) for the duration of an
// analysis run. Each key is populated at most once; shares in the same
// storage account reuse the fetched table.
type Cache struct {
	mu       sync.Mutex
	provider Provider
	sets     map[string]*PriceSet
}

// NewCache creates a Cache backed by the given provider.
func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		sets:     make(map[string]*PriceSet),
	}
}

// Get returns the price set for the key, fetching it on first use.
func (c *Cache) Get(ctx context.Context, region string, redundancy models.Redundancy) *PriceSet {
	key := region + "|" + string(redundancy)

	c.mu.Lock()
	defer c.mu.Unlock()

	if ps, ok := c.sets[key]; ok {
		return ps
	}
	ps := c.provider.FetchTierPricing(ctx, region, redundancy)
	c.sets[key] = ps
	return ps
}
