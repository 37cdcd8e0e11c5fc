package cache

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryCache is an in-memory TTL cache for settle prices keyed by feed
// ticker. Settle prices change once per session, so short-lived reuse across
// uploads in the same window saves gateway round trips.
type MemoryCache struct {
	prices  map[string]priceEntry
	priceMu sync.RWMutex
	ttl     time.Duration
}

type priceEntry struct {
	value     decimal.Decimal
	fetchedAt time.Time
}

// NewMemoryCache creates a new in-memory cache with the given entry TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		prices: make(map[string]priceEntry),
		ttl:    ttl,
	}
}

// GetPrice retrieves a cached settle price if still fresh.
func (c *MemoryCache) GetPrice(ticker string) (decimal.Decimal, bool) {
	c.priceMu.RLock()
	defer c.priceMu.RUnlock()

	entry, exists := c.prices[ticker]
	if !exists {
		return decimal.Decimal{}, false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		return decimal.Decimal{}, false
	}
	return entry.value, true
}

// SetPrice caches a settle price.
func (c *MemoryCache) SetPrice(ticker string, value decimal.Decimal) {
	c.priceMu.Lock()
	defer c.priceMu.Unlock()

	c.prices[ticker] = priceEntry{
		value:     value,
		fetchedAt: time.Now(),
	}
}

// Clear removes all cached data.
func (c *MemoryCache) Clear() {
	c.priceMu.Lock()
	c.prices = make(map[string]priceEntry)
	c.priceMu.Unlock()
}
