package service

import (
	"walletVolumeApp/internal/domain/model"
)

// PriceCache is a day-keyed cache of USD unit prices. Entries are added
// lazily and never evicted; the cache lives for the process (or a test)
// and is handed to the resolver by reference.
//
// It is not safe for concurrent use. The pipeline runs one aggregation at
// a time and touches the cache sequentially.
type PriceCache struct {
	prices map[model.PriceKey]float64
}

func NewPriceCache() *PriceCache {
	return &PriceCache{prices: make(map[model.PriceKey]float64)}
}

// Get returns the cached unit price for (token, day).
func (c *PriceCache) Get(token string, day int64) (float64, bool) {
	p, ok := c.prices[model.PriceKey{Token: token, Day: day}]
	return p, ok
}

// Put stores the unit price for (token, day). A zero price is a valid
// entry meaning "known to be unresolved for this day".
func (c *PriceCache) Put(token string, day int64, price float64) {
	c.prices[model.PriceKey{Token: token, Day: day}] = price
}

// Len returns the number of cached price points.
func (c *PriceCache) Len() int {
	return len(c.prices)
}
