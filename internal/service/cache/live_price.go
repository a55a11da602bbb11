// Package cache holds the in-process caches served on the read path.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
)

// LivePriceCache is the last-known spot price, refreshed on its own
// cadence independently of the bar pipeline. The value is published by
// pointer swap; before the first successful refresh it is unavailable.
type LivePriceCache struct {
	cur atomic.Pointer[models.LivePrice]
}

func NewLivePriceCache() *LivePriceCache {
	return &LivePriceCache{}
}

// Set overwrites the cached value.
func (c *LivePriceCache) Set(symbol string, price float64, at time.Time) {
	c.cur.Store(&models.LivePrice{Symbol: symbol, Price: price, At: at})
}

// Current returns the last cached value, or false while none has been
// stored yet.
func (c *LivePriceCache) Current() (*models.LivePrice, bool) {
	v := c.cur.Load()
	return v, v != nil
}
