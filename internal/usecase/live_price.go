package usecase

import (
	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
	icache "github.com/NeuralG/coin-trading-ai/internal/service/cache"
)

// LivePriceReader exposes the last observed spot price to the HTTP
// layer. Absence is a normal state, not an error: until the first
// refresh succeeds there simply is no price.
type LivePriceReader struct {
	cache *icache.LivePriceCache
}

func NewLivePriceReader(cache *icache.LivePriceCache) *LivePriceReader {
	return &LivePriceReader{cache: cache}
}

// Current returns the last observed price, or false when none exists.
func (r *LivePriceReader) Current() (*models.LivePrice, bool) {
	return r.cache.Current()
}
