package usecase

import (
	"context"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/repository"
	icache "github.com/NeuralG/coin-trading-ai/internal/service/cache"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

// PricePoller refreshes the live price cache on its own cadence,
// decoupled from the bar pipeline. A failed poll keeps the previous
// value; before the first success the cache stays empty.
type PricePoller struct {
	md      repository.MarketData
	cache   *icache.LivePriceCache
	symbol  string
	metrics repository.Metrics
	l       *applogger.Logger
}

func NewPricePoller(md repository.MarketData, cache *icache.LivePriceCache, symbol string,
	metrics repository.Metrics, l *applogger.Logger) *PricePoller {
	return &PricePoller{
		md:      md,
		cache:   cache,
		symbol:  symbol,
		metrics: metrics,
		l:       l,
	}
}

// Poll fetches the current spot price and caches it.
func (p *PricePoller) Poll(ctx context.Context) error {
	price, err := p.md.FetchSpotPrice(ctx, p.symbol)
	if err != nil {
		p.l.Warn("spot price fetch failed",
			applogger.String("symbol", p.symbol),
			applogger.Error(err),
		)
		p.metrics.RecordError("price_fetch")
		return err
	}

	p.cache.Set(p.symbol, price, time.Now().UTC())
	p.metrics.RecordLastPrice(p.symbol, price)
	p.l.Debug("live price updated",
		applogger.String("symbol", p.symbol),
		applogger.Float64("price", price),
	)
	return nil
}
