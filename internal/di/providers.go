package di

import (
	"fmt"

	"github.com/NeuralG/coin-trading-ai/internal/domain/repository"
	"github.com/NeuralG/coin-trading-ai/internal/handler/api"
	internalrepo "github.com/NeuralG/coin-trading-ai/internal/repository"
	"github.com/NeuralG/coin-trading-ai/internal/scheduler"
	icache "github.com/NeuralG/coin-trading-ai/internal/service/cache"
	"github.com/NeuralG/coin-trading-ai/internal/service/marketdata"
	"github.com/NeuralG/coin-trading-ai/internal/service/model"
	"github.com/NeuralG/coin-trading-ai/internal/service/snapshot"
	"github.com/NeuralG/coin-trading-ai/internal/service/stream"
	"github.com/NeuralG/coin-trading-ai/internal/usecase"
	"github.com/NeuralG/coin-trading-ai/pkg/config"
	xhttp "github.com/NeuralG/coin-trading-ai/pkg/http"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
	"github.com/NeuralG/coin-trading-ai/pkg/metrics"
	"github.com/NeuralG/coin-trading-ai/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore creates the parquet-backed bar store.
func ProvideBarStore(cfg *config.Config, l *applogger.Logger) repository.BarStore {
	return internalrepo.NewParquetBarStore(cfg.Store.Path, l)
}

// ProvideMarketData creates the chart API client.
func ProvideMarketData(cfg *config.Config) repository.MarketData {
	return marketdata.NewYahooClient(cfg.MarketData.BaseURL, cfg.MarketData.Interval, cfg.MarketData.RequestTimeout)
}

// ProvideModel loads the classifier bundle. A broken artifact aborts
// startup here rather than failing on the first prediction.
func ProvideModel(cfg *config.Config) (repository.Model, error) {
	b, err := model.Load(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("model bundle: %w", err)
	}
	return b, nil
}

// ProvidePublisher creates the snapshot publisher.
func ProvidePublisher() *snapshot.Publisher {
	return snapshot.NewPublisher()
}

// ProvideLivePriceCache creates the live price cache.
func ProvideLivePriceCache() *icache.LivePriceCache {
	return icache.NewLivePriceCache()
}

// ProvideSynchronizer creates the bar synchronizer.
func ProvideSynchronizer(cfg *config.Config, store repository.BarStore, md repository.MarketData,
	m repository.Metrics, l *applogger.Logger) (*usecase.Synchronizer, error) {
	interval, err := cfg.IntervalDuration()
	if err != nil {
		return nil, err
	}
	return usecase.NewSynchronizer(store, md, cfg.MarketData.Symbols, interval, cfg.HistoryWindow(), m, l), nil
}

// ProvideRefresher creates the refresh cycle use case.
func ProvideRefresher(sync *usecase.Synchronizer, store repository.BarStore, pub *snapshot.Publisher,
	m repository.Metrics, l *applogger.Logger) *usecase.Refresher {
	return usecase.NewRefresher(sync, store, pub, m, l)
}

// ProvidePredictor creates the prediction use case for the primary symbol.
func ProvidePredictor(cfg *config.Config, pub *snapshot.Publisher, mdl repository.Model,
	m repository.Metrics) *usecase.Predictor {
	return usecase.NewPredictor(pub, mdl, cfg.PrimarySymbol(), m)
}

// ProvideChartReader creates the chart read use case.
func ProvideChartReader(cfg *config.Config, pub *snapshot.Publisher) *usecase.ChartReader {
	return usecase.NewChartReader(pub, cfg.PrimarySymbol())
}

// ProvideLivePriceReader creates the live price read use case.
func ProvideLivePriceReader(cache *icache.LivePriceCache) *usecase.LivePriceReader {
	return usecase.NewLivePriceReader(cache)
}

// ProvidePricePoller creates the scheduled spot price poller.
func ProvidePricePoller(cfg *config.Config, md repository.MarketData, cache *icache.LivePriceCache,
	m repository.Metrics, l *applogger.Logger) *usecase.PricePoller {
	return usecase.NewPricePoller(md, cache, cfg.PrimarySymbol(), m, l)
}

// ProvideScheduler creates the cron scheduler.
func ProvideScheduler(l *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(l)
}

// ProvideTradeStream creates the optional websocket trade stream. It is
// nil when no stream URL is configured; the scheduled poller then is the
// only live price source.
func ProvideTradeStream(cfg *config.Config, cache *icache.LivePriceCache,
	m repository.Metrics, l *applogger.Logger) *stream.TradeStream {
	if cfg.MarketData.Stream.URL == "" {
		return nil
	}
	return stream.NewTradeStream(
		cfg.MarketData.Stream.URL,
		cfg.MarketData.Stream.APIKey,
		cfg.MarketData.Symbols,
		cfg.MarketData.Stream.ReconnectDelay,
		cfg.MarketData.Stream.PingInterval,
		cache, m, l,
	)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(cfg *config.Config, l *applogger.Logger, predictor *usecase.Predictor,
	chart *usecase.ChartReader, prices *usecase.LivePriceReader) xhttp.Handler {
	return api.NewTradingHandler(l, predictor, chart, prices, cfg.Chart.CacheTTL)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	refresher *usecase.Refresher,
	poller *usecase.PricePoller,
	sched *scheduler.Scheduler,
	trades *stream.TradeStream,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, l, refresher, poller, sched, trades, handler)
}
