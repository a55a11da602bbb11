//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/NeuralG/coin-trading-ai/pkg/config"
	"github.com/NeuralG/coin-trading-ai/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideBarStore,
		ProvideMarketData,
		ProvideModel,
		ProvidePublisher,
		ProvideLivePriceCache,
		ProvideTradeStream,

		// Use cases
		ProvideSynchronizer,
		ProvideRefresher,
		ProvidePredictor,
		ProvideChartReader,
		ProvideLivePriceReader,
		ProvidePricePoller,

		// Scheduling and transport
		ProvideScheduler,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
