package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralG/coin-trading-ai/internal/scheduler"
	"github.com/NeuralG/coin-trading-ai/internal/service/stream"
	"github.com/NeuralG/coin-trading-ai/internal/usecase"
	"github.com/NeuralG/coin-trading-ai/pkg/config"
	xhttp "github.com/NeuralG/coin-trading-ai/pkg/http"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

// App encapsulates the entire application lifecycle: the scheduled
// sync/refresh and price jobs, the optional trade stream, and the HTTP
// server serving from published state.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	refresher  *usecase.Refresher
	poller     *usecase.PricePoller
	sched      *scheduler.Scheduler
	trades     *stream.TradeStream // nil unless a stream URL is configured
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	refresher *usecase.Refresher,
	poller *usecase.PricePoller,
	sched *scheduler.Scheduler,
	trades *stream.TradeStream,
	handler xhttp.Handler,
) *App {
	httpServer := xhttp.NewServer(handler, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
	return &App{
		cfg:        cfg,
		l:          l,
		refresher:  refresher,
		poller:     poller,
		sched:      sched,
		trades:     trades,
		httpServer: httpServer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The cron job and the startup kick share one guard, so a long
	// initial backfill cannot overlap the first scheduled cycle.
	refreshJob := a.sched.Guard("refresh", func() {
		if err := a.refresher.Refresh(ctx); err != nil {
			a.l.Error("refresh cycle failed", applogger.Error(err))
		}
	})
	if err := a.sched.AddJob(a.cfg.Schedule.SyncSpec, "refresh", func() { refreshJob() }); err != nil {
		return err
	}
	if err := a.sched.AddJob(a.cfg.Schedule.LivePriceSpec, "live_price", func() {
		_ = a.poller.Poll(ctx)
	}); err != nil {
		return err
	}
	a.sched.Start()

	if a.cfg.Schedule.RunOnStart {
		// Readiness comes from the first completed refresh; reads return
		// not-ready until then instead of blocking startup.
		go refreshJob()
		go func() { _ = a.poller.Poll(ctx) }()
	}

	if a.trades != nil {
		go a.trades.Run(ctx)
		a.l.Info("trade stream started")
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("application started",
		applogger.Strings("symbols", a.cfg.MarketData.Symbols),
		applogger.Int("port", a.cfg.Server.Port),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.sched.Stop()

	if a.trades != nil {
		if err := a.trades.Close(); err != nil {
			a.l.Warn("trade stream close error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.l.Info("shutdown complete")
	return nil
}
