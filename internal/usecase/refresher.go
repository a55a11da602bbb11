package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
	"github.com/NeuralG/coin-trading-ai/internal/domain/repository"
	"github.com/NeuralG/coin-trading-ai/internal/service/snapshot"
	"github.com/NeuralG/coin-trading-ai/internal/services/features"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

// Refresher runs one full refresh cycle: synchronize bars, derive the
// feature matrix and publish the result. The next snapshot is built
// entirely off to the side; if any step fails the previous snapshot
// stays current. Staleness is preferred over corruption.
type Refresher struct {
	sync    *Synchronizer
	store   repository.BarStore
	pub     *snapshot.Publisher
	metrics repository.Metrics
	l       *applogger.Logger
	now     func() time.Time
}

func NewRefresher(sync *Synchronizer, store repository.BarStore, pub *snapshot.Publisher,
	metrics repository.Metrics, l *applogger.Logger) *Refresher {
	return &Refresher{
		sync:    sync,
		store:   store,
		pub:     pub,
		metrics: metrics,
		l:       l,
		now:     time.Now,
	}
}

// Refresh executes the cycle. Errors are returned for logging by the
// scheduler but never propagate to read callers.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()

	res, err := r.sync.Sync(ctx)
	if err != nil {
		return err
	}
	// A skipped sync still rebuilds the snapshot on the first cycle so
	// the service becomes ready even when the store was already
	// current at startup.
	if res.Skipped {
		if _, ok := r.pub.Current(); ok {
			return nil
		}
	}

	bars, err := r.store.Load(ctx)
	if err != nil {
		r.l.Error("snapshot build aborted, store unreadable", applogger.Error(err))
		r.metrics.RecordError("store_read")
		return err
	}
	sort.SliceStable(bars, func(i, j int) bool { return models.Less(bars[i], bars[j]) })

	rows := features.Derive(bars)
	snap := &models.Snapshot{
		BuiltAt: r.now().UTC(),
		Rows:    rows,
		Bars:    bars,
	}
	r.pub.Publish(snap)

	r.metrics.RecordSnapshot(len(rows), snap.BuiltAt)
	r.metrics.RecordLatency("refresh", time.Since(start).Seconds())
	r.l.Info("snapshot published",
		applogger.Int("bars", len(bars)),
		applogger.Int("feature_rows", len(rows)),
		applogger.Time("built_at", snap.BuiltAt),
	)
	return nil
}
