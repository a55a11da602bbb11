package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
	"github.com/NeuralG/coin-trading-ai/internal/domain/repository"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

// Synchronizer keeps the bar store in sync with the market data
// provider: it computes the fetch window per symbol, pulls the missing
// bars and merges them in without duplicates or reordering.
type Synchronizer struct {
	store      repository.BarStore
	md         repository.MarketData
	symbols    []string
	interval   time.Duration // store resolution
	maxHistory time.Duration // provider's retrievable horizon
	metrics    repository.Metrics
	l          *applogger.Logger
	now        func() time.Time
}

// SyncResult describes one synchronization cycle.
type SyncResult struct {
	Skipped   bool // already current, provider not contacted
	Fetched   int  // bars returned by the provider
	Merged    int  // rows in the store after the merge
	Start     time.Time
	End       time.Time
	Refetched bool // history was unreadable and refetched from the horizon floor
}

func NewSynchronizer(store repository.BarStore, md repository.MarketData, symbols []string,
	interval, maxHistory time.Duration, metrics repository.Metrics, l *applogger.Logger) *Synchronizer {
	return &Synchronizer{
		store:      store,
		md:         md,
		symbols:    symbols,
		interval:   interval,
		maxHistory: maxHistory,
		metrics:    metrics,
		l:          l,
		now:        time.Now,
	}
}

// Sync runs one cycle. Provider failures abort the cycle and leave the
// store untouched; an unreadable store is treated as absent history and
// refetched within the horizon. Re-running with an overlapping window
// is a no-op beyond the keep-last rule.
func (s *Synchronizer) Sync(ctx context.Context) (*SyncResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordLatency("sync", time.Since(start).Seconds())
	}()

	existing, err := s.store.Load(ctx)
	refetched := false
	if err != nil {
		// Data loss within the bounded horizon is recoverable; silent
		// corruption is not, so the failure is logged loudly.
		s.l.Error("bar store unreadable, refetching from horizon floor", applogger.Error(err))
		s.metrics.RecordError("store_read")
		existing = nil
		refetched = true
	}

	now := s.now().UTC().Truncate(s.interval)
	floor := now.Add(-s.maxHistory)
	lastBySymbol := make(map[string]time.Time, len(s.symbols))
	for _, b := range existing {
		if cur, ok := lastBySymbol[b.Symbol]; !ok || b.Date.After(cur) {
			lastBySymbol[b.Symbol] = b.Date
		}
	}

	res := &SyncResult{End: now, Refetched: refetched}
	fetched := make([]models.Bar, 0, 256)
	contacted := false
	for _, sym := range s.symbols {
		symStart := floor
		if last, ok := lastBySymbol[sym]; ok {
			if candidate := last.Add(s.interval); candidate.After(symStart) {
				symStart = candidate
			}
		}
		if res.Start.IsZero() || symStart.Before(res.Start) {
			res.Start = symStart
		}
		// Throttle: within one resolution unit of now there is nothing
		// new to ask the provider for.
		if !symStart.Before(now) {
			continue
		}
		contacted = true
		bars, err := s.md.FetchBars(ctx, sym, symStart, now)
		if err != nil {
			s.l.Error("bar fetch failed",
				applogger.String("symbol", sym),
				applogger.Error(err),
			)
			s.metrics.RecordError("fetch")
			s.metrics.RecordSyncCycle("error")
			return nil, err
		}
		fetched = append(fetched, bars...)
	}

	if !contacted {
		s.l.Debug("bar store already current")
		s.metrics.RecordSyncCycle("skipped")
		res.Skipped = true
		res.Merged = len(existing)
		return res, nil
	}

	merged := Merge(existing, fetched)
	if err := s.store.Replace(ctx, merged); err != nil {
		s.l.Error("bar store write failed", applogger.Error(err))
		s.metrics.RecordError("store_write")
		s.metrics.RecordSyncCycle("error")
		return nil, err
	}

	res.Fetched = len(fetched)
	res.Merged = len(merged)
	s.metrics.RecordBarsMerged(len(fetched))
	s.metrics.RecordSyncCycle("ok")
	s.l.Info("bars synchronized",
		applogger.Int("fetched", len(fetched)),
		applogger.Int("stored", len(merged)),
		applogger.Time("window_start", res.Start),
		applogger.Time("window_end", res.End),
	)
	return res, nil
}

// Merge reconciles freshly fetched bars with the existing store
// content: rows without a close price are dropped, the union is sorted
// by (symbol, date), and on duplicate keys the most recently fetched
// value wins (provider revisions override stale stored values).
func Merge(existing, fetched []models.Bar) []models.Bar {
	combined := make([]models.Bar, 0, len(existing)+len(fetched))
	for _, b := range existing {
		if barComplete(b) {
			combined = append(combined, b)
		}
	}
	for _, b := range fetched {
		if barComplete(b) {
			combined = append(combined, b)
		}
	}

	// Stable sort keeps fetch order among equal keys, so the last
	// element of each run is the most recently fetched revision.
	sort.SliceStable(combined, func(i, j int) bool { return models.Less(combined[i], combined[j]) })

	out := combined[:0]
	for i := 0; i < len(combined); i++ {
		if i+1 < len(combined) && combined[i+1].Key() == combined[i].Key() {
			continue
		}
		out = append(out, combined[i])
	}
	return out
}

func barComplete(b models.Bar) bool {
	return b.Close != 0 && !math.IsNaN(b.Close)
}
