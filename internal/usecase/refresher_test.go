package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
	"github.com/NeuralG/coin-trading-ai/internal/service/snapshot"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

func newTestRefresher(store *fakeStore, md *fakeMarketData, now time.Time) (*Refresher, *snapshot.Publisher) {
	m := newNopMetrics()
	sync := NewSynchronizer(store, md, []string{"BTC-USD"}, time.Hour, 729*24*time.Hour, m, applogger.Nop())
	sync.now = func() time.Time { return now }
	pub := snapshot.NewPublisher()
	r := NewRefresher(sync, store, pub, m, applogger.Nop())
	r.now = func() time.Time { return now }
	return r, pub
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	md := &fakeMarketData{bars: map[string][]models.Bar{
		"BTC-USD": {hourBar("BTC-USD", now.Add(-2*time.Hour), 100)},
	}}
	r, pub := newTestRefresher(store, md, now)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	snap, ok := pub.Current()
	if !ok {
		t.Fatalf("snapshot not published")
	}
	if len(snap.Bars) != 1 {
		t.Fatalf("snapshot bars = %d, want 1", len(snap.Bars))
	}
	// Far below the warm-up horizon: the bar backs charts but yields no
	// feature rows.
	if len(snap.Rows) != 0 {
		t.Fatalf("snapshot rows = %d, want 0", len(snap.Rows))
	}
	if !snap.BuiltAt.Equal(now) {
		t.Fatalf("built at %v, want %v", snap.BuiltAt, now)
	}
}

func TestRefreshSkipStillPublishesFirstSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	// Store already current: sync skips, but the first cycle must still
	// build a snapshot so the service becomes ready.
	store := &fakeStore{bars: []models.Bar{hourBar("BTC-USD", now.Add(-time.Hour), 100)}}
	md := &fakeMarketData{}
	r, pub := newTestRefresher(store, md, now)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, ok := pub.Current(); !ok {
		t.Fatalf("first refresh with a current store must still publish")
	}
}

func TestRefreshSkipKeepsExistingSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{bars: []models.Bar{hourBar("BTC-USD", now.Add(-time.Hour), 100)}}
	md := &fakeMarketData{}
	r, pub := newTestRefresher(store, md, now)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	first, _ := pub.Current()

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	second, _ := pub.Current()
	if first != second {
		t.Fatalf("a skipped cycle must not rebuild the snapshot")
	}
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{}
	md := &fakeMarketData{bars: map[string][]models.Bar{
		"BTC-USD": {hourBar("BTC-USD", now.Add(-2*time.Hour), 100)},
	}}
	r, pub := newTestRefresher(store, md, now)
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	prev, _ := pub.Current()

	md.fetchErr = errors.New("provider down")
	if err := r.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	cur, ok := pub.Current()
	if !ok || cur != prev {
		t.Fatalf("failed cycle must keep the previous snapshot current")
	}
}
