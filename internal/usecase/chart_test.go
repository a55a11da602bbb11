package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
	icache "github.com/NeuralG/coin-trading-ai/internal/service/cache"
)

func chartSnapshot(now time.Time) *models.Snapshot {
	bars := make([]models.Bar, 0, 10)
	for i := 0; i < 10; i++ {
		bars = append(bars, hourBar("BTC-USD", now.Add(time.Duration(i-10)*time.Hour), 100+float64(i)))
	}
	return &models.Snapshot{BuiltAt: now, Bars: bars}
}

func TestChartNotReady(t *testing.T) {
	c := NewChartReader(&fakePublisher{}, "BTC-USD")
	if _, _, err := c.RecentBars("", 5); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestChartDefaultsSymbol(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewChartReader(&fakePublisher{snap: chartSnapshot(now)}, "BTC-USD")

	bars, snap, err := c.RecentBars("", 5)
	if err != nil {
		t.Fatalf("chart read failed: %v", err)
	}
	if len(bars) != 5 {
		t.Fatalf("bars = %d, want 5", len(bars))
	}
	if !snap.BuiltAt.Equal(now) {
		t.Fatalf("unexpected snapshot")
	}
	// Most recent bars, ascending.
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Fatalf("bars not ascending")
		}
	}
	if !bars[len(bars)-1].Date.Equal(now.Add(-time.Hour)) {
		t.Fatalf("window must end at the newest bar, got %v", bars[len(bars)-1].Date)
	}
}

func TestChartUnknownSymbolNotReady(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewChartReader(&fakePublisher{snap: chartSnapshot(now)}, "BTC-USD")
	if _, _, err := c.RecentBars("DOGE-USD", 5); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady for a symbol with no bars, got %v", err)
	}
}

func TestChartLimitLargerThanHistory(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewChartReader(&fakePublisher{snap: chartSnapshot(now)}, "BTC-USD")
	bars, _, err := c.RecentBars("BTC-USD", 500)
	if err != nil {
		t.Fatalf("chart read failed: %v", err)
	}
	if len(bars) != 10 {
		t.Fatalf("bars = %d, want all 10", len(bars))
	}
}

func TestLivePriceReaderEmpty(t *testing.T) {
	r := NewLivePriceReader(icache.NewLivePriceCache())
	if _, ok := r.Current(); ok {
		t.Fatalf("expected no price before the first observation")
	}
}

func TestLivePriceReaderLatest(t *testing.T) {
	c := icache.NewLivePriceCache()
	r := NewLivePriceReader(c)
	c.Set("BTC-USD", 50000, time.Now())
	c.Set("BTC-USD", 50100, time.Now())

	p, ok := r.Current()
	if !ok {
		t.Fatalf("expected a price")
	}
	if p.Price != 50100 {
		t.Fatalf("price = %v, want the latest observation", p.Price)
	}
}
