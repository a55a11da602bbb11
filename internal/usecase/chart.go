package usecase

import (
	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
)

// ChartReader serves recent bars for charting from the published
// snapshot. Pure in-memory lookup, no store access on the read path.
type ChartReader struct {
	pub           snapshotSource
	defaultSymbol string
}

func NewChartReader(pub snapshotSource, defaultSymbol string) *ChartReader {
	return &ChartReader{pub: pub, defaultSymbol: defaultSymbol}
}

// RecentBars returns up to limit most recent bars for the symbol in
// ascending time order, plus the snapshot build time for staleness
// observability.
func (c *ChartReader) RecentBars(symbol string, limit int) ([]models.Bar, *models.Snapshot, error) {
	if symbol == "" {
		symbol = c.defaultSymbol
	}
	snap, ok := c.pub.Current()
	if !ok {
		return nil, nil, ErrNotReady
	}
	bars := snap.RecentBars(symbol, limit)
	if len(bars) == 0 {
		return nil, nil, ErrNotReady
	}
	return bars, snap, nil
}

// Snapshot exposes the current snapshot for health reporting.
func (c *ChartReader) Snapshot() (*models.Snapshot, bool) {
	return c.pub.Current()
}
