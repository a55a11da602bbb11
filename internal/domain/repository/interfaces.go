package repository

import (
	"context"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
)

// BarStore is the durable, ordered table of OHLCV bars keyed by
// (symbol, timestamp). Replace is all-or-nothing: a failed write must
// leave the previous content intact.
type BarStore interface {
	// Load reads the full store. A missing store yields an empty slice
	// and no error; a corrupt store yields an error.
	Load(ctx context.Context) ([]models.Bar, error)

	// Replace atomically swaps the entire store content. Bars must
	// already be sorted by (Symbol, Date).
	Replace(ctx context.Context, bars []models.Bar) error
}

// MarketData is the external bar and spot price source.
type MarketData interface {
	// FetchBars returns bars for one symbol within [start, end). The
	// provider may omit or duplicate bars across overlapping windows;
	// the synchronizer's merge absorbs both.
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error)

	// FetchSpotPrice returns the latest known trade price for a symbol.
	FetchSpotPrice(ctx context.Context, symbol string) (float64, error)
}

// Model is a loaded, immutable classifier bundle.
type Model interface {
	// FeatureNames is the ordered list of columns the classifier was
	// trained with.
	FeatureNames() []string

	// Threshold is the decision threshold in [0, 1].
	Threshold() float64

	// PredictProba returns class probabilities [short, neutral, long]
	// for one feature vector ordered as FeatureNames.
	PredictProba(x []float64) ([]float64, error)
}

// Metrics abstracts the metrics backend.
type Metrics interface {
	RecordSyncCycle(result string)
	RecordBarsMerged(n int)
	RecordSnapshot(rows int, builtAt time.Time)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordError(kind string)
}
