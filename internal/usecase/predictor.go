package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
	"github.com/NeuralG/coin-trading-ai/internal/domain/repository"
)

// ErrNotReady signals that no snapshot has been published yet (or the
// requested symbol has no valid feature rows). Read handlers map it to
// a distinct not-ready response instead of a fault.
var ErrNotReady = errors.New("feature snapshot not ready")

// Predictor is the stateless read path: latest feature row of the
// current snapshot plus one classifier invocation. It performs no I/O
// and never blocks on a refresh in progress.
type Predictor struct {
	pub     snapshotSource
	model   repository.Model
	symbol  string
	metrics repository.Metrics
}

type snapshotSource interface {
	Current() (*models.Snapshot, bool)
}

func NewPredictor(pub snapshotSource, model repository.Model, symbol string, metrics repository.Metrics) *Predictor {
	return &Predictor{pub: pub, model: model, symbol: symbol, metrics: metrics}
}

// Predict computes action probabilities for the tracked symbol from the
// freshest feature row.
func (p *Predictor) Predict() (*models.Prediction, error) {
	start := time.Now()
	defer func() {
		p.metrics.RecordLatency("predict", time.Since(start).Seconds())
	}()

	snap, ok := p.pub.Current()
	if !ok {
		return nil, ErrNotReady
	}
	row, ok := snap.LatestRow(p.symbol)
	if !ok {
		return nil, ErrNotReady
	}

	names := p.model.FeatureNames()
	x := make([]float64, len(names))
	for i, name := range names {
		v, ok := featureValue(row, name)
		if !ok {
			return nil, fmt.Errorf("feature %q required by model is not produced", name)
		}
		x[i] = v
	}

	probs, err := p.model.PredictProba(x)
	if err != nil {
		return nil, fmt.Errorf("predict proba: %w", err)
	}
	shortProb, longProb := probs[0], probs[2]
	threshold := p.model.Threshold()

	return &models.Prediction{
		Symbol:    p.symbol,
		ShortProb: shortProb,
		LongProb:  longProb,
		Threshold: threshold,
		Action:    models.Resolve(shortProb, longProb, threshold),
		AsOf:      row.Date,
	}, nil
}

// featureValue resolves a model feature name against a row: raw OHLCV
// columns first, then the derived schema.
func featureValue(row models.FeatureRow, name string) (float64, bool) {
	switch name {
	case "Open":
		return row.Open, true
	case "High":
		return row.High, true
	case "Low":
		return row.Low, true
	case "Close":
		return row.Close, true
	case "Volume":
		return row.Volume, true
	}
	v, ok := row.Values[name]
	return v, ok
}
