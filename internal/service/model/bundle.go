// Package model loads and serves the pre-trained classifier bundle.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Class order expected from the artifact.
var wantClasses = []string{"short", "neutral", "long"}

// Bundle is the loaded model artifact: a probability-producing
// classifier, the ordered feature-name list it was trained with and the
// decision threshold. Immutable for the process lifetime.
type Bundle struct {
	featureNames []string
	threshold    float64
	coef         [][]float64 // one weight row per class
	intercept    []float64
	scalerMean   []float64
	scalerStd    []float64
}

type bundleFile struct {
	FeatureNames []string  `json:"feature_names"`
	Threshold    float64   `json:"threshold"`
	Model        modelFile `json:"model"`
}

type modelFile struct {
	Type       string      `json:"type"`
	Classes    []string    `json:"classes"`
	Coef       [][]float64 `json:"coefficients"`
	Intercepts []float64   `json:"intercepts"`
	Scaler     *scalerFile `json:"scaler"`
}

type scalerFile struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Load reads and validates the bundle from disk. Any failure here is
// startup-fatal for the service: it cannot serve predictions without a
// valid artifact.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model bundle: %w", err)
	}
	var bf bundleFile
	if err := json.Unmarshal(data, &bf); err != nil {
		return nil, fmt.Errorf("parse model bundle: %w", err)
	}

	if len(bf.FeatureNames) == 0 {
		return nil, fmt.Errorf("model bundle: feature_names is empty")
	}
	if bf.Threshold < 0 || bf.Threshold > 1 {
		return nil, fmt.Errorf("model bundle: threshold %v outside [0,1]", bf.Threshold)
	}
	if bf.Model.Type != "multinomial_logistic" {
		return nil, fmt.Errorf("model bundle: unsupported model type %q", bf.Model.Type)
	}
	if len(bf.Model.Classes) != len(wantClasses) {
		return nil, fmt.Errorf("model bundle: expected %d classes, got %d", len(wantClasses), len(bf.Model.Classes))
	}
	for i, c := range wantClasses {
		if bf.Model.Classes[i] != c {
			return nil, fmt.Errorf("model bundle: class %d is %q, want %q", i, bf.Model.Classes[i], c)
		}
	}
	if len(bf.Model.Coef) != len(wantClasses) || len(bf.Model.Intercepts) != len(wantClasses) {
		return nil, fmt.Errorf("model bundle: coefficient/intercept shape mismatch")
	}
	for i, row := range bf.Model.Coef {
		if len(row) != len(bf.FeatureNames) {
			return nil, fmt.Errorf("model bundle: coefficient row %d has %d weights, want %d", i, len(row), len(bf.FeatureNames))
		}
	}

	b := &Bundle{
		featureNames: bf.FeatureNames,
		threshold:    bf.Threshold,
		coef:         bf.Model.Coef,
		intercept:    bf.Model.Intercepts,
	}
	if s := bf.Model.Scaler; s != nil {
		if len(s.Mean) != len(bf.FeatureNames) || len(s.Std) != len(bf.FeatureNames) {
			return nil, fmt.Errorf("model bundle: scaler shape mismatch")
		}
		b.scalerMean = s.Mean
		b.scalerStd = s.Std
	}
	return b, nil
}

// FeatureNames returns the ordered training column list.
func (b *Bundle) FeatureNames() []string { return b.featureNames }

// Threshold returns the decision threshold.
func (b *Bundle) Threshold() float64 { return b.threshold }

// PredictProba returns class probabilities [short, neutral, long] for a
// feature vector ordered as FeatureNames.
func (b *Bundle) PredictProba(x []float64) ([]float64, error) {
	if len(x) != len(b.featureNames) {
		return nil, fmt.Errorf("predict: got %d features, want %d", len(x), len(b.featureNames))
	}

	scaled := x
	if b.scalerMean != nil {
		scaled = make([]float64, len(x))
		for i, v := range x {
			std := b.scalerStd[i]
			if std == 0 {
				std = 1
			}
			scaled[i] = (v - b.scalerMean[i]) / std
		}
	}

	logits := make([]float64, len(b.coef))
	maxLogit := math.Inf(-1)
	for c, row := range b.coef {
		z := b.intercept[c]
		for i, w := range row {
			z += w * scaled[i]
		}
		logits[c] = z
		if z > maxLogit {
			maxLogit = z
		}
	}

	// softmax, shifted by the max logit for numeric stability
	sum := 0.0
	probs := make([]float64, len(logits))
	for c, z := range logits {
		probs[c] = math.Exp(z - maxLogit)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs, nil
}
