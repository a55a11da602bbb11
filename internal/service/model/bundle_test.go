package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const validBundle = `{
  "feature_names": ["RSI", "ADX"],
  "threshold": 0.6,
  "model": {
    "type": "multinomial_logistic",
    "classes": ["short", "neutral", "long"],
    "coefficients": [[0.5, -0.2], [0.0, 0.1], [-0.5, 0.2]],
    "intercepts": [0.1, 0.0, -0.1],
    "scaler": {"mean": [50.0, 25.0], "std": [10.0, 5.0]}
  }
}`

func writeBundle(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	return path
}

func TestLoadValidBundle(t *testing.T) {
	b, err := Load(writeBundle(t, validBundle))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := b.FeatureNames(); len(got) != 2 || got[0] != "RSI" || got[1] != "ADX" {
		t.Fatalf("feature names = %v", got)
	}
	if b.Threshold() != 0.6 {
		t.Fatalf("threshold = %v", b.Threshold())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing artifact")
	}
}

func TestLoadRejectsWrongClassOrder(t *testing.T) {
	bad := `{
  "feature_names": ["RSI"],
  "threshold": 0.5,
  "model": {
    "type": "multinomial_logistic",
    "classes": ["long", "neutral", "short"],
    "coefficients": [[0.1], [0.2], [0.3]],
    "intercepts": [0, 0, 0]
  }
}`
	if _, err := Load(writeBundle(t, bad)); err == nil {
		t.Fatalf("expected error for wrong class order")
	}
}

func TestLoadRejectsThresholdOutOfRange(t *testing.T) {
	bad := `{
  "feature_names": ["RSI"],
  "threshold": 1.5,
  "model": {
    "type": "multinomial_logistic",
    "classes": ["short", "neutral", "long"],
    "coefficients": [[0.1], [0.2], [0.3]],
    "intercepts": [0, 0, 0]
  }
}`
	if _, err := Load(writeBundle(t, bad)); err == nil {
		t.Fatalf("expected error for threshold outside [0,1]")
	}
}

func TestLoadRejectsShapeMismatch(t *testing.T) {
	bad := `{
  "feature_names": ["RSI", "ADX"],
  "threshold": 0.5,
  "model": {
    "type": "multinomial_logistic",
    "classes": ["short", "neutral", "long"],
    "coefficients": [[0.1], [0.2], [0.3]],
    "intercepts": [0, 0, 0]
  }
}`
	if _, err := Load(writeBundle(t, bad)); err == nil {
		t.Fatalf("expected error for coefficient shape mismatch")
	}
}

func TestLoadRejectsUnknownModelType(t *testing.T) {
	bad := `{
  "feature_names": ["RSI"],
  "threshold": 0.5,
  "model": {
    "type": "gradient_boosting",
    "classes": ["short", "neutral", "long"],
    "coefficients": [[0.1], [0.2], [0.3]],
    "intercepts": [0, 0, 0]
  }
}`
	if _, err := Load(writeBundle(t, bad)); err == nil {
		t.Fatalf("expected error for unsupported model type")
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	b, err := Load(writeBundle(t, validBundle))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	probs, err := b.PredictProba([]float64{55, 30})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if len(probs) != 3 {
		t.Fatalf("probs = %v", probs)
	}
	sum := 0.0
	for _, p := range probs {
		if p < 0 || p > 1 {
			t.Fatalf("probability %v outside [0,1]", p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("probabilities sum to %v", sum)
	}
}

func TestPredictProbaWrongDimension(t *testing.T) {
	b, err := Load(writeBundle(t, validBundle))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := b.PredictProba([]float64{1}); err == nil {
		t.Fatalf("expected error for wrong input dimension")
	}
}

func TestPredictProbaDeterministic(t *testing.T) {
	b, err := Load(writeBundle(t, validBundle))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	a, _ := b.PredictProba([]float64{42, 28})
	c, _ := b.PredictProba([]float64{42, 28})
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("non-deterministic output: %v vs %v", a, c)
		}
	}
}
