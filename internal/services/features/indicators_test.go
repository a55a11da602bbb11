package features

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	out := sma(vals, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Fatalf("warm-up positions must be NaN, got %v", out[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(out[i+2], w, 1e-12) {
			t.Fatalf("sma[%d] = %v, want %v", i+2, out[i+2], w)
		}
	}
}

func TestEMAWarmup(t *testing.T) {
	vals := make([]float64, 10)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	out := ema(vals, 5)
	for i := 0; i < 5; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("ema[%d] should be NaN, got %v", i, out[i])
		}
	}
	// Seed is the mean of the first 5 values (3); the first output folds
	// in vals[5] with alpha = 2/6.
	alpha := 2.0 / 6.0
	want := alpha*6.0 + (1-alpha)*3.0
	if !almostEqual(out[5], want, 1e-12) {
		t.Fatalf("ema[5] = %v, want %v", out[5], want)
	}
}

func TestEMATooShort(t *testing.T) {
	out := ema([]float64{1, 2, 3}, 3)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Fatalf("ema[%d] should be NaN for history not exceeding the period, got %v", i, v)
		}
	}
}

func TestEMASkipsLeadingNaN(t *testing.T) {
	vals := []float64{math.NaN(), math.NaN(), 1, 2, 3, 4, 5, 6}
	out := ema(vals, 3)
	for i := 0; i < 5; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("ema[%d] should be NaN, got %v", i, out[i])
		}
	}
	if math.IsNaN(out[5]) {
		t.Fatalf("ema[5] should be defined")
	}
}

func TestRSIBounds(t *testing.T) {
	vals := make([]float64, 50)
	for i := range vals {
		vals[i] = 100 + 5*math.Sin(float64(i)*0.9)
	}
	out := rsi(vals, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("rsi[%d] should be NaN", i)
		}
	}
	for i := 14; i < len(out); i++ {
		if out[i] < 0 || out[i] > 100 {
			t.Fatalf("rsi[%d] = %v outside [0,100]", i, out[i])
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	vals := make([]float64, 20)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	out := rsi(vals, 14)
	if out[14] != 100.0 {
		t.Fatalf("monotonic gains must give RSI 100, got %v", out[14])
	}
}

func TestBBandsOrdering(t *testing.T) {
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = 50 + 3*math.Sin(float64(i)*0.5)
	}
	upper, mid, lower := bbands(vals, 20, 2.0)
	for i := 19; i < len(vals); i++ {
		if !(lower[i] < mid[i] && mid[i] < upper[i]) {
			t.Fatalf("band ordering violated at %d: %v %v %v", i, lower[i], mid[i], upper[i])
		}
	}
}

func TestOBVAccumulation(t *testing.T) {
	closes := []float64{10, 11, 10, 10, 12}
	volume := []float64{100, 200, 300, 400, 500}
	out := obv(closes, volume)
	want := []float64{100, 300, 0, 0, 500}
	for i, w := range want {
		if out[i] != w {
			t.Fatalf("obv[%d] = %v, want %v", i, out[i], w)
		}
	}
}

func TestLogReturns(t *testing.T) {
	out := logReturns([]float64{100, 110, 99})
	if !math.IsNaN(out[0]) {
		t.Fatalf("first return must be NaN")
	}
	if !almostEqual(out[1], math.Log(1.1), 1e-12) {
		t.Fatalf("logret[1] = %v", out[1])
	}
	if !almostEqual(out[2], math.Log(0.9), 1e-12) {
		t.Fatalf("logret[2] = %v", out[2])
	}
}

func TestShift(t *testing.T) {
	out := shift([]float64{1, 2, 3, 4}, 2)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Fatalf("shifted head must be NaN")
	}
	if out[2] != 1 || out[3] != 2 {
		t.Fatalf("shift wrong: %v", out)
	}
}

func TestADXDefined(t *testing.T) {
	n := 60
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		c := 100 + 8*math.Sin(float64(i)*0.4)
		closes[i] = c
		high[i] = c + 1.5
		low[i] = c - 1.5
	}
	a, plus, minus := adx(high, low, closes, 14)
	seedEnd := 2*14 - 1
	for i := 0; i < seedEnd; i++ {
		if !math.IsNaN(a[i]) {
			t.Fatalf("adx[%d] should be NaN", i)
		}
	}
	for i := seedEnd; i < n; i++ {
		if math.IsNaN(a[i]) || a[i] < 0 || a[i] > 100 {
			t.Fatalf("adx[%d] = %v", i, a[i])
		}
		if math.IsNaN(plus[i]) || math.IsNaN(minus[i]) {
			t.Fatalf("directional components undefined at %d", i)
		}
	}
}

func TestMACDHistogram(t *testing.T) {
	n := 80
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		closes[i] = 100 + 6*math.Sin(float64(i)*0.3)
	}
	line, sig, hist := macd(closes, 12, 26, 9)
	for i := 35; i < n; i++ {
		if math.IsNaN(line[i]) || math.IsNaN(sig[i]) || math.IsNaN(hist[i]) {
			t.Fatalf("macd undefined at %d", i)
		}
		if !almostEqual(hist[i], line[i]-sig[i], 1e-12) {
			t.Fatalf("hist[%d] != line-signal", i)
		}
	}
}
