package features

import "math"

// All indicator functions take aligned slices for one symbol's ordered
// history and return a slice of the same length. Positions where the
// indicator's lookback is not yet satisfied carry NaN; NaN propagates
// through arithmetic so downstream stages need no special casing.

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstDefined(vals []float64) int {
	for i, v := range vals {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// sma computes a simple moving average over a full trailing window.
func sma(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	for i := period - 1; i < len(vals); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// ema computes an exponential moving average seeded with the simple
// average of the first period values. Leading NaNs (e.g. a MACD line
// fed back in) are skipped, so the output is defined from
// firstDefined+period onward.
func ema(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	f := firstDefined(vals)
	if f < 0 || len(vals)-f <= period {
		return out
	}
	seed := 0.0
	for i := f; i < f+period; i++ {
		seed += vals[i]
	}
	prev := seed / float64(period)
	alpha := 2.0 / (float64(period) + 1.0)
	for i := f + period; i < len(vals); i++ {
		prev = alpha*vals[i] + (1.0-alpha)*prev
		out[i] = prev
	}
	return out
}

// rsi computes the Wilder-smoothed relative strength index.
func rsi(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) <= period {
		return out
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// stochOf computes the stochastic oscillator of an input series (here
// the RSI), returning the smoothed %K and %D pair.
func stochOf(vals []float64, length, smoothK, smoothD int) (k, d []float64) {
	raw := nanSlice(len(vals))
	for i := length - 1; i < len(vals); i++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		ok := true
		for j := i - length + 1; j <= i; j++ {
			if math.IsNaN(vals[j]) {
				ok = false
				break
			}
			lo = math.Min(lo, vals[j])
			hi = math.Max(hi, vals[j])
		}
		if !ok || hi == lo {
			continue
		}
		raw[i] = 100.0 * (vals[i] - lo) / (hi - lo)
	}
	k = smaSkipNaN(raw, smoothK)
	d = smaSkipNaN(k, smoothD)
	return k, d
}

// smaSkipNaN is an SMA whose window starts after the leading NaN run.
func smaSkipNaN(vals []float64, period int) []float64 {
	out := nanSlice(len(vals))
	f := firstDefined(vals)
	if f < 0 {
		return out
	}
	for i := f + period - 1; i < len(vals); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// cci computes the commodity channel index over typical price.
func cci(high, low, closes []float64, period int) []float64 {
	n := len(closes)
	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (high[i] + low[i] + closes[i]) / 3.0
	}
	m := sma(tp, period)
	out := nanSlice(n)
	for i := period - 1; i < n; i++ {
		dev := 0.0
		for j := i - period + 1; j <= i; j++ {
			dev += math.Abs(tp[j] - m[i])
		}
		dev /= float64(period)
		if dev == 0 {
			continue
		}
		out[i] = (tp[i] - m[i]) / (0.015 * dev)
	}
	return out
}

func trueRange(high, low, closes []float64) []float64 {
	out := nanSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - closes[i-1])
		lc := math.Abs(low[i] - closes[i-1])
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// atr computes the Wilder-smoothed average true range.
func atr(high, low, closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) <= period {
		return out
	}
	tr := trueRange(high, low, closes)
	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	prev := sum / float64(period)
	out[period] = prev
	for i := period + 1; i < len(closes); i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = prev
	}
	return out
}

// adx computes the average directional index with its +DI/-DI
// directional components, all Wilder-smoothed.
func adx(high, low, closes []float64, period int) (adxOut, plusDI, minusDI []float64) {
	n := len(closes)
	adxOut, plusDI, minusDI = nanSlice(n), nanSlice(n), nanSlice(n)
	if n <= 2*period {
		return adxOut, plusDI, minusDI
	}

	tr := trueRange(high, low, closes)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	var sTR, sPlus, sMinus float64
	for i := 1; i <= period; i++ {
		sTR += tr[i]
		sPlus += plusDM[i]
		sMinus += minusDM[i]
	}

	dx := nanSlice(n)
	assign := func(i int) {
		if sTR == 0 {
			return
		}
		p := 100.0 * sPlus / sTR
		m := 100.0 * sMinus / sTR
		plusDI[i] = p
		minusDI[i] = m
		if p+m > 0 {
			dx[i] = 100.0 * math.Abs(p-m) / (p + m)
		} else {
			dx[i] = 0
		}
	}
	assign(period)
	for i := period + 1; i < n; i++ {
		sTR = sTR - sTR/float64(period) + tr[i]
		sPlus = sPlus - sPlus/float64(period) + plusDM[i]
		sMinus = sMinus - sMinus/float64(period) + minusDM[i]
		assign(i)
	}

	// ADX seeds with the average of the first period DX values.
	seedEnd := 2*period - 1
	sum := 0.0
	for i := period; i <= seedEnd; i++ {
		sum += dx[i]
	}
	prev := sum / float64(period)
	adxOut[seedEnd] = prev
	for i := seedEnd + 1; i < n; i++ {
		prev = (prev*float64(period-1) + dx[i]) / float64(period)
		adxOut[i] = prev
	}
	return adxOut, plusDI, minusDI
}

// bbands computes volatility bands: mid SMA plus/minus mult sample
// standard deviations.
func bbands(closes []float64, period int, mult float64) (upper, mid, lower []float64) {
	n := len(closes)
	mid = sma(closes, period)
	upper, lower = nanSlice(n), nanSlice(n)
	for i := period - 1; i < n; i++ {
		varSum := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mid[i]
			varSum += d * d
		}
		sd := math.Sqrt(varSum / float64(period-1))
		upper[i] = mid[i] + mult*sd
		lower[i] = mid[i] - mult*sd
	}
	return upper, mid, lower
}

// obv computes cumulative on-balance volume.
func obv(closes, volume []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	out[0] = volume[0]
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volume[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// mfi computes the money flow index over typical-price money flow.
func mfi(high, low, closes, volume []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if n <= period {
		return out
	}
	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (high[i] + low[i] + closes[i]) / 3.0
	}
	for i := period; i < n; i++ {
		var pos, neg float64
		for j := i - period + 1; j <= i; j++ {
			flow := tp[j] * volume[j]
			if tp[j] > tp[j-1] {
				pos += flow
			} else if tp[j] < tp[j-1] {
				neg += flow
			}
		}
		if neg == 0 {
			out[i] = 100.0
			continue
		}
		out[i] = 100.0 - 100.0/(1.0+pos/neg)
	}
	return out
}

// cmf computes the Chaikin money flow ratio over a trailing window.
func cmf(high, low, closes, volume []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	mfv := make([]float64, n)
	for i := 0; i < n; i++ {
		rng := high[i] - low[i]
		if rng == 0 {
			continue
		}
		mult := ((closes[i] - low[i]) - (high[i] - closes[i])) / rng
		mfv[i] = mult * volume[i]
	}
	for i := period - 1; i < n; i++ {
		var flowSum, volSum float64
		for j := i - period + 1; j <= i; j++ {
			flowSum += mfv[j]
			volSum += volume[j]
		}
		if volSum == 0 {
			continue
		}
		out[i] = flowSum / volSum
	}
	return out
}

// logReturns computes one-step logarithmic returns.
func logReturns(closes []float64) []float64 {
	out := nanSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		out[i] = math.Log(closes[i] / closes[i-1])
	}
	return out
}

// macd computes the convergence/divergence triple: line, signal and
// histogram.
func macd(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	n := len(closes)
	emaFast := ema(closes, fast)
	emaSlow := ema(closes, slow)
	line = nanSlice(n)
	for i := 0; i < n; i++ {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig = ema(line, signal)
	hist = nanSlice(n)
	for i := 0; i < n; i++ {
		hist[i] = line[i] - sig[i]
	}
	return line, sig, hist
}

// shift returns vals lagged by k steps; the first k positions are NaN.
func shift(vals []float64, k int) []float64 {
	out := nanSlice(len(vals))
	for i := k; i < len(vals); i++ {
		out[i] = vals[i-k]
	}
	return out
}
