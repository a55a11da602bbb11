package features

import (
	"math"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
)

// Derive transforms bar history (sorted by symbol, date) into the full
// feature matrix. Each symbol is derived independently; the output is
// purely a function of the input bars, so two runs over the same
// history produce identical rows.
func Derive(bars []models.Bar) []models.FeatureRow {
	rows := make([]models.FeatureRow, 0, len(bars))
	for start := 0; start < len(bars); {
		end := start
		for end < len(bars) && bars[end].Symbol == bars[start].Symbol {
			end++
		}
		rows = append(rows, deriveSymbol(bars[start:end])...)
		start = end
	}
	return rows
}

// deriveSymbol runs the fixed stage order for one symbol: indicators,
// canonicalization, engineered features, calendar features, lags, and
// warm-up truncation.
func deriveSymbol(bars []models.Bar) []models.FeatureRow {
	n := len(bars)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	for i, b := range bars {
		open[i], high[i], low[i], closes[i], volume[i] = b.Open, b.High, b.Low, b.Close, b.Volume
	}

	cols := canonicalize(computeIndicators(open, high, low, closes, volume))
	addEngineered(cols, open, high, low, closes, volume)
	addCalendar(cols, bars)
	addLags(cols)

	schema := Columns()
	rows := make([]models.FeatureRow, 0, n)
	for i := 0; i < n; i++ {
		if !rowValid(cols, schema, i) {
			continue
		}
		vals := make(map[string]float64, len(schema))
		for _, name := range schema {
			vals[name] = cols[name][i]
		}
		rows = append(rows, models.FeatureRow{
			Symbol: bars[i].Symbol,
			Date:   bars[i].Date,
			Open:   open[i],
			High:   high[i],
			Low:    low[i],
			Close:  closes[i],
			Volume: volume[i],
			Values: vals,
		})
	}
	return rows
}

// computeIndicators is the indicator stage: the fixed set over the full
// history, keyed by raw indicator names.
func computeIndicators(open, high, low, closes, volume []float64) map[string][]float64 {
	raw := make(map[string][]float64, len(canonicalNames))
	raw["EMA_9"] = ema(closes, EMAShortLen)
	raw["EMA_21"] = ema(closes, EMAMidLen)
	raw["EMA_50"] = ema(closes, EMALongLen)
	raw["EMA_100"] = ema(closes, EMAXLLen)
	raw["EMA_200"] = ema(closes, EMATrendLen)
	raw["RSI_14"] = rsi(closes, RSILen)
	k, d := stochOf(raw["RSI_14"], StochRSILen, StochSmoothK, StochSmoothD)
	raw["STOCHRSIK_14"] = k
	raw["STOCHRSID_14"] = d
	raw["CCI_20"] = cci(high, low, closes, CCILen)
	a, plus, minus := adx(high, low, closes, ADXLen)
	raw["ADX_14"] = a
	raw["DMP_14"] = plus
	raw["DMN_14"] = minus
	upper, mid, lower := bbands(closes, BBLen, BBStdDev)
	raw["BBU_20_2"] = upper
	raw["BBM_20_2"] = mid
	raw["BBL_20_2"] = lower
	raw["ATR_14"] = atr(high, low, closes, ATRLen)
	raw["OBV"] = obv(closes, volume)
	raw["MFI_14"] = mfi(high, low, closes, volume, MFILen)
	raw["CMF_20"] = cmf(high, low, closes, volume, CMFLen)
	raw["LOGRET_1"] = logReturns(closes)
	line, sig, hist := macd(closes, MACDFast, MACDSlow, MACDSignal)
	raw["MACD_12_26_9"] = line
	raw["MACDS_12_26_9"] = sig
	raw["MACDH_12_26_9"] = hist
	return raw
}

// canonicalize maps raw indicator names onto the stable schema names.
func canonicalize(raw map[string][]float64) map[string][]float64 {
	cols := make(map[string][]float64, len(raw))
	for rawName, series := range raw {
		cols[canonicalNames[rawName]] = series
	}
	return cols
}

const epsilon = 1e-9

// addEngineered is the engineered-feature stage: candle geometry,
// relative volume, distances to moving averages, band position and the
// trend flag.
func addEngineered(cols map[string][]float64, open, high, low, closes, volume []float64) {
	n := len(closes)
	body := make([]float64, n)
	rng := make([]float64, n)
	upWick := make([]float64, n)
	loWick := make([]float64, n)
	upRatio := make([]float64, n)
	loRatio := make([]float64, n)
	for i := 0; i < n; i++ {
		body[i] = math.Abs(closes[i] - open[i])
		rng[i] = high[i] - low[i]
		upWick[i] = high[i] - math.Max(open[i], closes[i])
		loWick[i] = math.Min(open[i], closes[i]) - low[i]
		upRatio[i] = upWick[i] / (body[i] + epsilon)
		loRatio[i] = loWick[i] / (body[i] + epsilon)
	}
	cols[ColCandleBody] = body
	cols[ColCandleRange] = rng
	cols[ColUpperWick] = upWick
	cols[ColLowerWick] = loWick
	cols[ColUpperWickRatio] = upRatio
	cols[ColLowerWickRatio] = loRatio

	volMA := sma(volume, RVOLWindow)
	rvol := nanSlice(n)
	for i := 0; i < n; i++ {
		rvol[i] = volume[i] / (volMA[i] + epsilon)
	}
	cols[ColRVOL] = rvol

	emaShort := cols[ColEMAShort]
	emaLong := cols[ColEMALong]
	distShort := nanSlice(n)
	distLong := nanSlice(n)
	for i := 0; i < n; i++ {
		distShort[i] = (closes[i] - emaShort[i]) / emaShort[i]
		distLong[i] = (closes[i] - emaLong[i]) / emaLong[i]
	}
	cols[ColDistEMAShort] = distShort
	cols[ColDistEMALong] = distLong

	upper, midBand, lower := cols[ColBBUpper], cols[ColBBMid], cols[ColBBLower]
	bbPos := nanSlice(n)
	bbWidth := nanSlice(n)
	for i := 0; i < n; i++ {
		bbPos[i] = (closes[i] - lower[i]) / (upper[i] - lower[i])
		bbWidth[i] = (upper[i] - lower[i]) / midBand[i]
	}
	cols[ColBBPosition] = bbPos
	cols[ColBBWidth] = bbWidth

	rsiCol, mfiCol := cols[ColRSI], cols[ColMFI]
	diff := nanSlice(n)
	for i := 0; i < n; i++ {
		diff[i] = rsiCol[i] - mfiCol[i]
	}
	cols[ColRSIMFIDiff] = diff

	adxCol := cols[ColADX]
	trending := nanSlice(n)
	for i := 0; i < n; i++ {
		if math.IsNaN(adxCol[i]) {
			continue
		}
		if adxCol[i] > TrendADXMin {
			trending[i] = 1
		} else {
			trending[i] = 0
		}
	}
	cols[ColIsTrending] = trending
}

// addCalendar is the calendar stage: derived purely from each bar's own
// timestamp, never from the wall clock.
func addCalendar(cols map[string][]float64, bars []models.Bar) {
	n := len(bars)
	out := make(map[string][]float64, len(calendarColumns))
	for _, name := range calendarColumns {
		out[name] = make([]float64, n)
	}
	for i, b := range bars {
		t := b.Date.UTC()
		hour := float64(t.Hour())
		dow := float64((int(t.Weekday()) + 6) % 7) // Monday=0
		dom := float64(t.Day())
		month := float64(int(t.Month()))
		_, week := t.ISOWeek()

		out["hour"][i] = hour
		out["day_of_week"][i] = dow
		out["day_of_month"][i] = dom
		out["month"][i] = month
		out["quarter"][i] = float64((int(t.Month())-1)/3 + 1)
		out["week_of_year"][i] = float64(week)

		out["hour_sin"][i] = math.Sin(2 * math.Pi * hour / 24)
		out["hour_cos"][i] = math.Cos(2 * math.Pi * hour / 24)
		out["day_sin"][i] = math.Sin(2 * math.Pi * dow / 7)
		out["day_cos"][i] = math.Cos(2 * math.Pi * dow / 7)
		out["month_sin"][i] = math.Sin(2 * math.Pi * month / 12)
		out["month_cos"][i] = math.Cos(2 * math.Pi * month / 12)

		out["is_weekend"][i] = flag(dow >= 5)
		out["is_asian_hours"][i] = flag(hour >= 0 && hour < 8)
		out["is_european_hours"][i] = flag(hour >= 8 && hour < 16)
		out["is_us_hours"][i] = flag(hour >= 16 && hour < 24)
		out["is_market_open"][i] = flag(hour >= 9 && hour <= 16)
		out["is_morning"][i] = flag(hour >= 6 && hour < 12)
		out["is_afternoon"][i] = flag(hour >= 12 && hour < 18)
		out["is_evening"][i] = flag(hour >= 18 && hour < 24)
		out["is_night"][i] = flag(hour >= 0 && hour < 6)
		out["is_month_start"][i] = flag(dom <= 5)
		out["is_month_end"][i] = flag(dom >= 25)
		out["is_quarter_start"][i] = flag(int(month)%3 == 1 && dom <= 5)
		out["is_quarter_end"][i] = flag(int(month)%3 == 0 && dom >= 25)
	}
	for name, series := range out {
		cols[name] = series
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// addLags is the lag stage: 1- and 2-step lagged copies of the
// autocorrelation-sensitive columns.
func addLags(cols map[string][]float64) {
	for _, base := range lagBases {
		cols[base+"_lag1"] = shift(cols[base], 1)
		cols[base+"_lag2"] = shift(cols[base], 2)
	}
}

// rowValid reports whether every schema column is defined at index i.
// NaN and Inf both mark an unsatisfied lookback or a degenerate input
// and exclude the row.
func rowValid(cols map[string][]float64, schema []string, i int) bool {
	for _, name := range schema {
		v := cols[name][i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// WarmupHorizon returns the number of leading bars per symbol that can
// never produce a valid row given the largest indicator lookback.
func WarmupHorizon() int { return MaxLookback }
