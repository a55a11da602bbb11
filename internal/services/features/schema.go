// Package features derives the deterministic per-symbol feature matrix
// from raw bar history: technical indicators, engineered candle/volume
// features, calendar features and short-horizon lags, followed by
// warm-up truncation.
package features

// Canonical column names. Downstream consumers (model bundle, API) see
// only these; raw indicator naming stays behind the canonicalize step.
const (
	ColEMAShort   = "EMA_SHORT"
	ColEMAMid     = "EMA_MID"
	ColEMALong    = "EMA_LONG"
	ColEMAXL      = "EMA_XL"
	ColEMATrend   = "EMA_TREND"
	ColRSI        = "RSI"
	ColStochK     = "STOCH_K"
	ColStochD     = "STOCH_D"
	ColCCI        = "CCI"
	ColADX        = "ADX"
	ColADXPos     = "ADX_POS"
	ColADXNeg     = "ADX_NEG"
	ColBBUpper    = "BB_UPPER"
	ColBBMid      = "BB_MID"
	ColBBLower    = "BB_LOWER"
	ColATR        = "ATR"
	ColOBV        = "OBV"
	ColMFI        = "MFI"
	ColCMF        = "CMF"
	ColLogRet     = "LOG_RET"
	ColMACDLine   = "MACD_LINE"
	ColMACDSignal = "MACD_SIGNAL"
	ColMACDHist   = "MACD_HIST"

	ColCandleBody     = "candle_body"
	ColCandleRange    = "candle_range"
	ColUpperWick      = "upper_wick"
	ColLowerWick      = "lower_wick"
	ColUpperWickRatio = "upper_wick_ratio"
	ColLowerWickRatio = "lower_wick_ratio"
	ColRVOL           = "RVOL"
	ColDistEMAShort   = "dist_ema_short"
	ColDistEMALong    = "dist_ema_long"
	ColBBPosition     = "bb_position"
	ColBBWidth        = "bb_width"
	ColRSIMFIDiff     = "rsi_mfi_diff"
	ColIsTrending     = "is_trending"
)

// Indicator parameters. EMATrendLen is the largest lookback and bounds
// the warm-up period: the first valid row of a symbol is at index
// EMATrendLen.
const (
	EMAShortLen  = 9
	EMAMidLen    = 21
	EMALongLen   = 50
	EMAXLLen     = 100
	EMATrendLen  = 200
	RSILen       = 14
	StochRSILen  = 14
	StochSmoothK = 3
	StochSmoothD = 3
	CCILen       = 20
	ADXLen       = 14
	BBLen        = 20
	BBStdDev     = 2.0
	ATRLen       = 14
	MFILen       = 14
	CMFLen       = 20
	MACDFast     = 12
	MACDSlow     = 26
	MACDSignal   = 9
	RVOLWindow   = 24
	TrendADXMin  = 25.0
)

// MaxLookback is the warm-up bound in bars.
const MaxLookback = EMATrendLen

// canonicalNames maps indicator-stage output names to the stable schema
// names, insulating everything downstream from indicator naming.
var canonicalNames = map[string]string{
	"EMA_9":         ColEMAShort,
	"EMA_21":        ColEMAMid,
	"EMA_50":        ColEMALong,
	"EMA_100":       ColEMAXL,
	"EMA_200":       ColEMATrend,
	"RSI_14":        ColRSI,
	"STOCHRSIK_14":  ColStochK,
	"STOCHRSID_14":  ColStochD,
	"CCI_20":        ColCCI,
	"ADX_14":        ColADX,
	"DMP_14":        ColADXPos,
	"DMN_14":        ColADXNeg,
	"BBU_20_2":      ColBBUpper,
	"BBM_20_2":      ColBBMid,
	"BBL_20_2":      ColBBLower,
	"ATR_14":        ColATR,
	"OBV":           ColOBV,
	"MFI_14":        ColMFI,
	"CMF_20":        ColCMF,
	"LOGRET_1":      ColLogRet,
	"MACD_12_26_9":  ColMACDLine,
	"MACDS_12_26_9": ColMACDSignal,
	"MACDH_12_26_9": ColMACDHist,
}

var indicatorColumns = []string{
	ColEMAShort, ColEMAMid, ColEMALong, ColEMAXL, ColEMATrend,
	ColRSI, ColStochK, ColStochD, ColCCI,
	ColADX, ColADXPos, ColADXNeg,
	ColBBUpper, ColBBMid, ColBBLower,
	ColATR, ColOBV, ColMFI, ColCMF, ColLogRet,
	ColMACDLine, ColMACDSignal, ColMACDHist,
}

var engineeredColumns = []string{
	ColCandleBody, ColCandleRange, ColUpperWick, ColLowerWick,
	ColUpperWickRatio, ColLowerWickRatio, ColRVOL,
	ColDistEMAShort, ColDistEMALong,
	ColBBPosition, ColBBWidth, ColRSIMFIDiff, ColIsTrending,
}

var calendarColumns = []string{
	"hour", "day_of_week", "day_of_month", "month", "quarter", "week_of_year",
	"hour_sin", "hour_cos", "day_sin", "day_cos", "month_sin", "month_cos",
	"is_weekend", "is_asian_hours", "is_european_hours", "is_us_hours",
	"is_market_open", "is_morning", "is_afternoon", "is_evening", "is_night",
	"is_month_start", "is_month_end", "is_quarter_start", "is_quarter_end",
}

// lagBases are the autocorrelation-sensitive columns that get 1- and
// 2-step lagged copies.
var lagBases = []string{ColLogRet, ColRSI, ColMACDHist, ColRVOL, ColMFI}

const lagSteps = 2

// Columns returns the full ordered feature schema.
func Columns() []string {
	out := make([]string, 0, len(indicatorColumns)+len(engineeredColumns)+len(calendarColumns)+len(lagBases)*lagSteps)
	out = append(out, indicatorColumns...)
	out = append(out, engineeredColumns...)
	out = append(out, calendarColumns...)
	for _, base := range lagBases {
		out = append(out, base+"_lag1", base+"_lag2")
	}
	return out
}
