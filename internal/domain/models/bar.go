package models

import "time"

// Bar represents one OHLCV observation for a symbol at a point in time.
// Date is timezone-naive: always canonicalized to UTC at the ingest boundary.
// The parquet tags define the on-disk columnar schema of the bar store.
type Bar struct {
	Symbol string    `json:"symbol" parquet:"Symbol"`
	Date   time.Time `json:"date" parquet:"Date,timestamp(millisecond)"`
	Open   float64   `json:"open" parquet:"Open"`
	High   float64   `json:"high" parquet:"High"`
	Low    float64   `json:"low" parquet:"Low"`
	Close  float64   `json:"close" parquet:"Close"`
	Volume float64   `json:"volume" parquet:"Volume"`
}

// Key identifies a bar uniquely within the store.
func (b Bar) Key() BarKey {
	return BarKey{Symbol: b.Symbol, Date: b.Date.Unix()}
}

// BarKey is the (symbol, timestamp) uniqueness key of a bar.
type BarKey struct {
	Symbol string
	Date   int64
}

// Less orders bars by (Symbol, Date) ascending, the canonical store
// order.
func Less(a, b Bar) bool {
	if a.Symbol != b.Symbol {
		return a.Symbol < b.Symbol
	}
	return a.Date.Before(b.Date)
}

// LivePrice is the last known spot price for a symbol.
type LivePrice struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	At     time.Time `json:"at"`
}
