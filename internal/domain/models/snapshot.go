package models

import "time"

// FeatureRow is one bar extended with the full derived feature set.
// Values is keyed by canonical column name; the set of keys is the fixed
// schema published by the features package. A row only enters a snapshot
// once every column is defined.
type FeatureRow struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Values map[string]float64
}

// Snapshot is an immutable, fully materialized feature table for all
// symbols as of one refresh cycle, along with the raw bar history that
// backs chart reads. It is built entirely off to the side and published
// by pointer swap; once published it must never be mutated.
type Snapshot struct {
	BuiltAt time.Time
	Rows    []FeatureRow // sorted by (Symbol, Date)
	Bars    []Bar        // sorted by (Symbol, Date)
}

// LatestRow returns the most recent feature row for a symbol.
func (s *Snapshot) LatestRow(symbol string) (FeatureRow, bool) {
	var out FeatureRow
	found := false
	for _, r := range s.Rows {
		if r.Symbol != symbol {
			continue
		}
		if !found || r.Date.After(out.Date) {
			out = r
			found = true
		}
	}
	return out, found
}

// RecentBars returns up to n most recent bars for a symbol in ascending
// time order.
func (s *Snapshot) RecentBars(symbol string, n int) []Bar {
	bars := make([]Bar, 0, n)
	for _, b := range s.Bars {
		if b.Symbol == symbol {
			bars = append(bars, b)
		}
	}
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars
}
