package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chartJSON(timestamps []int64, closes []float64, marketPrice float64) string {
	ts := ""
	ohlcv := ""
	for i, t := range timestamps {
		if i > 0 {
			ts += ","
			ohlcv += ","
		}
		ts += fmt.Sprintf("%d", t)
		ohlcv += fmt.Sprintf("%g", closes[i])
	}
	return fmt.Sprintf(`{"chart":{"result":[{
		"meta":{"regularMarketPrice":%g},
		"timestamp":[%s],
		"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}
	}],"error":null}}`, marketPrice, ts, ohlcv, ohlcv, ohlcv, ohlcv, ohlcv)
}

func TestFetchBarsWindowing(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	// One bar before the window, three inside, one at the exclusive end.
	timestamps := []int64{
		start.Add(-time.Hour).Unix(),
		start.Unix(),
		start.Add(time.Hour).Unix(),
		start.Add(2 * time.Hour).Unix(),
		end.Unix(),
	}
	closes := []float64{99, 100, 101, 102, 103}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("interval"); got != "1h" {
			t.Errorf("interval = %s", got)
		}
		fmt.Fprint(w, chartJSON(timestamps, closes, 0))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, "1h", time.Second)
	bars, err := c.FetchBars(context.Background(), "BTC-USD", start, end)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("bars = %d, want 3 inside [start, end)", len(bars))
	}
	if !bars[0].Date.Equal(start) {
		t.Fatalf("first bar at %v, want %v", bars[0].Date, start)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			t.Fatalf("bars not sorted")
		}
	}
}

func TestFetchBarsSkipsNullRows(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"chart":{"result":[{
		"meta":{},
		"timestamp":[%d,%d],
		"indicators":{"quote":[{"open":[100,null],"high":[101,null],"low":[99,null],"close":[100.5,null],"volume":[10,null]}]}
	}],"error":null}}`, start.Unix(), start.Add(time.Hour).Unix())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, "1h", time.Second)
	bars, err := c.FetchBars(context.Background(), "BTC-USD", start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("bars = %d, want null row skipped", len(bars))
	}
}

func TestFetchBarsRaggedPayloadFails(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	// Two timestamps but only one entry per quote array.
	body := fmt.Sprintf(`{"chart":{"result":[{
		"meta":{},
		"timestamp":[%d,%d],
		"indicators":{"quote":[{"open":[100],"high":[101],"low":[99],"close":[100.5],"volume":[10]}]}
	}],"error":null}}`, start.Unix(), start.Add(time.Hour).Unix())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, "1h", time.Second)
	if _, err := c.FetchBars(context.Background(), "BTC-USD", start, start.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected error for truncated quote arrays")
	}
}

func TestFetchBarsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, "1h", time.Second)
	if _, err := c.FetchBars(context.Background(), "NOPE", time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatalf("expected error from api error payload")
	}
}

func TestFetchSpotPriceFromMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON([]int64{time.Now().Unix()}, []float64{123}, 50123.5))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, "1h", time.Second)
	p, err := c.FetchSpotPrice(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("spot fetch failed: %v", err)
	}
	if p != 50123.5 {
		t.Fatalf("price = %v", p)
	}
}

func TestFetchSpotPriceFallsBackToLastClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON([]int64{1, 2, 3}, []float64{100, 101, 102}, 0))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, "1h", time.Second)
	p, err := c.FetchSpotPrice(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("spot fetch failed: %v", err)
	}
	if p != 102 {
		t.Fatalf("price = %v, want last close", p)
	}
}

func TestFetchBarsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, "1h", time.Second)
	if _, err := c.FetchBars(context.Background(), "BTC-USD", time.Now().Add(-time.Hour), time.Now()); err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}
