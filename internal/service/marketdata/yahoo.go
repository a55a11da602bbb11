// Package marketdata implements the external bar and spot price source
// against the Yahoo Finance chart API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches OHLCV bars and spot prices over the chart API.
type YahooClient struct {
	baseURL  string
	interval string
	client   *http.Client
}

// NewYahooClient creates a client. baseURL is overridable for tests;
// interval is the chart resolution (e.g. "1h").
func NewYahooClient(baseURL, interval string, timeout time.Duration) *YahooClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooClient{
		baseURL:  baseURL,
		interval: interval,
		client:   &http.Client{Timeout: timeout},
	}
}

// chartResponse is the wire structure of the chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol string, query url.Values) (*chartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chart fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("chart read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("chart decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart: no result")
	}
	return &chart, nil
}

// FetchBars returns bars for one symbol within [start, end), sorted by
// time, with null rows (holidays, incomplete candles) skipped.
func (c *YahooClient) FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]models.Bar, error) {
	q := url.Values{}
	q.Set("interval", c.interval)
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))

	chart, err := c.fetchChart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	for _, col := range [][]interface{}{quote.Open, quote.High, quote.Low, quote.Close, quote.Volume} {
		if len(col) < len(result.Timestamp) {
			return nil, fmt.Errorf("chart: ragged payload, %d timestamps but %d quote values",
				len(result.Timestamp), len(col))
		}
	}

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		cl := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue
		}
		at := time.Unix(ts, 0).UTC()
		if at.Before(start) || !at.Before(end) {
			continue
		}
		bars = append(bars, models.Bar{
			Symbol: symbol,
			Date:   at,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: toFloat(quote.Volume[i]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// FetchSpotPrice returns the latest known trade price.
func (c *YahooClient) FetchSpotPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", "1d")

	chart, err := c.fetchChart(ctx, symbol, q)
	if err != nil {
		return 0, err
	}
	result := chart.Chart.Result[0]
	if result.Meta.RegularMarketPrice > 0 {
		return result.Meta.RegularMarketPrice, nil
	}
	if len(result.Indicators.Quote) > 0 {
		quote := result.Indicators.Quote[0]
		for i := len(quote.Close) - 1; i >= 0; i-- {
			if p := toFloat(quote.Close[i]); p > 0 {
				return p, nil
			}
		}
	}
	return 0, fmt.Errorf("chart: no price data for %s", symbol)
}
