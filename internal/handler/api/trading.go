package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NeuralG/coin-trading-ai/internal/usecase"
	"github.com/NeuralG/coin-trading-ai/pkg/cache"
	xhttp "github.com/NeuralG/coin-trading-ai/pkg/http"
	xlogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

const chartDateLayout = "2006-01-02 15:04:05"

// TradingHandler exposes the read endpoints: prediction, live price and
// chart data. All of them serve from process-local state and never
// touch the store or the market data provider.
type TradingHandler struct {
	logger     *xlogger.Logger
	predictor  *usecase.Predictor
	chart      *usecase.ChartReader
	prices     *usecase.LivePriceReader
	chartCache *cache.Memory[[]ChartBar]
	chartTTL   time.Duration
}

func NewTradingHandler(logger *xlogger.Logger, predictor *usecase.Predictor,
	chart *usecase.ChartReader, prices *usecase.LivePriceReader, chartTTL time.Duration) *TradingHandler {
	return &TradingHandler{
		logger:     logger,
		predictor:  predictor,
		chart:      chart,
		prices:     prices,
		chartCache: cache.NewMemory[[]ChartBar](64, time.Minute),
		chartTTL:   chartTTL,
	}
}

// PredictResponse is the payload of GET /api/predict.
type PredictResponse struct {
	ShortProb float64 `json:"short_prob"`
	LongProb  float64 `json:"long_prob"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"`
	AsOf      string  `json:"as_of"`
}

// LivePriceResponse is the payload of GET /api/live_price. Price is
// null until the first price observation arrives.
type LivePriceResponse struct {
	Price *float64 `json:"price"`
}

// ChartDataRequest is the query of GET /api/chart_data.
type ChartDataRequest struct {
	Symbol string `query:"symbol"`
	Limit  int    `query:"limit" default:"200" validate:"gte=1,lte=2000"`
}

// ChartBar is one candle of GET /api/chart_data.
type ChartBar struct {
	Date  string  `json:"Date"`
	Open  float64 `json:"Open"`
	High  float64 `json:"High"`
	Low   float64 `json:"Low"`
	Close float64 `json:"Close"`
}

// HealthResponse is the payload of GET /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	SnapshotReady bool   `json:"snapshot_ready"`
	BuiltAt       string `json:"built_at,omitempty"`
	FeatureRows   int    `json:"feature_rows"`
}

func (h *TradingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/predict", h.Predict)
	g.GET("/live_price", h.LivePrice)
	g.GET("/chart_data", h.ChartData)
	e.GET("/healthz", h.Health)
}

func (h *TradingHandler) Predict(c echo.Context) error {
	pred, err := h.predictor.Predict()
	if err != nil {
		if errors.Is(err, usecase.ErrNotReady) {
			return xhttp.AppErrorResponse(c, xhttp.NotReadyError("feature snapshot not ready").WithError(err))
		}
		h.logger.Error("predict usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("prediction failed").WithError(err))
	}

	return xhttp.SuccessResponse(c, PredictResponse{
		ShortProb: pred.ShortProb,
		LongProb:  pred.LongProb,
		Threshold: pred.Threshold,
		Action:    string(pred.Action),
		AsOf:      pred.AsOf.UTC().Format(time.RFC3339),
	})
}

func (h *TradingHandler) LivePrice(c echo.Context) error {
	resp := LivePriceResponse{}
	if p, ok := h.prices.Current(); ok {
		resp.Price = &p.Price
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *TradingHandler) ChartData(c echo.Context) error {
	req := &ChartDataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := fmt.Sprintf("chart:%s:%d", req.Symbol, req.Limit)
	if rows, ok := h.chartCache.Get(key); ok {
		return xhttp.SuccessResponse(c, rows)
	}

	bars, _, err := h.chart.RecentBars(req.Symbol, req.Limit)
	if err != nil {
		if errors.Is(err, usecase.ErrNotReady) {
			return xhttp.AppErrorResponse(c, xhttp.NotReadyError("chart data not ready").WithError(err))
		}
		h.logger.Error("chart usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("chart data failed").WithError(err))
	}

	rows := make([]ChartBar, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, ChartBar{
			Date:  b.Date.UTC().Format(chartDateLayout),
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		})
	}
	h.chartCache.Set(key, rows, h.chartTTL)

	return xhttp.SuccessResponse(c, rows)
}

func (h *TradingHandler) Health(c echo.Context) error {
	resp := HealthResponse{Status: "ok"}
	if snap, ok := h.chart.Snapshot(); ok {
		resp.SnapshotReady = true
		resp.BuiltAt = snap.BuiltAt.UTC().Format(time.RFC3339)
		resp.FeatureRows = len(snap.Rows)
	}
	return xhttp.SuccessResponse(c, resp)
}
