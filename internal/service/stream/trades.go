// Package stream feeds the live price cache from a websocket trade
// feed, as a lower-latency complement to the scheduled spot refresh.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/NeuralG/coin-trading-ai/internal/domain/repository"
	"github.com/NeuralG/coin-trading-ai/internal/service/cache"
	applogger "github.com/NeuralG/coin-trading-ai/pkg/logger"
)

// TradeStream subscribes to live trades for the tracked symbols and
// overwrites the price cache on every tick. Failures reconnect with a
// delay and never affect the bar pipeline or the read path.
type TradeStream struct {
	url            string
	apiKey         string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	prices  *cache.LivePriceCache
	metrics repository.Metrics
	l       *applogger.Logger

	conn *websocket.Conn
}

func NewTradeStream(url, apiKey string, symbols []string, reconnectDelay, pingInterval time.Duration,
	prices *cache.LivePriceCache, metrics repository.Metrics, l *applogger.Logger) *TradeStream {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &TradeStream{
		url:            url,
		apiKey:         apiKey,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		prices:         prices,
		metrics:        metrics,
		l:              l,
	}
}

type wsTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string    `json:"type"`
	Data []wsTrade `json:"data"`
}

func (s *TradeStream) connect(ctx context.Context) error {
	u := s.url
	if s.apiKey != "" {
		u = fmt.Sprintf("%s?token=%s", s.url, s.apiKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("trade stream connect: %w", err)
	}
	s.conn = conn
	for _, sym := range s.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := conn.WriteJSON(msg); err != nil {
			_ = conn.Close()
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}
	s.l.Info("trade stream connected", applogger.Strings("symbols", s.symbols))
	return nil
}

// Run connects and consumes trades until ctx is cancelled, reconnecting
// on read errors.
func (s *TradeStream) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.connect(ctx); err != nil {
			s.l.Warn("trade stream connect failed", applogger.Error(err))
			s.metrics.RecordError("stream_connect")
			if !sleepCtx(ctx, s.reconnectDelay) {
				return
			}
			continue
		}
		s.consume(ctx)
		_ = s.Close()
		if !sleepCtx(ctx, s.reconnectDelay) {
			return
		}
	}
}

func (s *TradeStream) consume(ctx context.Context) {
	pingDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-pingDone:
				return
			case <-ticker.C:
				_ = s.conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}()
	defer close(pingDone)

	for {
		if ctx.Err() != nil {
			return
		}
		_, b, err := s.conn.ReadMessage()
		if err != nil {
			s.l.Warn("trade stream read failed", applogger.Error(err))
			s.metrics.RecordError("stream_read")
			return
		}
		var m wsMessage
		if err := json.Unmarshal(b, &m); err != nil || m.Type != "trade" {
			continue
		}
		for _, t := range m.Data {
			if t.P <= 0 {
				continue
			}
			at := time.Unix(t.T/1000, 0).UTC()
			s.prices.Set(t.S, t.P, at)
			s.metrics.RecordLastPrice(t.S, t.P)
		}
	}
}

// Close closes the websocket connection.
func (s *TradeStream) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
