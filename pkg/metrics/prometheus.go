package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	syncCycles    *prometheus.CounterVec
	barsMerged    prometheus.Counter
	snapshotRows  prometheus.Gauge
	snapshotBuilt prometheus.Gauge
	errorsTotal   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		syncCycles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trading_sync_cycles_total",
				Help: "Total number of bar synchronization cycles by result",
			},
			[]string{"result"},
		),
		barsMerged: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "trading_bars_merged_total",
				Help: "Total number of bars merged into the store",
			},
		),
		snapshotRows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "trading_snapshot_rows",
				Help: "Number of valid feature rows in the current snapshot",
			},
		),
		snapshotBuilt: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "trading_snapshot_built_timestamp_seconds",
				Help: "Unix timestamp of the last published snapshot",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trading_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trading_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trading_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSyncCycle records a completed sync cycle with its result
// ("ok", "skipped" or "error").
func (r *Recorder) RecordSyncCycle(result string) {
	r.syncCycles.WithLabelValues(result).Inc()
}

// RecordBarsMerged records how many new bars a cycle merged.
func (r *Recorder) RecordBarsMerged(n int) {
	r.barsMerged.Add(float64(n))
}

// RecordSnapshot records the size and build time of a published snapshot.
func (r *Recorder) RecordSnapshot(rows int, builtAt time.Time) {
	r.snapshotRows.Set(float64(rows))
	r.snapshotBuilt.Set(float64(builtAt.Unix()))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
