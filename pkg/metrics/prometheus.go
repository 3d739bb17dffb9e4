package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cycles       prometheus.Counter
	cycleSize    prometheus.Histogram
	signals      *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycles: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sigflow_engine_cycles_total",
				Help: "Total number of completed engine cycles",
			},
		),
		cycleSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sigflow_engine_cycle_accounts",
				Help:    "Active accounts processed per cycle",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
		signals: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigflow_signals_total",
				Help: "Signals counted per pipeline stage, symbol and side",
			},
			[]string{"stage", "symbol", "side"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sigflow_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sigflow_last_price",
				Help: "Last observed price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sigflow_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCycle records one completed engine cycle over n accounts.
func (r *Recorder) RecordCycle(accounts int) {
	r.cycles.Inc()
	r.cycleSize.Observe(float64(accounts))
}

// RecordSignal counts a signal at a pipeline stage (published, dispatched, discarded).
func (r *Recorder) RecordSignal(stage, symbol, side string) {
	r.signals.WithLabelValues(stage, symbol, side).Inc()
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
