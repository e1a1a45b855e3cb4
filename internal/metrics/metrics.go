package metrics

import (
	"net/http"
	"time"

	"SignalSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signal service.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec // labels: result=ok|fetch_error|compute_error|stale
	RefreshDur      prometheus.Histogram
	ComputeDur      prometheus.Histogram
	SignalsTotal    *prometheus.CounterVec // labels: signal
	SignalChanges   prometheus.Counter
	StaleDiscarded  prometheus.Counter
	LatestRSI       prometheus.Gauge
	LatestPrice     prometheus.Gauge
	LatestMACD      prometheus.Gauge
	LatestMACDSig   prometheus.Gauge
	LatestSignal    prometheus.Gauge // -1=SELL, 0=HOLD, 1=BUY
	LastSuccessUnix prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates the metrics and registers them on reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_refresh_total",
			Help: "Refresh cycles by outcome",
		}, []string{"result"}),
		RefreshDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signal_refresh_duration_seconds",
			Help:    "Fetch + compute + classify latency per refresh",
			Buckets: prometheus.DefBuckets,
		}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signal_indicator_compute_duration_seconds",
			Help:    "Indicator computation latency per refresh",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_emitted_total",
			Help: "Accepted signals by type",
		}, []string{"signal"}),
		SignalChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signal_changes_total",
			Help: "Times the published signal differed from the previous one",
		}),
		StaleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signal_stale_results_discarded_total",
			Help: "Refresh results dropped because a later-started refresh already published",
		}),
		LatestRSI: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_latest_rsi",
			Help: "RSI of the latest published snapshot",
		}),
		LatestPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_latest_price",
			Help: "Closing price of the latest published snapshot",
		}),
		LatestMACD: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_latest_macd",
			Help: "MACD line of the latest published snapshot",
		}),
		LatestMACDSig: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_latest_macd_signal",
			Help: "MACD signal line of the latest published snapshot",
		}),
		LatestSignal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_latest",
			Help: "Latest signal (-1=SELL, 0=HOLD, 1=BUY)",
		}),
		LastSuccessUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_last_success_timestamp_seconds",
			Help: "Unix time of the latest published snapshot",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.RefreshTotal,
		m.RefreshDur,
		m.ComputeDur,
		m.SignalsTotal,
		m.SignalChanges,
		m.StaleDiscarded,
		m.LatestRSI,
		m.LatestPrice,
		m.LatestMACD,
		m.LatestMACDSig,
		m.LatestSignal,
		m.LastSuccessUnix,
	)
	return m
}

// ObserveSnapshot updates the gauges and counters for a published snapshot.
func (m *Metrics) ObserveSnapshot(snap *model.Snapshot) {
	l := snap.Indicators.Latest
	m.RefreshTotal.WithLabelValues("ok").Inc()
	m.SignalsTotal.WithLabelValues(string(snap.Signal.Type)).Inc()
	m.LatestRSI.Set(l.RSI)
	m.LatestPrice.Set(l.Close)
	m.LatestMACD.Set(l.MACD)
	m.LatestMACDSig.Set(l.MACDSignal)
	m.LatestSignal.Set(signalValue(snap.Signal.Type))
	m.LastSuccessUnix.Set(float64(snap.FinishedAt.Unix()))
	m.RefreshDur.Observe(snap.FinishedAt.Sub(snap.StartedAt).Seconds())
}

// ObserveCompute records how long indicator computation took.
func (m *Metrics) ObserveCompute(d time.Duration) {
	m.ComputeDur.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func signalValue(s model.SignalType) float64 {
	switch s {
	case model.SignalBuy:
		return 1
	case model.SignalSell:
		return -1
	}
	return 0
}
