package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the terminal. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	CountUpdates       *prometheus.CounterVec
	Registrations      *prometheus.CounterVec
	ScannerEvents      *prometheus.CounterVec
	RemoteCalls        *prometheus.HistogramVec
	ProtocolViolations prometheus.Counter
	BreakerOpen        prometheus.Gauge
}

// New creates and registers the metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CountUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_count_updates_total",
			Help: "Count update cycles by gantry mode and outcome",
		}, []string{"gantry_mode", "outcome"}),
		Registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_can_registrations_total",
			Help: "CAN ID registration attempts by outcome",
		}, []string{"outcome"}),
		ScannerEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clicker_scanner_events_total",
			Help: "Card scanner cycles by result",
		}, []string{"result"}),
		RemoteCalls: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clicker_backend_request_duration_seconds",
			Help:    "Latency of calls to the counting service",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "result"}),
		ProtocolViolations: f.NewCounter(prometheus.CounterOpts{
			Name: "clicker_protocol_violations_total",
			Help: "Responses from the counting service that broke the contract",
		}),
		BreakerOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "clicker_backend_breaker_open",
			Help: "1 while the counting service circuit breaker is open",
		}),
	}
}

func (m *Metrics) ObserveCountUpdate(gantryMode, outcome string) {
	if m == nil {
		return
	}
	m.CountUpdates.WithLabelValues(gantryMode, outcome).Inc()
}

func (m *Metrics) ObserveRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveScan(result string) {
	if m == nil {
		return
	}
	m.ScannerEvents.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRemoteCall(operation, result string, seconds float64) {
	if m == nil {
		return
	}
	m.RemoteCalls.WithLabelValues(operation, result).Observe(seconds)
}

func (m *Metrics) IncrementProtocolViolations() {
	if m == nil {
		return
	}
	m.ProtocolViolations.Inc()
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
