package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "actionplan"

// Metrics groups the collectors shared by the server, gateway and store.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	RelayUpstream    *prometheus.CounterVec
	GatewayFallbacks *prometheus.CounterVec
	SessionOps       *prometheus.CounterVec
}

// New creates the collectors on a fresh registry that also carries the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		RelayUpstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_upstream_total",
			Help:      "Relay calls to the completion API, by outcome.",
		}, []string{"outcome"}),
		GatewayFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_fallbacks_total",
			Help:      "Generations replaced by fallback content, by prompt kind.",
		}, []string{"kind"}),
		SessionOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_operations_total",
			Help:      "Session store operations, by operation and result.",
		}, []string{"op", "result"}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.RelayUpstream, m.GatewayFallbacks, m.SessionOps)
	return m
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, code string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, code).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(seconds)
}

// Relay records the outcome of one upstream call.
func (m *Metrics) Relay(outcome string) {
	if m == nil {
		return
	}
	m.RelayUpstream.WithLabelValues(outcome).Inc()
}

// Fallback records a generation that fell back to template content.
func (m *Metrics) Fallback(kind string) {
	if m == nil {
		return
	}
	m.GatewayFallbacks.WithLabelValues(kind).Inc()
}

// SessionOp records a store operation. A nil err counts as "ok".
func (m *Metrics) SessionOp(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SessionOps.WithLabelValues(op, result).Inc()
}
