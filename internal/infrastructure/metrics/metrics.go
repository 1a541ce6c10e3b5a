// Package metrics registers the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service records into.
type Metrics struct {
	registry *prometheus.Registry

	cardUpdates     *prometheus.CounterVec
	cardUpdateTime  *prometheus.HistogramVec
	gatewayCalls    *prometheus.CounterVec
	gatewayLatency  *prometheus.HistogramVec
	adminCommands   *prometheus.CounterVec
	earningsLookups *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(registry)
}

func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		cardUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membergate_card_updates_total",
				Help: "Billing card update attempts by outcome",
			},
			[]string{"outcome"},
		),
		cardUpdateTime: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "membergate_card_update_duration_seconds",
				Help:    "Time spent handling a billing card update",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		gatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membergate_gateway_requests_total",
				Help: "PayPal NVP requests by method and result",
			},
			[]string{"method", "result"},
		),
		gatewayLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "membergate_gateway_request_duration_seconds",
				Help:    "PayPal NVP request latency",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 45},
			},
			[]string{"method"},
		),
		adminCommands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membergate_admin_commands_total",
				Help: "Admin commands by action and result code",
			},
			[]string{"action", "result"},
		),
		earningsLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membergate_earnings_lookups_total",
				Help: "Earnings lookups by cache result",
			},
			[]string{"cache"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membergate_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "membergate_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveCardUpdate(outcome string, elapsed time.Duration) {
	m.cardUpdates.WithLabelValues(outcome).Inc()
	m.cardUpdateTime.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveGatewayRequest(method, result string, elapsed time.Duration) {
	m.gatewayCalls.WithLabelValues(method, result).Inc()
	m.gatewayLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) IncAdminCommand(action, result string) {
	m.adminCommands.WithLabelValues(action, result).Inc()
}

// IncEarningsLookup counts earnings reads; cache is "hit", "miss" or "error".
func (m *Metrics) IncEarningsLookup(cache string) {
	m.earningsLookups.WithLabelValues(cache).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
