package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirhossein-jamali/booster-economy/internal/domain/port/core"
)

// Prometheus implements core.Metrics on its own registry
type Prometheus struct {
	registry     *prometheus.Registry
	operations   *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	gate         *prometheus.CounterVec
	cards        *prometheus.CounterVec
	auditDropped prometheus.Counter
	httpRequests *prometheus.CounterVec
}

// NewPrometheus registers the economy collectors plus process and Go runtime collectors
func NewPrometheus(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "economy_operations_total",
			Help:      "Economy operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "economy_operation_duration_seconds",
			Help:      "Economy operation latency including retries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		gate: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_decisions_total",
			Help:      "Abuse gate decisions by action and decision",
		}, []string{"action", "decision"}),
		cards: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_drawn_total",
			Help:      "Generated cards by rarity and fallback step",
		}, []string{"rarity", "fallback"}),
		auditDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_events_dropped_total",
			Help:      "Audit events dropped because the sink buffer was full",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}
}

func (p *Prometheus) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	p.operations.WithLabelValues(operation, outcome).Inc()
	p.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (p *Prometheus) GateDecision(action, decision string) {
	p.gate.WithLabelValues(action, decision).Inc()
}

func (p *Prometheus) CardDrawn(rarity, fallback string) {
	p.cards.WithLabelValues(rarity, fallback).Inc()
}

func (p *Prometheus) AuditDropped() {
	p.auditDropped.Inc()
}

// HTTPRequest counts one served request
func (p *Prometheus) HTTPRequest(method, route, status string) {
	p.httpRequests.WithLabelValues(method, route, status).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry exposes the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

var _ core.Metrics = (*Prometheus)(nil)
