// Package metrics exposes Prometheus counters for the food catalog.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for a food action.
const (
	OutcomeView     = "view"
	OutcomeRedirect = "redirect"
	OutcomeFailure  = "failure"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
)

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the default registerer.
type Metrics struct {
	registry      *prometheus.Registry
	FoodActions   *prometheus.CounterVec
	RateLimitHits prometheus.Counter
}

// New builds the registry and registers every collector.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		FoodActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foodreggie",
			Name:      "food_actions_total",
			Help:      "Food controller actions by action name and outcome.",
		}, []string{"action", "outcome"}),
		RateLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "foodreggie",
			Name:      "rate_limit_hits_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	registry.MustRegister(
		m.FoodActions,
		m.RateLimitHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordAction counts one food action. A nil Metrics records nothing.
func (m *Metrics) RecordAction(action, outcome string) {
	if m == nil {
		return
	}
	m.FoodActions.WithLabelValues(action, outcome).Inc()
}

// RecordRateLimitHit counts one rejected request.
func (m *Metrics) RecordRateLimitHit() {
	if m == nil {
		return
	}
	m.RateLimitHits.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
