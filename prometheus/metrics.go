// Package prometheus exposes harvest progress as Prometheus metrics.
package prometheus

import (
	"net/http"

	"github.com/fwojciec/scholarly"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records harvest events on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	Attempts           *prometheus.CounterVec
	RecordsExtracted   prometheus.Counter
	EndpointsDiscarded prometheus.Counter
	PagesPending       prometheus.Gauge
	Sweeps             prometheus.Gauge
}

// NewMetrics creates Metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scholarly_attempts_total",
				Help: "Page retrieval attempts by outcome",
			},
			[]string{"outcome"},
		),
		RecordsExtracted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scholarly_records_extracted_total",
				Help: "Records extracted from retrieved pages",
			},
		),
		EndpointsDiscarded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scholarly_endpoints_discarded_total",
				Help: "Endpoints dropped from the pool after rejecting a request",
			},
		),
		PagesPending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scholarly_pages_pending",
				Help: "Pages not yet retrieved or abandoned",
			},
		),
		Sweeps: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scholarly_sweep",
				Help: "Current sweep over the pending pages",
			},
		),
	}
}

// Observe records one harvest event. It has the signature of
// scholarly.ProgressFunc.
func (m *Metrics) Observe(p scholarly.Progress) {
	m.Attempts.WithLabelValues(p.Outcome.String()).Inc()
	switch p.Outcome {
	case scholarly.OutcomeRetrieved:
		m.RecordsExtracted.Add(float64(p.Records))
	case scholarly.OutcomeRejected:
		m.EndpointsDiscarded.Inc()
	}
	m.PagesPending.Set(float64(p.Remaining))
	m.Sweeps.Set(float64(p.Sweep))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
