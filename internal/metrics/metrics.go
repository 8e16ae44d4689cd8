// Package metrics exposes Prometheus collectors for the triage service on a
// dedicated registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "autou"

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	classifications   *prometheus.CounterVec
	scoreDuration     *prometheus.HistogramVec
	telemetryOutcomes *prometheus.CounterVec
	feedback          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them, along with the Go runtime and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Classification decisions by label and suggestion template",
			},
			[]string{"label", "template"},
		),
		scoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scorer_duration_seconds",
				Help:      "Time spent in the scorer per call",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		telemetryOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "telemetry_events_total",
				Help:      "Telemetry record attempts by outcome",
			},
			[]string{"outcome"},
		),
		feedback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feedback_submissions_total",
				Help:      "Feedback submissions by result",
			},
			[]string{"result"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"code", "method"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.classifications,
		m.scoreDuration,
		m.telemetryOutcomes,
		m.feedback,
		m.requestDuration,
	)

	return m
}

// Registry returns the registry backing the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request latency by status code and method.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return promhttp.InstrumentHandlerDuration(m.requestDuration, next)
}

// ObserveClassification counts one decision.
func (m *Metrics) ObserveClassification(label, template string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(label, template).Inc()
}

// ObserveScore records one scorer call.
func (m *Metrics) ObserveScore(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.scoreDuration.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveTelemetry counts one telemetry outcome (recorded, discarded, skipped).
func (m *Metrics) ObserveTelemetry(outcome string) {
	if m == nil {
		return
	}
	m.telemetryOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveFeedback counts one feedback submission result.
func (m *Metrics) ObserveFeedback(result string) {
	if m == nil {
		return
	}
	m.feedback.WithLabelValues(result).Inc()
}
