// Package metrics exports Prometheus counters and histograms for the page
// pipeline, lead intake, text generation and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "softwarescout"

// Metrics holds all service metrics, registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// Page pipeline
	PagesProcessed *prometheus.CounterVec

	// Lead intake
	LeadsSubmitted *prometheus.CounterVec
	LeadsRejected  *prometheus.CounterVec

	// Text generation
	TextGenCalls *prometheus.CounterVec

	// HTTP
	RequestDuration *prometheus.HistogramVec
}

// New creates the metric set on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		PagesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_processed_total",
			Help:      "Industry page work items by outcome (generated, skipped_existing, skipped_insufficient, errored)",
		}, []string{"outcome"}),
		LeadsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_submitted_total",
			Help:      "Leads stored, by software category",
		}, []string{"category"}),
		LeadsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_rejected_total",
			Help:      "Lead submissions rejected by validation, by field",
		}, []string{"field"}),
		TextGenCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "textgen_calls_total",
			Help:      "Text-generation calls by provider and result",
		}, []string{"provider", "result"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}
}

// PageOutcome counts one processed page work item
func (m *Metrics) PageOutcome(outcome string) {
	m.PagesProcessed.WithLabelValues(outcome).Inc()
}

// LeadSubmitted counts a stored lead
func (m *Metrics) LeadSubmitted(category string) {
	m.LeadsSubmitted.WithLabelValues(category).Inc()
}

// LeadRejected counts a lead that failed validation on field
func (m *Metrics) LeadRejected(field string) {
	m.LeadsRejected.WithLabelValues(field).Inc()
}

// TextGenCall counts a call to a text-generation provider
func (m *Metrics) TextGenCall(provider, result string) {
	m.TextGenCalls.WithLabelValues(provider, result).Inc()
}

// ObserveHTTP records the latency of one request
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
