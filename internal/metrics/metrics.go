// Package metrics defines the Prometheus collectors shared by the
// reviewpanel binaries. Collectors register with the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeApplied   = "applied"
	OutcomeDiscarded = "discarded"
	OutcomeError     = "error"
	OutcomeOK        = "ok"
	OutcomeFallback  = "fallback"
)

var (
	// HTTPRequests counts served HTTP requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewpanel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// HTTPDuration observes HTTP request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reviewpanel_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	// PollFetches counts completed feed fetches by outcome.
	PollFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewpanel_poll_fetches_total",
			Help: "Completed submission list fetches by outcome (applied, discarded, error)",
		},
		[]string{"outcome"},
	)

	// InsightRequests counts resolved group summary requests by outcome.
	InsightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewpanel_insight_requests_total",
			Help: "Resolved star summary requests by outcome (ok, fallback, discarded)",
		},
		[]string{"outcome"},
	)

	// LLMRequests counts generateContent calls by outcome.
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewpanel_llm_requests_total",
			Help: "LLM generateContent calls by outcome (ok, error)",
		},
		[]string{"model", "outcome"},
	)

	// LLMDuration observes LLM call latency.
	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reviewpanel_llm_request_duration_seconds",
			Help:    "LLM generateContent latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"model"},
	)

	// BreakerState reports circuit breaker state (0=closed, 1=half-open, 2=open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reviewpanel_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Submissions counts stored review submissions by rating.
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewpanel_submissions_total",
			Help: "Stored review submissions by star rating",
		},
		[]string{"rating"},
	)
)
