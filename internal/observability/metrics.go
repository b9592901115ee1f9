package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the submission pipeline and the
// indicator feed.
type Metrics struct {
	IssuesSubmitted    prometheus.Counter
	ValidationFailures prometheus.Counter
	PersistenceErrors  prometheus.Counter

	ArtifactRenders *prometheus.CounterVec // labels: outcome={success,not_found,error}

	IndicatorFetches      *prometheus.CounterVec // labels: source={aqi,gdp}, outcome={success,error}
	IndicatorCacheLookups *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.IssuesSubmitted,
		m.ValidationFailures,
		m.PersistenceErrors,
		m.ArtifactRenders,
		m.IndicatorFetches,
		m.IndicatorCacheLookups,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		IssuesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "civicdesk",
			Name:      "issues_submitted_total",
			Help:      "Total issues accepted and persisted.",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "civicdesk",
			Name:      "validation_failures_total",
			Help:      "Total submissions rejected at intake.",
		}),
		PersistenceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "civicdesk",
			Name:      "persistence_errors_total",
			Help:      "Total submissions that failed at the storage layer.",
		}),
		ArtifactRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civicdesk",
			Name:      "artifact_renders_total",
			Help:      "PDF render requests by outcome.",
		}, []string{"outcome"}),
		IndicatorFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civicdesk",
			Name:      "indicator_fetches_total",
			Help:      "Upstream indicator fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		IndicatorCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civicdesk",
			Name:      "indicator_cache_total",
			Help:      "Indicator snapshot cache lookups by result.",
		}, []string{"result"}),
	}
}
