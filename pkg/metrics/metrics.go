// Package metrics holds the Prometheus collectors recorded during an
// extraction run. Collectors live on a private registry so that a batch run
// can dump them to a node-exporter textfile when it finishes.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Business outcomes.
const (
	OutcomeContact   = "contact"
	OutcomeNoContact = "no_contact"
	OutcomeSkipped   = "skipped"
)

// Page fetch outcomes; failures use the lower-cased serrors kind name.
const (
	OutcomeOK = "ok"
)

// Metrics groups the collectors of one run.
type Metrics struct {
	registry *prometheus.Registry

	// Businesses counts processed businesses by outcome.
	Businesses *prometheus.CounterVec
	// PageFetches counts page fetch attempts by outcome.
	PageFetches *prometheus.CounterVec
	// PageFetchDuration observes the duration of successful page fetches.
	PageFetchDuration prometheus.Histogram
	// EmailsFound counts cleaned emails across all businesses.
	EmailsFound prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Businesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_businesses_total",
			Help: "Total number of processed businesses, labeled by outcome.",
		}, []string{"outcome"}),
		PageFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "extractor_page_fetches_total",
			Help: "Total number of page fetch attempts, labeled by outcome.",
		}, []string{"outcome"}),
		PageFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "extractor_page_fetch_duration_seconds",
			Help:    "Duration of successful page fetches in seconds.",
			Buckets: DefaultBuckets,
		}),
		EmailsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "extractor_emails_found_total",
			Help: "Total number of valid emails retained across all businesses.",
		}),
	}

	m.registry.MustRegister(m.Businesses, m.PageFetches, m.PageFetchDuration, m.EmailsFound)

	return m
}

// Gatherer exposes the registry, mostly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all collected metrics in the Prometheus text format
// to path, atomically replacing any previous file.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}
