// Package metrics bundles the Prometheus collectors shared by the crawl,
// catalog and download tools. All increment helpers are nil-safe so
// library code can run without a metrics sink.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics registers every collector on a dedicated registry so tests and
// multiple commands never clash on the global one.
type Metrics struct {
	Registry            *prometheus.Registry
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     prometheus.Histogram
	PageCacheHitsTotal  prometheus.Counter
	DecisionsTotal      *prometheus.CounterVec
	LinksExtractedTotal prometheus.Counter
	DownloadsTotal      *prometheus.CounterVec
	ErrorsTotal         *prometheus.CounterVec
}

// New constructs and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fetch_requests_total",
			Help: "Total HTTP requests issued, by outcome.",
		},
		[]string{"outcome"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fetch_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_hits_total",
			Help: "Page fetches served from the in-memory cache.",
		},
	)
	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_decisions_total",
			Help: "Staleness decisions taken per subcategory.",
		},
		[]string{"decision"},
	)
	links := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "data_links_extracted_total",
			Help: "Data file links extracted from subcategory pages.",
		},
	)
	downloads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "downloads_total",
			Help: "Data file downloads, by outcome.",
		},
		[]string{"outcome"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Errors encountered, by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, cacheHits, decisions, links, downloads, errorsTotal)

	return &Metrics{
		Registry:            registry,
		RequestsTotal:       requests,
		RequestDuration:     requestDuration,
		PageCacheHitsTotal:  cacheHits,
		DecisionsTotal:      decisions,
		LinksExtractedTotal: links,
		DownloadsTotal:      downloads,
		ErrorsTotal:         errorsTotal,
	}
}

// IncRequest increments the requests counter for an outcome label.
func (m *Metrics) IncRequest(outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncCacheHit increments the page cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.PageCacheHitsTotal.Inc()
}

// IncDecision increments the decision counter for a decision label.
func (m *Metrics) IncDecision(decision string) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(decision).Inc()
}

// AddLinks adds n to the extracted data links counter.
func (m *Metrics) AddLinks(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.LinksExtractedTotal.Add(float64(n))
}

// IncDownload increments the downloads counter for an outcome label.
func (m *Metrics) IncDownload(outcome string) {
	if m == nil {
		return
	}
	m.DownloadsTotal.WithLabelValues(outcome).Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
