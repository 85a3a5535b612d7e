// Package telemetry exposes Prometheus collectors for the research pipeline.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoutPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_pages_total",
			Help: "Total number of pages crawled, labeled by site and status.",
		},
		[]string{"site", "status"},
	)

	scoutSearchCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_search_calls_total",
			Help: "Total number of search collaborator calls, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	scoutRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scout_rows_total",
			Help: "Total number of entity rows processed, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	scoutServicesExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scout_services_extracted",
			Help:    "Distribution of service-list sizes per entity.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	scoutRateLimitDelaySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scout_rate_limit_delay_seconds",
			Help:    "Delay introduced by the per-domain rate limiter.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"site"},
	)

	scoutActiveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scout_active_workers",
			Help: "Number of row workers currently processing.",
		},
	)
)

// PageFetched records one crawled page.
func PageFetched(site string, statusCode int) {
	scoutPagesTotal.WithLabelValues(site, strconv.Itoa(statusCode)).Inc()
}

// SearchCall records one search collaborator call by outcome
// (ok, quota, auth, error).
func SearchCall(outcome string) {
	scoutSearchCallsTotal.WithLabelValues(outcome).Inc()
}

// RowProcessed records one finished row by outcome (completed, skipped).
func RowProcessed(outcome string) {
	scoutRowsTotal.WithLabelValues(outcome).Inc()
}

// ServicesExtracted records the size of one entity's service list.
func ServicesExtracted(count int) {
	scoutServicesExtracted.Observe(float64(count))
}

// ObserveRateLimitDelay records time spent waiting on the domain limiter.
func ObserveRateLimitDelay(site string, d time.Duration) {
	scoutRateLimitDelaySeconds.WithLabelValues(site).Observe(d.Seconds())
}

// WorkerStarted/WorkerDone track the active worker gauge.
func WorkerStarted() { scoutActiveWorkers.Inc() }

// WorkerDone decrements the active worker gauge.
func WorkerDone() { scoutActiveWorkers.Dec() }
