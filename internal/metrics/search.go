package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "assetdex"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of searches",
		},
		[]string{"order", "outcome"}, // outcome: "hits" / "no_matches"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Corpus scan duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	SearchResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_result_size",
			Help:      "Number of hits per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	SearchToleratedFiltersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_tolerated_filters_total",
			Help:      "Malformed filters evaluated as match-nothing",
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SessionSubmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_submissions_total",
			Help:      "Queries submitted to search sessions",
		},
	)

	SessionCompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_completions_total",
			Help:      "Session evaluations by delivery status",
		},
		[]string{"status"}, // "delivered" / "superseded" / "failed"
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Search sessions held by the registry",
		},
	)
)

var registerOnce sync.Once

// Register registers every assetdex collector with the default registry. Call once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchDuration,
			SearchResultSize,
			SearchToleratedFiltersTotal,
			SearchCacheTotal,
			SessionSubmissionsTotal,
			SessionCompletionsTotal,
			SessionsActive,
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
		)
	})
}
