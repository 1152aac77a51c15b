package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolutionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunedb_resolution_total",
			Help: "Total number of parameter resolutions by the knowledge base that answered",
		},
		[]string{"source"}, // apple-cpu-fallback, overlay, builtin, exhausted, error
	)

	resolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tunedb_resolution_duration_seconds",
			Help:    "Time taken to resolve tuning parameters for one kernel",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
	)

	cacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tunedb_cache_requests_total",
			Help: "Total number of cached builder lookups",
		},
		[]string{"result"}, // hit, miss, bypass
	)

	cacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tunedb_cache_evictions_total",
			Help: "Total number of cached resolutions evicted to stay within the size bound",
		},
	)
)
