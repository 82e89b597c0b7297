package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UpstreamFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trending_upstream_fetches_total",
			Help: "Total number of upstream news API fetches",
		},
		[]string{"source", "region", "result"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trending_cache_lookups_total",
			Help: "Total number of trending cache lookups",
		},
		[]string{"result"},
	)

	GeneratedEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generated_entries_total",
			Help: "Total number of generated entries recorded",
		},
	)
)
