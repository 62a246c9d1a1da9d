package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemdb_cache_hits_total",
			Help: "Total number of item document cache hits",
		},
		[]string{"layer"}, // "redis"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itemdb_cache_misses_total",
			Help: "Total number of item document cache misses",
		},
	)

	// CacheSize tracks cache size in bytes by layer
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "itemdb_cache_size_bytes",
			Help: "Current size of the item document cache in bytes",
		},
		[]string{"layer"}, // "redis"
	)

	// ConditionalRequestsSent tracks conditional revalidation requests
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itemdb_conditional_requests_total",
			Help: "Total number of conditional requests sent with If-None-Match",
		},
	)

	// NotModifiedResponses tracks 304 Not Modified responses
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "itemdb_304_responses_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itemdb_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
