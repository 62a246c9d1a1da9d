// Package metrics provides the centralized Prometheus metrics registry for
// the equipment-requirements jobs. All metrics are defined in their
// respective packages (itemdb, cache, ratelimit, fetcher) to maintain
// modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the jobs.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/itemdb):
//   - itemdb_requests_total{status} (Counter): Total upstream requests by HTTP status
//   - itemdb_request_duration_seconds (Histogram): Per-item lookup duration
//   - itemdb_errors_total{class} (Counter): Lookup errors by class (client, server, network, decode)
//
// Fetch Metrics (pkg/fetcher):
//   - itemdb_fetch_results_total{outcome} (Counter): Per-item results by outcome (found, not_found, failed)
//
// Cache Metrics (pkg/cache):
//   - itemdb_cache_hits_total{layer="redis"} (Counter): Document cache hits
//   - itemdb_cache_misses_total (Counter): Document cache misses
//   - itemdb_cache_size_bytes{layer="redis"} (Gauge): Document cache size in bytes
//   - itemdb_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - itemdb_304_responses_total (Counter): 304 Not Modified responses
//   - itemdb_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pacing Metrics (pkg/ratelimit):
//   - itemdb_pacing_waits_total (Counter): Inter-batch pacing waits
//   - itemdb_pacing_wait_seconds_total (Counter): Total time spent pacing
//
// Example Prometheus Queries:
//
//   # Share of items that turned out to have requirements
//   sum(rate(itemdb_fetch_results_total{outcome="found"}[5m])) /
//   sum(rate(itemdb_fetch_results_total[5m]))
//
//   # Cache hit rate
//   sum(rate(itemdb_cache_hits_total[5m])) /
//   (sum(rate(itemdb_cache_hits_total[5m])) + sum(rate(itemdb_cache_misses_total[5m])))
//
//   # Lookup error rate
//   rate(itemdb_errors_total[5m])
//
//   # P95 lookup latency
//   histogram_quantile(0.95, rate(itemdb_request_duration_seconds_bucket[5m]))
