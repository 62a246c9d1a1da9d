// Package cache provides optional Redis-backed caching of upstream item
// documents.
//
// The fetch job only persists items that turned out to have requirements;
// items the upstream knows nothing about are re-resolved on every run. The
// document cache sits in front of the upstream to absorb exactly that
// traffic:
//
// - Raw item documents cached with TTL from upstream caching headers
// - Negative entries for 404s (shorter TTL, items do get added upstream)
// - ETag support for conditional revalidation (If-None-Match)
// - Prometheus metrics for observability
// - Deterministic cache key generation
//
// The cache is entirely optional: jobs run without Redis configured and
// simply hit the upstream directly.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Get a cached item document
//	entry, err := manager.Get(ctx, cache.Key{ItemID: 11802})
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from upstream
//	}
//
// # HTTP Response Caching
//
//	// Convert HTTP response to cache entry
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//
//	// Store in cache
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Conditional Requests
//
//	// Revalidate a stale entry instead of refetching
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//		// Upstream returns 304 if the document is unchanged
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - itemdb_cache_hits_total{layer="redis"} - Cache hits
//   - itemdb_cache_misses_total - Cache misses
//   - itemdb_cache_size_bytes{layer="redis"} - Cache size
//   - itemdb_304_responses_total - Conditional request successes
//   - itemdb_cache_errors_total{operation} - Cache operation errors
package cache
