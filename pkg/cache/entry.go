// Package cache provides an optional Redis-backed cache for upstream item
// documents, with ETag support for conditional revalidation.
package cache

import (
	"net/http"
	"time"
)

// Entry is a cached upstream item document.
type Entry struct {
	// Data is the raw JSON document body. Empty for a negative entry
	// (the upstream answered 404 for this item).
	Data []byte `json:"data,omitempty"`

	// NotFound marks a negative entry.
	NotFound bool `json:"not_found,omitempty"`

	// ETag for conditional requests (If-None-Match).
	ETag string `json:"etag,omitempty"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// StatusCode is the HTTP status of the cached response.
	StatusCode int `json:"status_code"`

	// Headers are the upstream response headers.
	Headers http.Header `json:"headers,omitempty"`

	// CachedAt is when the document was cached.
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the entry is stale.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
