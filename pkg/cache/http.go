package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTTL is the fallback TTL when the upstream sends no caching
	// headers. Item documents change rarely, so a day is conservative.
	DefaultTTL = 24 * time.Hour

	// NotFoundTTL is the TTL for negative entries. Items do get added to
	// the upstream database, so 404s are remembered for less time.
	NotFoundTTL = 6 * time.Hour
)

// ResponseToEntry converts an HTTP response to a cache Entry.
// It parses caching headers and reads the response body; the body is
// restored on the response for the caller.
func ResponseToEntry(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	// Restore body for caller
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := &Entry{
		Data:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		CachedAt:   time.Now(),
	}

	entry.Expires = parseExpires(resp.Header, DefaultTTL)

	return entry, nil
}

// NotFoundEntry builds a negative entry for an item the upstream has no
// document for.
func NotFoundEntry() *Entry {
	now := time.Now()
	return &Entry{
		NotFound:   true,
		StatusCode: http.StatusNotFound,
		Expires:    now.Add(NotFoundTTL),
		CachedAt:   now,
	}
}

// parseExpires parses the Expires header, falling back to now + fallback
// when absent or unparseable.
func parseExpires(headers http.Header, fallback time.Duration) time.Time {
	expiresStr := headers.Get("Expires")
	if expiresStr == "" {
		return time.Now().Add(fallback)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return time.Now().Add(fallback)
	}

	if expires.Before(time.Now()) {
		// Already expired - use minimal TTL
		return time.Now()
	}

	return expires
}

// ShouldMakeConditionalRequest determines if the stale entry can be
// revalidated with an If-None-Match header instead of a full refetch.
func ShouldMakeConditionalRequest(entry *Entry) bool {
	if entry == nil {
		return false
	}
	return entry.ETag != ""
}

// AddConditionalHeaders adds the If-None-Match header to the request when
// the cache entry carries an ETag.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}

	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	}
}
