// Package testutil provides testing utilities for the equipment
// requirements jobs.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock item database response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockItemDB is a configurable mock of the raw-file host serving per-item
// JSON documents. Unknown paths answer 404, matching the upstream.
type MockItemDB struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	ConditionalCount  int
	requestsPerPath   map[string]int
	LastRequestHeader http.Header
}

// NewMockItemDB creates a new mock item database server.
func NewMockItemDB() *MockItemDB {
	mock := &MockItemDB{
		handlers:        make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requestsPerPath: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.requestsPerPath[r.URL.Path]++
		mock.LastRequestHeader = r.Header.Clone()

		if r.Header.Get("If-None-Match") != "" {
			mock.ConditionalCount++
		}
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Upstream default: unknown item ids are plain 404s
		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL, usable as the client base URL.
func (m *MockItemDB) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockItemDB) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockItemDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.requestsPerPath = make(map[string]int)
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockItemDB) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockItemDB) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetItemDocument configures the document served for an item id.
func (m *MockItemDB) SetItemDocument(itemID int, body string) {
	m.SetResponse(itemPath(itemID), MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	})
}

// SetItemRequirements configures an item document whose equipment object
// carries the given raw requirements JSON array.
func (m *MockItemDB) SetItemRequirements(itemID int, requirementsJSON string) {
	body := fmt.Sprintf(`{"id": %d, "equipment": {"requirements": %s}}`, itemID, requirementsJSON)
	m.SetItemDocument(itemID, body)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockItemDB) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetItemRequestCount returns the number of requests made for an item id.
func (m *MockItemDB) GetItemRequestCount(itemID int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestsPerPath[itemPath(itemID)]
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockItemDB) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

func itemPath(itemID int) string {
	return fmt.Sprintf("/%d.json", itemID)
}

// NewItemResponse creates a 200 response with an ETag, so conditional
// revalidation paths can be exercised.
func NewItemResponse(body, etag string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"ETag":         etag,
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewConditionalHandler creates a handler that answers 304 when the
// request carries a matching If-None-Match, and the full document
// otherwise.
func NewConditionalHandler(etag string, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
