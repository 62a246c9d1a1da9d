// Package itemdb provides the HTTP client for the osrsreboxed community
// item database, with not-found aware outcome classification and optional
// Redis-backed document caching.
package itemdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/osrskit/equipment-requirements/pkg/cache"
	"github.com/osrskit/equipment-requirements/pkg/store"
)

// Prometheus metrics for item database lookups.
var (
	itemdbRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itemdb_requests_total",
		Help: "Total item database requests by status",
	}, []string{"status"})

	itemdbRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "itemdb_request_duration_seconds",
		Help:    "Item database request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	itemdbErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "itemdb_errors_total",
		Help: "Total item database lookup errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the raw-file host serving per-item JSON documents.
const DefaultBaseURL = "https://raw.githubusercontent.com/0xNeffarion/osrsreboxed-db/refs/heads/master/docs/items-json"

// DefaultTimeout is the per-call timeout for item lookups.
const DefaultTimeout = 10 * time.Second

// Client is the item database client.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the per-item JSON documents (no trailing slash).
	BaseURL string

	// User-Agent identifier sent on every call (REQUIRED). The upstream is
	// a shared community resource; identify yourself.
	UserAgent string

	// Timeout per item lookup.
	Timeout time.Duration

	// Redis enables the optional document cache when non-nil.
	Redis *redis.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   DefaultTimeout,
	}
}

// New creates a new item database client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := log.With().Str("component", "itemdb-client").Logger()

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cacheManager,
		config: cfg,
		logger: logger,
	}, nil
}

// itemDocument is the slice of the upstream per-item document we care
// about. Requirement records are carried through opaquely.
type itemDocument struct {
	Equipment *struct {
		Requirements []store.Requirement `json:"requirements"`
	} `json:"equipment"`
}

// FetchRequirements looks up the requirement records for a single item.
// The outcome is always a Result, never a fatal error: a 404 or a document
// without requirements is NotFound, anything unexpected is Failed.
func (c *Client) FetchRequirements(ctx context.Context, itemID int) Result {
	startTime := time.Now()
	defer func() {
		itemdbRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: Check the document cache
	cacheKey := cache.Key{ItemID: itemID}
	var staleEntry *cache.Entry

	if c.cache != nil {
		entry, err := c.cache.GetStale(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Int("item_id", itemID).Msg("Cache get error")
		}
		if entry != nil {
			if !entry.IsExpired() {
				c.logger.Debug().Int("item_id", itemID).Msg("Serving item document from cache")
				return c.resultFromEntry(itemID, entry)
			}
			staleEntry = entry
		}
	}

	// Step 2: Build the request
	url := fmt.Sprintf("%s/%d.json", c.config.BaseURL, itemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Failed(itemID, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	// Step 3: Revalidate a stale cached document when possible
	if cache.ShouldMakeConditionalRequest(staleEntry) {
		cache.AddConditionalHeaders(req, staleEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Int("item_id", itemID).
			Str("etag", staleEntry.ETag).
			Msg("Making conditional request")
	}

	// Step 4: Execute
	resp, err := c.httpClient.Do(req)
	if err != nil {
		itemdbErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		itemdbRequestsTotal.WithLabelValues("network_error").Inc()
		return Failed(itemID, &UpstreamError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		})
	}
	defer resp.Body.Close()

	itemdbRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusNotModified && staleEntry != nil:
		// Stale document is still current upstream. An unsolicited 304
		// (no conditional request was sent) falls through to the failure
		// classification below.
		cache.NotModifiedResponses.Inc()
		c.logger.Debug().Int("item_id", itemID).Msg("304 Not Modified - reusing cached document")
		c.refreshEntry(ctx, cacheKey, staleEntry, resp)
		return c.resultFromEntry(itemID, staleEntry)

	case resp.StatusCode == http.StatusNotFound:
		// Item not in the upstream database. Valid no-data outcome.
		c.storeNotFound(ctx, cacheKey)
		return NotFound(itemID)

	case resp.StatusCode != http.StatusOK:
		errClass := classifyStatus(resp.StatusCode)
		itemdbErrorsTotal.WithLabelValues(string(errClass)).Inc()
		return Failed(itemID, &UpstreamError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		})
	}

	// Step 5: Cache and parse the document
	if c.cache != nil {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Int("item_id", itemID).Msg("Failed to create cache entry")
		} else if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Int("item_id", itemID).Msg("Failed to cache item document")
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		itemdbErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return Failed(itemID, &UpstreamError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		})
	}

	return c.parseDocument(itemID, body)
}

// parseDocument extracts requirement records from an item document.
// A document without a non-empty equipment.requirements list is a valid
// no-data outcome.
func (c *Client) parseDocument(itemID int, body []byte) Result {
	var doc itemDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		itemdbErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return Failed(itemID, &UpstreamError{
			StatusCode: http.StatusOK,
			ErrorClass: ErrorClassDecode,
			Message:    "malformed item document",
			Err:        err,
		})
	}

	if doc.Equipment == nil || len(doc.Equipment.Requirements) == 0 {
		return NotFound(itemID)
	}

	return Found(itemID, doc.Equipment.Requirements)
}

// resultFromEntry turns a cached document into a lookup result.
func (c *Client) resultFromEntry(itemID int, entry *cache.Entry) Result {
	if entry.NotFound {
		return NotFound(itemID)
	}
	return c.parseDocument(itemID, entry.Data)
}

// refreshEntry extends the freshness of a revalidated cache entry.
func (c *Client) refreshEntry(ctx context.Context, key cache.Key, entry *cache.Entry, resp *http.Response) {
	if c.cache == nil || entry == nil {
		return
	}

	newExpires := time.Now().Add(cache.DefaultTTL)
	if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
		if parsed, err := http.ParseTime(expiresStr); err == nil && parsed.After(time.Now()) {
			newExpires = parsed
		}
	}

	if err := c.cache.UpdateTTL(ctx, key, newExpires); err != nil && err != cache.ErrCacheMiss {
		c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
	}
}

// storeNotFound records a negative cache entry for an absent item.
func (c *Client) storeNotFound(ctx context.Context, key cache.Key) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, cache.NotFoundEntry()); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache negative entry")
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
