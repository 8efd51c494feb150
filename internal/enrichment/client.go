package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/birdscan/birdscan-go/internal/errors"
	"github.com/birdscan/birdscan-go/internal/logging"
)

// Package-level logger specific to the enrichment service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar) // Dynamic level control
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "enrichment.log")
	serviceLevelVar.Set(slog.LevelDebug)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "enrichment", serviceLevelVar)
	if err != nil {
		// Fallback: Log error to standard log and disable service file logging
		log.Printf("FATAL: Failed to initialize enrichment file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "enrichment")
		closeLogger = func() error { return nil }
	}
}

// Client talks to the eBird API v2. The full taxonomy payload lives in its
// own cache with a stale-serving policy; observation feeds use a regular
// expiring cache. Requests are not retried: a slow or flaky provider must
// never stall an identification request, the caller falls back instead.
type Client struct {
	config     Config
	httpClient *http.Client
	taxonomy   *taxonomyCache
	obsCache   *cache.Cache

	// Metrics
	metrics struct {
		apiCalls      int64
		cacheHits     int64
		cacheMisses   int64
		apiErrors     int64
		staleServes   int64
		totalDuration time.Duration
		mu            sync.RWMutex
	}
}

// NewClient creates a new enrichment client. A missing API key is not fatal:
// requests will fail and callers degrade to the offline knowledge base.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultConfig().CacheTTL
	}
	if config.Region == "" {
		config.Region = DefaultConfig().Region
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = DefaultConfig().ConnectTimeout
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = DefaultConfig().ReadTimeout
	}

	if config.APIKey == "" {
		logger.Warn("No eBird API key configured, live enrichment disabled")
	}

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: config.ConnectTimeout,
				}).DialContext,
				ResponseHeaderTimeout: config.ReadTimeout,
			},
			Timeout: config.ConnectTimeout + config.ReadTimeout,
		},
		taxonomy: newTaxonomyCache(config.CacheTTL, time.Now),
		obsCache: cache.New(config.CacheTTL, config.CacheTTL*2),
	}

	logger.Info("Enrichment client initialized",
		"base_url", config.BaseURL,
		"cache_ttl", config.CacheTTL,
		"region", config.Region,
		"api_key_configured", config.APIKey != "")

	return client
}

// Close cleans up client resources.
func (c *Client) Close() {
	logger.Info("Closing enrichment client")
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing enrichment logger: %v", err)
		}
	}
}

// Taxonomy returns the complete eBird taxonomy. Within TTL the cached payload
// is returned. On a failed refresh a stale payload is served indefinitely;
// the error surfaces only when no payload was ever fetched.
func (c *Client) Taxonomy(ctx context.Context) ([]TaxonomyEntry, error) {
	if entries, ok := c.taxonomy.Fresh(); ok {
		c.metrics.mu.Lock()
		c.metrics.cacheHits++
		c.metrics.mu.Unlock()

		logger.Debug("Taxonomy cache hit", "entries", len(entries))
		return entries, nil
	}

	c.metrics.mu.Lock()
	c.metrics.cacheMisses++
	c.metrics.mu.Unlock()

	url := fmt.Sprintf("%s/ref/taxonomy/ebird?fmt=json", c.config.BaseURL)

	var entries []TaxonomyEntry
	if err := c.doRequest(ctx, url, &entries); err != nil {
		if stale, ok := c.taxonomy.Stale(); ok {
			c.metrics.mu.Lock()
			c.metrics.staleServes++
			c.metrics.mu.Unlock()

			logger.Warn("Taxonomy refresh failed, serving stale payload",
				"error", err,
				"age", c.taxonomy.Age().String(),
				"entries", len(stale))
			return stale, nil
		}
		return nil, err
	}

	c.taxonomy.Store(entries)
	logger.Debug("Taxonomy cached", "entries", len(entries))

	return entries, nil
}

// FindSpecies looks a species up in the taxonomy by name. Match order: exact
// common name, exact scientific name, substring of common name, substring of
// scientific name. The returned SearchType is scientific only for an exact
// scientific name match.
func (c *Client) FindSpecies(ctx context.Context, name string) (*TaxonomyEntry, SearchType, error) {
	entries, err := c.Taxonomy(ctx)
	if err != nil {
		return nil, SearchTypeUnknown, err
	}

	needle := strings.ToLower(name)

	for i := range entries {
		if strings.ToLower(entries[i].CommonName) == needle {
			return &entries[i], SearchTypeCommon, nil
		}
	}
	for i := range entries {
		if strings.ToLower(entries[i].ScientificName) == needle {
			return &entries[i], SearchTypeScientific, nil
		}
	}
	for i := range entries {
		if strings.Contains(strings.ToLower(entries[i].CommonName), needle) {
			return &entries[i], SearchTypeCommon, nil
		}
	}
	for i := range entries {
		if strings.Contains(strings.ToLower(entries[i].ScientificName), needle) {
			return &entries[i], SearchTypeCommon, nil
		}
	}

	return nil, SearchTypeUnknown, errors.Newf("species not found in taxonomy: %s", name).
		Category(errors.CategoryNotFound).
		Context("species_name", name).
		Component("enrichment").
		Build()
}

// RecentObservations returns recent sightings of a species in the configured
// region, covering the last week.
func (c *Client) RecentObservations(ctx context.Context, speciesCode string) ([]Observation, error) {
	cacheKey := fmt.Sprintf("obs:%s:%s", c.config.Region, speciesCode)

	if cached, found := c.obsCache.Get(cacheKey); found {
		if observations, ok := cached.([]Observation); ok {
			c.metrics.mu.Lock()
			c.metrics.cacheHits++
			c.metrics.mu.Unlock()
			return observations, nil
		}
	}

	c.metrics.mu.Lock()
	c.metrics.cacheMisses++
	c.metrics.mu.Unlock()

	url := fmt.Sprintf("%s/data/obs/%s/recent/%s?back=%d&maxResults=%d",
		c.config.BaseURL, c.config.Region, speciesCode,
		observationDaysBack, observationMaxResults)

	var observations []Observation
	if err := c.doRequest(ctx, url, &observations); err != nil {
		return nil, err
	}

	c.obsCache.Set(cacheKey, observations, cache.DefaultExpiration)

	return observations, nil
}

// doRequest performs an authenticated GET and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	start := time.Now()

	c.metrics.mu.Lock()
	c.metrics.apiCalls++
	c.metrics.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()
		return errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("enrichment").
			Build()
	}

	req.Header.Set("X-eBirdApiToken", c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()

		logger.Error("eBird API request failed", "error", err, "url", url)
		return errors.Newf("HTTP request failed: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Component("enrichment").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", url).
			Context("status_code", resp.StatusCode).
			Component("enrichment").
			Build()
	}

	if resp.StatusCode >= 400 {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()

		var apiErr Error
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Detail != "" {
			apiErr.Status = resp.StatusCode
			logger.Warn("eBird API error response",
				"status_code", resp.StatusCode,
				"error_title", apiErr.Title,
				"error_detail", apiErr.Detail,
				"url", url)
			return errors.Newf("eBird API error: %s", apiErr.Detail).
				Category(statusCategory(resp.StatusCode)).
				Context("status_code", resp.StatusCode).
				Context("url", url).
				Component("enrichment").
				Build()
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			logger.Error("eBird API authentication failed",
				"status_code", resp.StatusCode,
				"url", url,
				"has_api_key", c.config.APIKey != "")
		} else {
			logger.Error("eBird API error",
				"status_code", resp.StatusCode,
				"url", url)
		}
		return errors.Newf("eBird API error (status %d)", resp.StatusCode).
			Category(statusCategory(resp.StatusCode)).
			Context("status_code", resp.StatusCode).
			Context("url", url).
			Component("enrichment").
			Build()
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			logger.Error("Failed to parse eBird API response",
				"error", err,
				"url", url,
				"response_size", len(bodyBytes))
			return errors.Newf("failed to parse response: %w", err).
				Category(errors.CategoryFileParsing).
				Context("url", url).
				Component("enrichment").
				Build()
		}
	}

	duration := time.Since(start)

	c.metrics.mu.Lock()
	c.metrics.totalDuration += duration
	c.metrics.mu.Unlock()

	logger.Debug("eBird API request successful",
		"url", url,
		"duration_ms", duration.Milliseconds(),
		"response_size", len(bodyBytes))

	return nil
}

// Metrics represents enrichment client performance counters.
type Metrics struct {
	APICalls      int64         `json:"api_calls"`
	CacheHits     int64         `json:"cache_hits"`
	CacheMisses   int64         `json:"cache_misses"`
	APIErrors     int64         `json:"api_errors"`
	StaleServes   int64         `json:"stale_serves"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// GetMetrics returns current client metrics.
func (c *Client) GetMetrics() Metrics {
	c.metrics.mu.RLock()
	defer c.metrics.mu.RUnlock()

	metrics := Metrics{
		APICalls:      c.metrics.apiCalls,
		CacheHits:     c.metrics.cacheHits,
		CacheMisses:   c.metrics.cacheMisses,
		APIErrors:     c.metrics.apiErrors,
		StaleServes:   c.metrics.staleServes,
		TotalDuration: c.metrics.totalDuration,
	}
	if metrics.APICalls > 0 {
		metrics.AvgDuration = time.Duration(int64(metrics.TotalDuration) / metrics.APICalls)
	}
	return metrics
}

// statusCategory maps an HTTP status code to an error category.
func statusCategory(statusCode int) errors.ErrorCategory {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.CategoryConfiguration
	case http.StatusNotFound:
		return errors.CategoryNotFound
	default:
		return errors.CategoryNetwork
	}
}
