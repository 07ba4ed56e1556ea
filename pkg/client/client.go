// Package client provides the HTTP client for the DataSaudi tesseract API,
// with response caching and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/ksa-population/pkg/cache"
	"github.com/Sternrassler/ksa-population/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for tesseract client operations.
var (
	factory = promauto.With(metrics.Registry)

	requestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "tesseract_requests_total",
		Help: "Total tesseract requests by cube and status",
	}, []string{"cube", "status"})

	requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tesseract_request_duration_seconds",
		Help:    "Tesseract request duration in seconds by cube",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"cube"})

	errorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "tesseract_errors_total",
		Help: "Total tesseract errors by class",
	}, []string{"class"})
)

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 512

// Response is a decoded tesseract data response.
type Response struct {
	// Data holds one JSON object per row.
	Data []json.RawMessage `json:"data"`

	// Page is present on paged responses.
	Page *PageInfo `json:"page,omitempty"`
}

// PageInfo is the paging block of a response.
type PageInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Client is the tesseract API client.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.datasaudi.sa"
	BaseURL string

	// UserAgent header sent with every request
	UserAgent string

	// Timeout bounds each request, including reading the body
	Timeout time.Duration

	// Cache is optional; nil disables response caching
	Cache *cache.Manager
}

// DefaultConfig returns the production configuration without a cache.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "https://api.datasaudi.sa",
		UserAgent: "ksa-population/1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a new tesseract client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		cache:   cfg.Cache,
		config:  cfg,
		logger:  log.With().Str("component", "tesseract-client").Logger(),
	}, nil
}

// Get fetches and decodes one tesseract response. Errors are *APIError
// values matching ErrNetwork, ErrHTTPStatus or ErrMalformedResponse.
func (c *Client) Get(ctx context.Context, q Query) (*Response, error) {
	params := q.Values()
	key := c.cacheKey(q.Cube, params)

	if resp, ok := c.fromCache(ctx, key); ok {
		return resp, nil
	}

	body, err := c.fetch(ctx, q.Cube, params)
	if err != nil {
		return nil, err
	}

	resp, err := decodeResponse(q.Cube, body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassMalformed)).Inc()
		c.logger.Error().Err(err).Str("cube", q.Cube).Msg("Malformed tesseract response")
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Store(ctx, key, body); err != nil {
			c.logger.Warn().Err(err).Str("cube", q.Cube).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("key", key.String()).
				Dur("ttl", c.cache.TTL()).
				Msg("Cached response")
		}
	}

	return resp, nil
}

// cacheKey scopes cached responses to the configured API host.
func (c *Client) cacheKey(cube string, params url.Values) cache.CacheKey {
	return cache.CacheKey{Host: c.baseURL.Host, Cube: cube, QueryParams: params}
}

// fromCache returns a cached response. Any cache problem is treated as a
// miss so the request goes to the API.
func (c *Client) fromCache(ctx context.Context, key cache.CacheKey) (*Response, bool) {
	if c.cache == nil {
		return nil, false
	}

	entry, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("cube", key.Cube).Msg("Cache get error")
		}
		return nil, false
	}

	resp, err := decodeResponse(key.Cube, entry.Data)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key.String()).Msg("Discarding undecodable cache entry")
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}

	c.logger.Debug().Str("key", key.String()).Msg("Cache hit")
	requestsTotal.WithLabelValues(key.Cube, "cached").Inc()
	return resp, true
}

// fetch performs the GET request and returns the body of a 2xx response.
func (c *Client) fetch(ctx context.Context, cube string, params url.Values) ([]byte, error) {
	u := c.baseURL.JoinPath(DataPath)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(cube).Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("cube", cube).
		Str("limit", params.Get("limit")).
		Msg("Executing tesseract request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(cube, "network_error").Inc()
		c.logger.Error().Err(err).Str("cube", cube).Msg("HTTP request failed")
		return nil, &APIError{
			Class:   ErrorClassNetwork,
			Cube:    cube,
			Message: "request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(cube, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		errorsTotal.WithLabelValues(string(ErrorClassHTTPStatus)).Inc()
		c.logger.Warn().
			Str("cube", cube).
			Int("status", resp.StatusCode).
			Msg("Tesseract request error")

		msg := resp.Status
		if s := strings.TrimSpace(string(snippet)); s != "" {
			msg += ": " + s
		}
		return nil, &APIError{
			Class:      ErrorClassHTTPStatus,
			StatusCode: resp.StatusCode,
			Cube:       cube,
			Message:    msg,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &APIError{
			Class:      ErrorClassNetwork,
			StatusCode: resp.StatusCode,
			Cube:       cube,
			Message:    "read response body",
			Err:        err,
		}
	}

	return body, nil
}

// decodeResponse parses a response body, requiring the data array.
func decodeResponse(cube string, body []byte) (*Response, error) {
	var raw struct {
		Data *[]json.RawMessage `json:"data"`
		Page *PageInfo          `json:"page"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &APIError{
			Class:   ErrorClassMalformed,
			Cube:    cube,
			Message: "decode JSON body",
			Err:     err,
		}
	}
	if raw.Data == nil {
		return nil, &APIError{
			Class:   ErrorClassMalformed,
			Cube:    cube,
			Message: `missing "data" field`,
		}
	}
	return &Response{Data: *raw.Data, Page: raw.Page}, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
