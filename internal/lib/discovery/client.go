// Package discovery fetches the service's name and version from its
// discovery endpoint.
//
// Lookups never fail: any problem (network error, timeout, non-2xx status,
// malformed body) is logged and replaced by fixed placeholder values.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/shipping/internal/config"
)

const (
	UnknownApp     = "Unknown App"
	UnknownVersion = "Unknown Version"

	cacheKey = "shipping:discovery:app_details"

	maxResponseBytes = 64 << 10
)

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AppDetails is the identity reported by the discovery endpoint.
type AppDetails struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Unknown returns the placeholder details used when discovery fails.
func Unknown() AppDetails {
	return AppDetails{Name: UnknownApp, Version: UnknownVersion}
}

// Client looks up AppDetails, each lookup attempted once with a fixed timeout.
// Successful lookups are cached in Redis when a cache is configured.
type Client struct {
	url      string
	timeout  time.Duration
	cacheTTL time.Duration
	http     HTTPDoer
	cache    redis.Cmdable
	logger   *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithCache enables caching of successful lookups. A nil cache is ignored.
func WithCache(cache redis.Cmdable) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates a discovery client from cfg.
func NewClient(cfg config.DiscoveryConfig, logger *zerolog.Logger, opts ...Option) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	c := &Client{
		url:      cfg.URL,
		timeout:  cfg.Timeout,
		cacheTTL: cfg.CacheTTL,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newrelic.NewRoundTripper(nil),
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AppDetails returns the service name and version, or Unknown() when they
// cannot be obtained.
func (c *Client) AppDetails(ctx context.Context) AppDetails {
	if details, ok := c.cached(ctx); ok {
		return details
	}

	details, complete, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("url", c.url).
			Msg("error fetching app details for error reporting")
		return Unknown()
	}

	if complete {
		c.store(ctx, details)
	}

	return details
}

// fetch calls the discovery endpoint once. complete is false when the payload
// lacked name or version and placeholders were substituted.
func (c *Client) fetch(ctx context.Context) (details AppDetails, complete bool, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return AppDetails{}, false, fmt.Errorf("build discovery request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return AppDetails{}, false, fmt.Errorf("call discovery endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return AppDetails{}, false, fmt.Errorf("discovery endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return AppDetails{}, false, fmt.Errorf("read discovery response: %w", err)
	}

	var payload struct {
		Name    *string `json:"name"`
		Version *string `json:"version"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return AppDetails{}, false, fmt.Errorf("decode discovery response: %w", err)
	}

	// Keys missing from an otherwise valid payload fall back individually.
	details = Unknown()
	if payload.Name != nil {
		details.Name = *payload.Name
	}
	if payload.Version != nil {
		details.Version = *payload.Version
	}

	return details, payload.Name != nil && payload.Version != nil, nil
}

func (c *Client) cached(ctx context.Context) (AppDetails, bool) {
	if c.cache == nil {
		return AppDetails{}, false
	}

	raw, err := c.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("discovery cache read failed")
		}
		return AppDetails{}, false
	}

	var details AppDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		c.logger.Warn().Err(err).Msg("discovery cache entry is corrupt")
		return AppDetails{}, false
	}

	return details, true
}

func (c *Client) store(ctx context.Context, details AppDetails) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, cacheKey, raw, c.cacheTTL).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("discovery cache write failed")
	}
}
