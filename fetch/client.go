// Package fetch provides the HTTP client shared by the catalog and
// download tools: explicit transport, typed error classification and an
// in-memory TTL cache for pages that several subcategories re-read.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hagtolur/talnaefni/metrics"
)

// Config carries the HTTP client settings.
type Config struct {
	Timeout         time.Duration
	UserAgent       string
	InsecureSkipTLS bool
	CacheSize       int
	CacheTTL        time.Duration
}

// Response is a completed fetch. Header is kept so callers can read
// Content-Disposition when saving files.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client issues GET requests with classification and caching. The cache
// holds raw page bodies keyed by URL; a refresh pass over many stale
// subcategories re-reads the statistics root once over the network and
// serves the rest from memory.
type Client struct {
	http      *http.Client
	userAgent string
	cache     *expirable.LRU[string, []byte]
	metrics   *metrics.Metrics
}

// NewClient builds a client from cfg. A nil metrics sink is allowed.
func NewClient(cfg Config, m *metrics.Metrics) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	// The publisher's certificate chain has a history of breakage, so
	// verification is opt-out rather than assumed.
	if cfg.InsecureSkipTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var cache *expirable.LRU[string, []byte]
	if cfg.CacheSize > 0 {
		cache = expirable.NewLRU[string, []byte](cfg.CacheSize, nil, cfg.CacheTTL)
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		userAgent: cfg.UserAgent,
		cache:     cache,
		metrics:   m,
	}
}

// WithTransport swaps the underlying round tripper. Tests use this to
// install httpmock.
func (c *Client) WithTransport(rt http.RoundTripper) {
	c.http.Transport = rt
}

// Get returns the body at rawURL, serving from the page cache when the
// entry is present and not expired.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(rawURL); ok {
			c.metrics.IncCacheHit()
			slog.Debug("page cache hit", slog.String("url", rawURL))
			return body, nil
		}
	}

	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Add(rawURL, resp.Body)
	}
	return resp.Body, nil
}

// Fetch issues the request unconditionally, bypassing the cache. File
// downloads always go through here so a re-run re-reads fresh bytes.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		classified := Classify(err, 0)
		c.metrics.IncRequest("error")
		c.metrics.IncError(Label(classified))
		return nil, fmt.Errorf("get %s: %w", rawURL, classified)
	}
	defer resp.Body.Close()
	c.metrics.ObserveDuration(time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		classified := Classify(nil, resp.StatusCode)
		c.metrics.IncRequest("error")
		c.metrics.IncError(Label(classified))
		return nil, fmt.Errorf("get %s: %w", rawURL, classified)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		classified := ErrConnection{Err: err}
		c.metrics.IncRequest("error")
		c.metrics.IncError(Label(classified))
		return nil, fmt.Errorf("read %s: %w", rawURL, classified)
	}

	c.metrics.IncRequest("success")
	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}
