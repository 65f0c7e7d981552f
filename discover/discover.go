// Package discover crawls the statistics root page and builds the primary
// link store: every category and subcategory with its publisher-declared
// update dates and cadence, but no data links yet.
package discover

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/hagtolur/talnaefni/config"
	"github.com/hagtolur/talnaefni/fetch"
	"github.com/hagtolur/talnaefni/metrics"
	"github.com/hagtolur/talnaefni/models"
	"github.com/hagtolur/talnaefni/parser"
)

// Discoverer wraps the colly collector for the statistics root page.
type Discoverer struct {
	cfg       *config.Config
	collector *colly.Collector
	metrics   *metrics.Metrics

	handlersOnce sync.Once
}

// NewDiscoverer builds a discoverer configured from cfg.
func NewDiscoverer(cfg *config.Config, m *metrics.Metrics) (*Discoverer, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(newTransport(cfg))

	return &Discoverer{
		cfg:       cfg,
		collector: collector,
		metrics:   m,
	}, nil
}

// WithTransport swaps the collector transport. Tests use this to install
// httpmock.
func (d *Discoverer) WithTransport(rt http.RoundTripper) {
	d.collector.WithTransport(rt)
}

// Run fetches the root page once and extracts the category tree. Any
// failure here is fatal: without the root page there is nothing to build
// a store from, and no partial document is returned.
func (d *Discoverer) Run(ctx context.Context) ([]*models.Category, *models.DiscoverResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		categories []*models.Category
		stats      parser.ExtractStats
		fetchErr   error
	)

	d.handlersOnce.Do(func() {
		d.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			slog.Debug("fetching root page", slog.String("url", r.URL.String()))
		})

		d.collector.OnResponse(func(r *colly.Response) {
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				d.metrics.ObserveDuration(time.Since(start))
			}
			d.metrics.IncRequest("success")
		})

		d.collector.OnError(func(r *colly.Response, err error) {
			statusCode := 0
			if r != nil {
				statusCode = r.StatusCode
			}
			classified := fetch.Classify(err, statusCode)
			d.metrics.IncRequest("error")
			d.metrics.IncError(fetch.Label(classified))
			fetchErr = classified
		})

		d.collector.OnHTML("div.newslist", func(e *colly.HTMLElement) {
			cats, s := parser.Categories(e.DOM, e.Request.URL)
			categories = append(categories, cats...)
			stats.DatesParsed += s.DatesParsed
			stats.DatesDropped += s.DatesDropped
		})
	})

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	rootURL := d.cfg.RootURL()
	if err := d.collector.Visit(rootURL); err != nil {
		return nil, nil, fmt.Errorf("visit %s: %w", rootURL, err)
	}
	d.collector.Wait()

	if fetchErr != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", rootURL, fetchErr)
	}
	if len(categories) == 0 {
		return nil, nil, fmt.Errorf("no categories found at %s", rootURL)
	}

	subcategories := 0
	for _, cat := range categories {
		subcategories += len(cat.Subcategories)
	}
	slog.Info("discovered categories",
		slog.Int("categories", len(categories)),
		slog.Int("subcategories", subcategories),
		slog.Int("dates_dropped", stats.DatesDropped),
	)

	return categories, &models.DiscoverResult{
		Categories:    len(categories),
		Subcategories: subcategories,
		DatesParsed:   stats.DatesParsed,
		DatesDropped:  stats.DatesDropped,
		StartTime:     start,
		EndTime:       time.Now(),
	}, nil
}

func newTransport(cfg *config.Config) *http.Transport {
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
	if cfg.InsecureSkipTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return transport
}
