// Package catalog walks the link store, applies the staleness policy to
// every subcategory and re-extracts data links for the stale ones. The
// caller owns loading and saving the store, so the whole run commits as
// one document write.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hagtolur/talnaefni/config"
	"github.com/hagtolur/talnaefni/fetch"
	"github.com/hagtolur/talnaefni/metrics"
	"github.com/hagtolur/talnaefni/models"
	"github.com/hagtolur/talnaefni/parser"
	"github.com/hagtolur/talnaefni/store"
)

// Cataloger refreshes the data links of stale subcategories in place.
type Cataloger struct {
	cfg     *config.Config
	client  *fetch.Client
	metrics *metrics.Metrics

	// now is the clock the staleness policy reads; tests pin it.
	now func() time.Time
}

// NewCataloger builds a cataloger around a shared fetch client.
func NewCataloger(cfg *config.Config, client *fetch.Client, m *metrics.Metrics) *Cataloger {
	return &Cataloger{
		cfg:     cfg,
		client:  client,
		metrics: m,
		now:     time.Now,
	}
}

// Run processes every subcategory in doc. Stale entries get their
// metadata refreshed from the root page and their link sequence replaced
// wholesale; fresh entries are skipped without any network traffic.
// Failures are isolated per subcategory and collected in the result. The
// only error Run itself returns is context cancellation, so a half-done
// run never reaches the store file.
func (c *Cataloger) Run(ctx context.Context, doc store.Document) (*models.CatalogResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := &models.CatalogResult{
		Decisions: make(map[string]int),
		StartTime: time.Now(),
	}

	for _, cat := range doc {
		for _, sub := range cat.Subcategories {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			result.Subcategories++

			decision := Decide(c.now(), sub)
			c.metrics.IncDecision(decision.String())
			result.Decisions[decision.String()]++

			if !decision.Scrape() {
				result.Skipped++
				slog.Debug("links still fresh",
					slog.String("category", cat.Name),
					slog.String("subcategory", sub.Name),
					slog.String("next_update", sub.NextUpdate.String()),
				)
				continue
			}

			slog.Info("scraping subcategory",
				slog.String("category", cat.Name),
				slog.String("subcategory", sub.Name),
				slog.String("reason", decision.String()),
			)

			if c.refreshMetadata(ctx, cat.Name, sub) {
				result.Refreshed++
			}

			if err := c.scrape(ctx, sub); err != nil {
				c.metrics.IncError(failureLabel(err))
				result.Failures = append(result.Failures, models.SubcategoryFailure{
					Category:    cat.Name,
					Subcategory: sub.Name,
					URL:         sub.URL,
					Err:         err.Error(),
				})
				slog.Warn("subcategory failed",
					slog.String("category", cat.Name),
					slog.String("subcategory", sub.Name),
					slog.Any("error", err),
				)
				continue
			}
			result.Scraped++
		}
	}

	for _, cat := range doc {
		for _, sub := range cat.Subcategories {
			result.LinksTotal += len(sub.Links)
		}
	}
	result.EndTime = time.Now()
	return result, nil
}

// refreshMetadata re-reads the statistics root page and copies the
// subcategory's current URL, dates and cadence over the stored ones. The
// page body comes from the fetch cache after the first stale entry, so a
// run with many stale subcategories still reads the root once. A miss is
// not an error: the stored metadata simply stays.
func (c *Cataloger) refreshMetadata(ctx context.Context, category string, sub *models.Subcategory) bool {
	rootURL := c.cfg.RootURL()
	body, err := c.client.Get(ctx, rootURL)
	if err != nil {
		slog.Warn("metadata refresh failed", slog.String("url", rootURL), slog.Any("error", err))
		return false
	}

	parsed, err := url.Parse(rootURL)
	if err != nil {
		return false
	}
	htmlDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		slog.Warn("metadata refresh failed", slog.String("url", rootURL), slog.Any("error", err))
		return false
	}

	categories, _ := parser.Categories(htmlDoc.Find("div.newslist"), parsed)
	for _, cat := range categories {
		if cat.Name != category {
			continue
		}
		for _, fresh := range cat.Subcategories {
			if fresh.Name != sub.Name {
				continue
			}
			sub.URL = fresh.URL
			sub.LastUpdate = fresh.LastUpdate
			sub.NextUpdate = fresh.NextUpdate
			sub.UpdateFrequency = fresh.UpdateFrequency
			slog.Debug("metadata refreshed",
				slog.String("subcategory", sub.Name),
				slog.String("last_update", sub.LastUpdate.String()),
				slog.String("next_update", sub.NextUpdate.String()),
			)
			return true
		}
	}

	slog.Debug("subcategory absent from root page", slog.String("subcategory", sub.Name))
	return false
}

// scrape fetches the subcategory page and replaces the link sequence
// wholesale with whatever the data links section lists now.
func (c *Cataloger) scrape(ctx context.Context, sub *models.Subcategory) error {
	pageURL, err := url.Parse(sub.URL)
	if err != nil {
		return fmt.Errorf("parse subcategory url %q: %w", sub.URL, err)
	}

	body, err := c.client.Get(ctx, sub.URL)
	if err != nil {
		return err
	}

	htmlDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse page %s: %w", sub.URL, err)
	}

	links, err := parser.SectionLinks(htmlDoc, c.cfg.SectionHeading, pageURL)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		slog.Info("no data links on page", slog.String("subcategory", sub.Name))
	}

	sub.Links = links
	c.metrics.AddLinks(len(links))
	return nil
}

func failureLabel(err error) string {
	if errors.Is(err, parser.ErrSectionNotFound) {
		return "section_not_found"
	}
	return fetch.Label(err)
}
