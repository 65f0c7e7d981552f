package parser

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hagtolur/talnaefni/models"
)

// ErrSectionNotFound reports a subcategory page without the data-links
// section: either no heading matched or the heading had no container after
// it. The page layout changed or the subcategory simply publishes no files.
var ErrSectionNotFound = errors.New("parser: data links section not found")

// SectionLinks extracts the downloadable file links from a subcategory
// page. The section is located by an h2 whose text contains heading; the
// links live in the first div that follows it, in document order.
func SectionLinks(doc *goquery.Document, heading string, pageURL *url.URL) ([]*models.DataLink, error) {
	var section *goquery.Selection
	doc.Find("h2").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(h.Text(), heading) {
			section = h.NextAllFiltered("div").First()
			return false
		}
		return true
	})
	if section == nil || section.Length() == 0 {
		return nil, ErrSectionNotFound
	}

	var links []*models.DataLink
	section.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		name := strings.TrimSpace(a.Text())
		if name == "" || strings.TrimSpace(href) == "" {
			return
		}
		abs := resolveURL(pageURL, href)
		links = append(links, &models.DataLink{
			Name:        name,
			URL:         abs,
			ContentType: ContentTypeHint(abs),
		})
	})
	return links, nil
}

// Extensions the publisher actually serves; anything else gets no hint.
var contentTypeHints = map[string]string{
	".xlsx": "xlsx",
	".xls":  "xls",
	".csv":  "csv",
	".zip":  "zip",
	".pdf":  "pdf",
	".json": "json",
}

// ContentTypeHint guesses the file kind from the URL path extension.
// Returns "" when the extension is unknown or missing.
func ContentTypeHint(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(path.Ext(u.Path))
	return contentTypeHints[ext]
}
