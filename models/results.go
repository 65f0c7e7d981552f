package models

import "time"

// DiscoverResult summarizes one Category Discoverer run.
type DiscoverResult struct {
	Categories    int
	Subcategories int
	DatesParsed   int
	DatesDropped  int // unparsable publisher date strings, recorded as null
	OutputPath    string
	StartTime     time.Time
	EndTime       time.Time
}

// SubcategoryFailure records one isolated per-subcategory failure during
// cataloging. Failures never abort the batch.
type SubcategoryFailure struct {
	Category    string
	Subcategory string
	URL         string
	Err         string
}

// CatalogResult summarizes one Link Cataloger run.
type CatalogResult struct {
	Subcategories int
	Scraped       int
	Skipped       int
	Refreshed     int // entries whose metadata was re-read from the root page
	LinksTotal    int
	Decisions     map[string]int
	Failures      []SubcategoryFailure
	OutputPath    string
	StartTime     time.Time
	EndTime       time.Time
}

// DownloadedFile records one file written to the cache directory.
type DownloadedFile struct {
	Name string
	URL  string
	Path string
}

// FailedDownload records one isolated per-file failure.
type FailedDownload struct {
	Name string
	URL  string
	Err  string
}

// DownloadResult summarizes one Selective Downloader run.
type DownloadResult struct {
	Subcategory string
	Matches     int
	Downloaded  []DownloadedFile
	Failed      []FailedDownload
	CacheDir    string
	StartTime   time.Time
	EndTime     time.Time
}
