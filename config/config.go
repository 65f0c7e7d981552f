package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the settings shared by the discover, catalog and download
// commands.
type Config struct {
	BaseURL         string // publisher origin, scheme and host only
	StatisticsPath  string // path of the statistics root page
	SectionHeading  string // heading that marks the data links section
	Timeout         time.Duration
	UserAgent       string
	InsecureSkipTLS bool
	PageLinksFile   string // primary store written by discovery
	DataLinksFile   string // catalog store written by cataloging
	CacheDir        string // directory for downloaded data files
	PageCacheSize   int    // entries in the in-memory page cache
	PageCacheTTL    time.Duration
	MetricsAddr     string
	Verbose         bool
}

// DefaultConfig returns the defaults for the publisher's live site.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://www.sedlabanki.is",
		StatisticsPath:  "/hagtolur/talnaefni/",
		SectionHeading:  "Tímaraðir",
		Timeout:         30 * time.Second,
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		InsecureSkipTLS: true,
		PageLinksFile:   "data/page_links.yaml",
		DataLinksFile:   "data/data_links.yaml",
		CacheDir:        "data/cache",
		PageCacheSize:   32,
		PageCacheTTL:    15 * time.Minute,
		MetricsAddr:     "",
		Verbose:         false,
	}
}

// RootURL joins the base URL and the statistics path.
func (c *Config) RootURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.StatisticsPath
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if !strings.HasPrefix(c.StatisticsPath, "/") {
		return fmt.Errorf("statistics path must start with /")
	}
	if c.SectionHeading == "" {
		return fmt.Errorf("section heading cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.PageLinksFile == "" {
		return fmt.Errorf("page links file cannot be empty")
	}
	if c.DataLinksFile == "" {
		return fmt.Errorf("data links file cannot be empty")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("cache directory cannot be empty")
	}
	if c.PageCacheSize < 0 {
		return fmt.Errorf("page cache size cannot be negative")
	}
	if c.PageCacheTTL < 0 {
		return fmt.Errorf("page cache TTL cannot be negative")
	}

	return nil
}
