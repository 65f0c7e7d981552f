// Package download fetches every data file of a named subcategory into
// the flat cache directory. Same-named subcategories in different
// categories all match; colliding filenames get a numeric suffix instead
// of overwriting an earlier download.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hagtolur/talnaefni/config"
	"github.com/hagtolur/talnaefni/fetch"
	"github.com/hagtolur/talnaefni/metrics"
	"github.com/hagtolur/talnaefni/models"
	"github.com/hagtolur/talnaefni/store"
)

// ErrNoMatch reports that no subcategory in the store carries the
// requested name.
var ErrNoMatch = errors.New("no subcategory matches")

// Downloader fetches data files for the subcategories of one store.
type Downloader struct {
	cfg     *config.Config
	client  *fetch.Client
	metrics *metrics.Metrics
}

// NewDownloader builds a downloader around a shared fetch client.
func NewDownloader(cfg *config.Config, client *fetch.Client, m *metrics.Metrics) *Downloader {
	return &Downloader{cfg: cfg, client: client, metrics: m}
}

// Run downloads every data link of every subcategory named name. A
// failed file is recorded and skipped, never aborting the rest; the only
// hard errors are a name with zero matches and an unusable cache
// directory.
func (d *Downloader) Run(ctx context.Context, doc store.Document, name string) (*models.DownloadResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	matches := doc.FindSubcategories(name)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, name)
	}

	if err := os.MkdirAll(d.cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %q: %w", d.cfg.CacheDir, err)
	}

	result := &models.DownloadResult{
		Subcategory: name,
		Matches:     len(matches),
		CacheDir:    d.cfg.CacheDir,
		StartTime:   time.Now(),
	}

	for _, match := range matches {
		slog.Info("downloading subcategory files",
			slog.String("category", match.Category),
			slog.String("subcategory", match.Subcategory.Name),
			slog.Int("links", len(match.Subcategory.Links)),
		)

		for _, link := range match.Subcategory.Links {
			if err := ctx.Err(); err != nil {
				result.EndTime = time.Now()
				return result, err
			}

			fileURL := d.absoluteURL(link.URL)
			saved, err := d.downloadOne(ctx, link.Name, fileURL)
			if err != nil {
				d.metrics.IncDownload("error")
				result.Failed = append(result.Failed, models.FailedDownload{
					Name: link.Name,
					URL:  fileURL,
					Err:  err.Error(),
				})
				slog.Warn("download failed",
					slog.String("name", link.Name),
					slog.String("url", fileURL),
					slog.Any("error", err),
				)
				continue
			}

			d.metrics.IncDownload("success")
			result.Downloaded = append(result.Downloaded, models.DownloadedFile{
				Name: link.Name,
				URL:  fileURL,
				Path: saved,
			})
			slog.Debug("saved file", slog.String("path", saved))
		}
	}

	result.EndTime = time.Now()
	return result, nil
}

// downloadOne fetches the file and writes it under a collision-free name.
// Downloads bypass the page cache so a re-run reads fresh bytes.
func (d *Downloader) downloadOne(ctx context.Context, label, fileURL string) (string, error) {
	resp, err := d.client.Fetch(ctx, fileURL)
	if err != nil {
		return "", err
	}
	filename := deriveFilename(resp.Header, fileURL, label)
	return writeUnique(d.cfg.CacheDir, filename, resp.Body)
}

// absoluteURL roots store-relative URLs at the publisher origin. Absolute
// URLs pass through unchanged.
func (d *Downloader) absoluteURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	base := strings.TrimRight(d.cfg.BaseURL, "/")
	if strings.HasPrefix(raw, "/") {
		return base + raw
	}
	return base + "/" + raw
}

// deriveFilename picks the saved name: the Content-Disposition filename
// when the publisher sends one, else the URL path basename, else the link
// label with a spreadsheet extension. Header names are flattened to their
// base so they cannot escape the cache directory.
func deriveFilename(header http.Header, rawURL, label string) string {
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return filepath.Base(name)
			}
		}
	}

	if u, err := url.Parse(rawURL); err == nil {
		base := path.Base(u.Path)
		if base != "." && base != "/" && strings.Contains(base, ".") {
			return base
		}
	}

	return strings.ReplaceAll(strings.TrimSpace(label), " ", "_") + ".xlsx"
}

// writeUnique writes data into dir under filename, appending _1, _2, ...
// before the extension until the name is free.
func writeUnique(dir, filename string, data []byte) (string, error) {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	target := filepath.Join(dir, filename)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
			break
		}
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}
