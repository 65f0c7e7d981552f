package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hagtolur/talnaefni/catalog"
	"github.com/hagtolur/talnaefni/cmd/common"
	"github.com/hagtolur/talnaefni/config"
	"github.com/hagtolur/talnaefni/discover"
	"github.com/hagtolur/talnaefni/fetch"
	"github.com/hagtolur/talnaefni/metrics"
	"github.com/hagtolur/talnaefni/models"
	"github.com/hagtolur/talnaefni/store"
)

func main() {
	common.LoadEnv()
	defaults := config.DefaultConfig()

	baseDefault := defaults.BaseURL
	if value, ok := config.EnvString("TALNAEFNI_BASE_URL"); ok {
		baseDefault = value
	}
	primaryDefault := defaults.PageLinksFile
	if value, ok := config.EnvString("TALNAEFNI_PAGE_LINKS"); ok {
		primaryDefault = value
	}
	outputDefault := defaults.DataLinksFile
	if value, ok := config.EnvString("TALNAEFNI_DATA_LINKS"); ok {
		outputDefault = value
	}
	timeoutDefault := defaults.Timeout
	if value, ok, err := config.EnvDuration("TALNAEFNI_TIMEOUT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid TALNAEFNI_TIMEOUT: %v\n", err)
		os.Exit(1)
	} else if ok {
		timeoutDefault = value
	}
	cacheSizeDefault := defaults.PageCacheSize
	if value, ok, err := config.EnvInt("TALNAEFNI_PAGE_CACHE_SIZE"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid TALNAEFNI_PAGE_CACHE_SIZE: %v\n", err)
		os.Exit(1)
	} else if ok {
		cacheSizeDefault = value
	}
	metricsDefault := defaults.MetricsAddr
	if value, ok := config.EnvString("TALNAEFNI_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", baseDefault, "Publisher base URL")
	primary := flag.String("primary", primaryDefault, "Primary store path (discovery output)")
	output := flag.String("output", outputDefault, "Catalog store output path")
	heading := flag.String("section-heading", defaults.SectionHeading, "Heading that marks the data links section")
	timeout := flag.Duration("timeout", timeoutDefault, "HTTP request timeout")
	insecureTLS := flag.Bool("insecure-tls", defaults.InsecureSkipTLS, "Skip TLS certificate verification")
	cacheSize := flag.Int("page-cache-size", cacheSizeDefault, "In-memory page cache entries")
	cacheTTL := flag.Duration("page-cache-ttl", defaults.PageCacheTTL, "In-memory page cache TTL")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	common.SetupLogger(*verbose)

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.PageLinksFile = *primary
	cfg.DataLinksFile = *output
	cfg.SectionHeading = *heading
	cfg.Timeout = *timeout
	cfg.InsecureSkipTLS = *insecureTLS
	cfg.PageCacheSize = *cacheSize
	cfg.PageCacheTTL = *cacheTTL
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	m := metrics.New()
	metricsServer := common.StartMetricsServer(cfg.MetricsAddr, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current subcategory")
	}()

	client := fetch.NewClient(fetch.Config{
		Timeout:         cfg.Timeout,
		UserAgent:       cfg.UserAgent,
		InsecureSkipTLS: cfg.InsecureSkipTLS,
		CacheSize:       cfg.PageCacheSize,
		CacheTTL:        cfg.PageCacheTTL,
	}, m)

	doc, err := loadDocument(ctx, cfg, m)
	if err != nil {
		slog.Error("loading link store", slog.Any("error", err))
		common.StopMetricsServer(metricsServer)
		os.Exit(1)
	}

	cataloger := catalog.NewCataloger(cfg, client, m)
	result, err := cataloger.Run(ctx, doc)
	if err != nil {
		slog.Error("cataloging aborted, keeping previous store", slog.Any("error", err))
		common.StopMetricsServer(metricsServer)
		os.Exit(1)
	}

	if err := store.Save(cfg.DataLinksFile, doc); err != nil {
		slog.Error("writing catalog store", slog.Any("error", err))
		common.StopMetricsServer(metricsServer)
		os.Exit(1)
	}
	result.OutputPath = cfg.DataLinksFile

	common.StopMetricsServer(metricsServer)
	printSummary(result)
}

// loadDocument prefers the catalog store, falls back to the primary
// store, and as a last resort runs discovery to build one. The catalog
// store carries the previous run's links, which is what the staleness
// policy wants to see.
func loadDocument(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (store.Document, error) {
	doc, err := store.Load(cfg.DataLinksFile)
	if err == nil {
		slog.Info("loaded catalog store", slog.String("path", cfg.DataLinksFile))
		return doc, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	doc, err = store.Load(cfg.PageLinksFile)
	if err == nil {
		slog.Info("loaded primary store", slog.String("path", cfg.PageLinksFile))
		return doc, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	slog.Warn("no link store found, running discovery first",
		slog.String("path", cfg.PageLinksFile))
	d, err := discover.NewDiscoverer(cfg, m)
	if err != nil {
		return nil, err
	}
	categories, _, err := d.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Save(cfg.PageLinksFile, categories); err != nil {
		return nil, err
	}
	return store.Document(categories), nil
}

func printSummary(result *models.CatalogResult) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Cataloging complete")
	fmt.Printf("  Subcategories: %d\n", result.Subcategories)
	fmt.Printf("  Scraped:       %d\n", result.Scraped)
	fmt.Printf("  Skipped:       %d\n", result.Skipped)
	fmt.Printf("  Refreshed:     %d\n", result.Refreshed)
	fmt.Printf("  Total links:   %d\n", result.LinksTotal)
	if len(result.Decisions) > 0 {
		fmt.Printf("  Decisions:     %v\n", result.Decisions)
	}
	if len(result.Failures) > 0 {
		fmt.Printf("  Failures:      %d\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Printf("    - %s > %s: %s\n", f.Category, f.Subcategory, f.Err)
		}
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Printf("  Output file:   %s\n", result.OutputPath)
	fmt.Println(separator)
}
