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

	"github.com/hagtolur/talnaefni/cmd/common"
	"github.com/hagtolur/talnaefni/config"
	"github.com/hagtolur/talnaefni/download"
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
	storeDefault := defaults.DataLinksFile
	if value, ok := config.EnvString("TALNAEFNI_DATA_LINKS"); ok {
		storeDefault = value
	}
	cacheDefault := defaults.CacheDir
	if value, ok := config.EnvString("TALNAEFNI_CACHE_DIR"); ok {
		cacheDefault = value
	}
	timeoutDefault := defaults.Timeout
	if value, ok, err := config.EnvDuration("TALNAEFNI_TIMEOUT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid TALNAEFNI_TIMEOUT: %v\n", err)
		os.Exit(1)
	} else if ok {
		timeoutDefault = value
	}

	baseURL := flag.String("base-url", baseDefault, "Publisher base URL")
	storePath := flag.String("store", storeDefault, "Catalog store path")
	cacheDir := flag.String("cache-dir", cacheDefault, "Directory for downloaded files")
	timeout := flag.Duration("timeout", timeoutDefault, "HTTP request timeout")
	insecureTLS := flag.Bool("insecure-tls", defaults.InsecureSkipTLS, "Skip TLS certificate verification")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <subcategory name>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	name := flag.Arg(0)

	common.SetupLogger(*verbose)

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.DataLinksFile = *storePath
	cfg.CacheDir = *cacheDir
	cfg.Timeout = *timeout
	cfg.InsecureSkipTLS = *insecureTLS
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	doc, err := store.Load(cfg.DataLinksFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Error("catalog store not found, run the cataloger first",
				slog.String("path", cfg.DataLinksFile))
		} else {
			slog.Error("loading catalog store", slog.Any("error", err))
		}
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current file")
	}()

	m := metrics.New()
	client := fetch.NewClient(fetch.Config{
		Timeout:         cfg.Timeout,
		UserAgent:       cfg.UserAgent,
		InsecureSkipTLS: cfg.InsecureSkipTLS,
	}, m)

	d := download.NewDownloader(cfg, client, m)
	result, err := d.Run(ctx, doc, name)
	if err != nil {
		if errors.Is(err, download.ErrNoMatch) {
			slog.Error("no subcategory matches", slog.String("name", name))
		} else {
			slog.Error("download failed", slog.Any("error", err))
		}
		os.Exit(1)
	}

	printSummary(result)
}

func printSummary(result *models.DownloadResult) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Printf("Download summary for %q\n", result.Subcategory)
	fmt.Printf("  Matches:     %d\n", result.Matches)
	fmt.Printf("  Downloaded:  %d\n", len(result.Downloaded))
	fmt.Printf("  Failed:      %d\n", len(result.Failed))
	for _, f := range result.Failed {
		fmt.Printf("    - %s: %s\n", f.URL, f.Err)
	}
	fmt.Printf("  Duration:    %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Printf("  Cache dir:   %s\n", result.CacheDir)
	fmt.Println(separator)
}
