package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hagtolur/talnaefni/cmd/common"
	"github.com/hagtolur/talnaefni/config"
	"github.com/hagtolur/talnaefni/discover"
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
	outputDefault := defaults.PageLinksFile
	if value, ok := config.EnvString("TALNAEFNI_PAGE_LINKS"); ok {
		outputDefault = value
	}
	timeoutDefault := defaults.Timeout
	if value, ok, err := config.EnvDuration("TALNAEFNI_TIMEOUT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid TALNAEFNI_TIMEOUT: %v\n", err)
		os.Exit(1)
	} else if ok {
		timeoutDefault = value
	}
	metricsDefault := defaults.MetricsAddr
	if value, ok := config.EnvString("TALNAEFNI_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", baseDefault, "Publisher base URL")
	statsPath := flag.String("stats-path", defaults.StatisticsPath, "Path of the statistics root page")
	output := flag.String("output", outputDefault, "Primary store output path")
	timeout := flag.Duration("timeout", timeoutDefault, "HTTP request timeout")
	insecureTLS := flag.Bool("insecure-tls", defaults.InsecureSkipTLS, "Skip TLS certificate verification")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	common.SetupLogger(*verbose)

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.StatisticsPath = *statsPath
	cfg.PageLinksFile = *output
	cfg.Timeout = *timeout
	cfg.InsecureSkipTLS = *insecureTLS
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting discovery", slog.String("url", cfg.RootURL()))

	m := metrics.New()
	metricsServer := common.StartMetricsServer(cfg.MetricsAddr, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := discover.NewDiscoverer(cfg, m)
	if err != nil {
		slog.Error("initialising discoverer", slog.Any("error", err))
		os.Exit(1)
	}

	categories, result, err := d.Run(ctx)
	if err != nil {
		slog.Error("discovery failed", slog.Any("error", err))
		common.StopMetricsServer(metricsServer)
		os.Exit(1)
	}

	if err := store.Save(cfg.PageLinksFile, categories); err != nil {
		slog.Error("writing primary store", slog.Any("error", err))
		common.StopMetricsServer(metricsServer)
		os.Exit(1)
	}
	result.OutputPath = cfg.PageLinksFile

	common.StopMetricsServer(metricsServer)
	printSummary(result)
}

func printSummary(result *models.DiscoverResult) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Discovery complete")
	fmt.Printf("  Categories:     %d\n", result.Categories)
	fmt.Printf("  Subcategories:  %d\n", result.Subcategories)
	fmt.Printf("  Dates parsed:   %d\n", result.DatesParsed)
	fmt.Printf("  Dates dropped:  %d\n", result.DatesDropped)
	fmt.Printf("  Duration:       %v\n", result.EndTime.Sub(result.StartTime))
	fmt.Printf("  Output file:    %s\n", result.OutputPath)
	fmt.Println(separator)
}
