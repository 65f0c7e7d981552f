// Package common holds the wiring shared by the discover, catalog and
// download commands: .env loading, logger setup and the optional
// Prometheus endpoint.
package common

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hagtolur/talnaefni/metrics"
)

// LoadEnv folds a .env file into the process environment when one exists.
// Real environment variables win over file values.
func LoadEnv() {
	_ = godotenv.Load()
}

// SetupLogger installs the default slog logger. Verbose enables debug
// level; output is human text on a terminal and JSON otherwise.
func SetupLogger(verbose bool) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
	slog.SetLogLoggerLevel(level.Level())
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// StartMetricsServer serves the registry on addr. An empty addr or nil
// sink disables the endpoint and returns nil.
func StartMetricsServer(addr string, m *metrics.Metrics) *http.Server {
	if addr == "" || m == nil {
		return nil
	}

	server := &http.Server{
		Addr:    addr,
		Handler: promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

// StopMetricsServer shuts down a server started by StartMetricsServer.
// A nil server is a no-op.
func StopMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}
