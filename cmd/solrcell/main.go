// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpAdapter "github.com/leseb/solrcell/pkg/adapters/http"
	"github.com/leseb/solrcell/pkg/command"
	_ "github.com/leseb/solrcell/pkg/command/solrcell"
	"github.com/leseb/solrcell/pkg/config"
	"github.com/leseb/solrcell/pkg/ingest"
	"github.com/leseb/solrcell/pkg/metrics"
	"github.com/leseb/solrcell/pkg/observability/logging"
	_ "github.com/leseb/solrcell/pkg/parser/formats"
	"github.com/leseb/solrcell/pkg/sink"
	_ "github.com/leseb/solrcell/pkg/sink/jsonl"
	_ "github.com/leseb/solrcell/pkg/sink/memory"
	_ "github.com/leseb/solrcell/pkg/sink/postgres"
	_ "github.com/leseb/solrcell/pkg/sink/sqlite"
	"github.com/leseb/solrcell/pkg/source"
	_ "github.com/leseb/solrcell/pkg/source/filesystem"
	_ "github.com/leseb/solrcell/pkg/source/memory"
	_ "github.com/leseb/solrcell/pkg/source/s3"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Log level (trace, debug, info, warn, error); overrides the config file")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on, e.g. :9090")
	serveAddr := flag.String("serve", "", "Serve the extraction API on this address instead of running a batch ingest")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Print version
	if *version {
		fmt.Printf("SolrCell\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	// Load configuration
	cfg, loadErr := config.Load(*configPath)
	if loadErr != nil {
		cfg = config.Default()
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *metricsAddr != "" {
		cfg.Metrics.Address = *metricsAddr
	}
	if *serveAddr != "" {
		cfg.Server.Address = *serveAddr
	}

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	logger.Info("Starting SolrCell",
		"version", Version,
		"build_time", BuildTime)
	if loadErr != nil {
		// If config file doesn't exist, use defaults
		logger.Warn("Failed to load config, using defaults", "error", loadErr)
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.Metrics.Address != "" {
		srv := metrics.NewServer(cfg.Metrics.Address, reg)
		go func() {
			logger.Info("Metrics server listening", "address", cfg.Metrics.Address)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown error", "error", err)
			}
		}()
	}

	// Initialize sink
	out, err := sink.Providers.New(ctx, cfg.Sink.Type, cfg.Sink.Params)
	if err != nil {
		return fmt.Errorf("initialize sink: %w", err)
	}
	defer func() {
		if err := out.Close(context.Background()); err != nil {
			logger.Error("Failed to close sink", "error", err)
		}
	}()
	logger.Info("Initialized sink", "type", cfg.Sink.Type)

	cctx := &command.Context{
		Logger:      logger.Logger,
		Metrics:     m,
		SolrLocator: cfg.Solr,
	}
	if cfg.Server.Address != "" {
		return serve(ctx, cfg, logger, cctx, out)
	}
	return ingestAll(ctx, cfg, logger, cctx, out)
}

// ingestAll runs every document of the configured source through the
// pipeline into the sink.
func ingestAll(ctx context.Context, cfg *config.Config, logger *logging.Logger, cctx *command.Context, out sink.Sink) error {
	src, err := source.Providers.New(ctx, cfg.Source.Type, cfg.Source.Params)
	if err != nil {
		return fmt.Errorf("initialize source: %w", err)
	}
	defer src.Close(context.Background())
	logger.Info("Initialized source", "type", cfg.Source.Type)

	chain, err := command.BuildChain(cfg.Pipeline, command.WriterCommand(out), cctx)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	logger.Info("Initialized pipeline", "commands", len(cfg.Pipeline))

	runner := ingest.New(src, chain, ingest.Options{
		Concurrency: cfg.Ingest.Concurrency,
		FailFast:    cfg.Ingest.FailFast,
		Logger:      logger.Logger,
		Metrics:     cctx.Metrics,
	})
	stats, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", stats.Failed, stats.Total())
	}
	return nil
}

// serve exposes the pipeline over HTTP until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger, cctx *command.Context, out sink.Sink) error {
	chain, err := command.BuildChain(cfg.Pipeline, httpAdapter.Terminal(), cctx)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	logger.Info("Initialized pipeline", "commands", len(cfg.Pipeline))

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      httpAdapter.New(chain, out, logger),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
