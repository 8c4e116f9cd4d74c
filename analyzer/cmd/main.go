package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tanushreec24/Webpage-Analyzer/analyzer"
	"github.com/tanushreec24/Webpage-Analyzer/analyzer/internal/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/log"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/metrics"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

func main() {
	cfg := config.Load()

	flag.StringVar(&cfg.Output.Dir, "out", cfg.Output.Dir, "directory for result files")
	flag.BoolVar(&cfg.Output.XLSX, "xlsx", cfg.Output.XLSX, "also write an Excel workbook")
	flag.BoolVar(&cfg.Analyzer.SharedFetch, "shared-fetch", cfg.Analyzer.SharedFetch, "fetch each page once for all analyses")
	flag.IntVar(&cfg.Analyzer.MaxWorkers, "workers", cfg.Analyzer.MaxWorkers, "number of concurrent link checks")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [url ...]\n\nWith no URLs an interactive session is started.\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	os.Exit(run(cfg, flag.Args()))
}

// run executes the CLI and returns the process exit code. Deferred cleanups
// complete before main exits.
func run(cfg *config.Config, urls []string) int {
	// Logs go to stderr and the daily log file so stdout carries only the report
	logger, closeLog, err := log.Setup(log.Opts{
		ServiceName: cfg.Service.Name,
		Level:       log.GetLogLevelFromEnv(),
		AddSource:   log.GetLogLevelFromEnv() <= slog.LevelDebug,
		Output:      os.Stderr,
		FileDir:     cfg.Output.LogFileDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracing.SetupOTelSDK(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("Failed to setup tracing", slog.Any("error", err))
		return 1
	}
	defer shutdown(context.Background())

	anlyzr, cleanup, err := initializeAnalyzer(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize analyzer", slog.Any("error", err))
		return 1
	}
	defer cleanup()

	c := &cli{
		analyzer: anlyzr,
		cfg:      cfg,
		in:       os.Stdin,
		out:      os.Stdout,
		log:      logger,
		now:      time.Now,
	}

	if len(urls) > 0 {
		if failed := c.run(ctx, urls); failed > 0 {
			logger.Error("Some URLs could not be analyzed", slog.Int("failed", failed))
			return 1
		}
		return 0
	}

	c.interactive(ctx)
	return 0
}

// initializeAnalyzer wires the analyzer with metrics, tracing and event publishing as configured
func initializeAnalyzer(cfg *config.Config, logger *slog.Logger) (*analyzer.Analyzer, func(), error) {
	opts := []analyzer.Option{
		analyzer.WithConfig(cfg.Analyzer),
		analyzer.WithLogger(logger),
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var collector messagebus.MetricsCollector
	if cfg.Metrics.Port != "" {
		m := metrics.NewAnalyzerMetrics()
		m.MustRegisterAnalyzer()
		m.SetServiceInfo(cfg.Service.Version, runtime.Version())

		srv := m.StartMetricsServer(cfg.Metrics.Port)
		cleanups = append(cleanups, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		})

		collector = m
		opts = append(opts, analyzer.WithMetrics(m))
	}

	if cfg.Tracing.Enabled {
		opts = append(opts, analyzer.WithHTTPClient(analyzer.NewTracedClient()))
	}

	if cfg.PublishEvents {
		nc, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		cleanups = append(cleanups, nc.Close)
		opts = append(opts, analyzer.WithPublisher(messagebus.New(nc, collector)))
	}

	return analyzer.NewAnalyzer(opts...), cleanup, nil
}
