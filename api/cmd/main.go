package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tanushreec24/Webpage-Analyzer/analyzer"
	"github.com/tanushreec24/Webpage-Analyzer/api/internal/api"
	"github.com/tanushreec24/Webpage-Analyzer/api/internal/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/log"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/metrics"
	"github.com/tanushreec24/Webpage-Analyzer/shared/repository"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Setup logging
	logger := log.SetupFromEnv(cfg.Service.Name)
	logger.Info("Starting API service")

	// Setup tracing
	otelShutdown, err := tracing.SetupOTelSDK(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("Failed to setup tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer otelShutdown(ctx)

	// Initialize dependencies
	deps, cleanup, err := initializeDependencies(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	apiService := api.NewAPI(
		deps.ReportRepo,
		deps.MessageBus,
		deps.Analyzer,
		deps.Metrics,
		logger,
	)

	// Start server in goroutine
	go func() {
		if err := apiService.Start(ctx, cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("Shutting down API service", slog.String("signal", sig.String()))

	// Graceful shutdown, letting running analyses store their results
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiService.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server gracefully", slog.Any("error", err))
	}

	logger.Info("API service stopped")
}

type dependencies struct {
	ReportRepo *repository.ReportRepository
	MessageBus *messagebus.MessageBus
	Analyzer   *analyzer.Analyzer
	Metrics    *metrics.APIMetrics
	NC         *nats.Conn
}

func initializeDependencies(cfg *config.Config, logger *slog.Logger) (*dependencies, func(), error) {
	// Initialize metrics
	m := metrics.NewAPIMetrics()
	m.MustRegisterAPI()
	m.SetServiceInfo(cfg.Service.Version, runtime.Version())

	am := metrics.NewAnalyzerMetrics()
	am.MustRegisterAnalysis()

	// Start metrics server
	metricsServer := m.StartMetricsServer(cfg.Metrics.Port)

	// Initialize DynamoDB client
	ddb, err := repository.NewDynamoDBClient(cfg.DynamoDB)
	if err != nil {
		return nil, nil, err
	}

	// Seed tables
	if err := repository.SeedTables(ddb, m); err != nil {
		return nil, nil, err
	}

	reportRepo, err := repository.NewReportRepository(cfg.DynamoDB, repository.WithReportMetrics(m))
	if err != nil {
		return nil, nil, err
	}

	// Connect to NATS
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, nil, err
	}

	// Create message bus
	mb := messagebus.New(nc, m)

	a := analyzer.NewAnalyzer(
		analyzer.WithConfig(cfg.Analyzer),
		analyzer.WithHTTPClient(analyzer.NewTracedClient()),
		analyzer.WithPublisher(mb),
		analyzer.WithMetrics(am),
		analyzer.WithLogger(logger),
	)

	deps := &dependencies{
		ReportRepo: reportRepo,
		MessageBus: mb,
		Analyzer:   a,
		Metrics:    m,
		NC:         nc,
	}

	cleanup := func() {
		logger.Info("Cleaning up dependencies")

		// Shutdown metrics server
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shutdown metrics server", slog.Any("error", err))
			}
		}

		// Flush pending publishes before closing
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}

	return deps, cleanup, nil
}
