package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tanushreec24/Webpage-Analyzer/notifications/internal/config"
	"github.com/tanushreec24/Webpage-Analyzer/notifications/internal/notifications"
	"github.com/tanushreec24/Webpage-Analyzer/shared/log"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/metrics"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

func main() {
	os.Exit(run(config.Load()))
}

// run serves report and analysis events to WebSocket clients until a signal
// arrives or the server fails, and returns the exit code
func run(cfg *config.Config) int {
	logger := log.SetupFromEnv(cfg.Service.Name)
	logger.Info("Starting notifications service",
		slog.String("addr", cfg.HTTP.Addr),
		slog.Int("maxConnections", cfg.WebSocket.MaxConnections))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := tracing.SetupOTelSDK(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("Failed to setup OTel SDK", slog.Any("error", err))
		return 1
	}
	defer otelShutdown(context.Background())

	hub, mb, cleanup, err := connect(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize dependencies", slog.Any("error", err))
		return 1
	}
	defer cleanup()

	srv := notifications.NewServer(
		notifications.NewNotificationService(hub, mb, notifications.WithLogger(logger)),
		notifications.WithServerConfig(cfg.HTTP),
		notifications.WithServerLogger(logger),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	code := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Notification server failed", slog.Any("error", err))
			code = 1
		}
	case <-ctx.Done():
		logger.Info("Shutting down notification service...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server gracefully", slog.Any("error", err))
	}

	logger.Info("Notification service stopped", slog.Int("openConnections", hub.ConnectionCount()))
	return code
}

// connect registers metrics and joins the event bus. The returned cleanup
// drains the bus before closing the remaining client connections.
func connect(cfg *config.Config, logger *slog.Logger) (*notifications.Hub, *messagebus.MessageBus, func(), error) {
	m := metrics.NewNotificationsMetrics()
	m.MustRegisterNotifications()
	m.SetServiceInfo(cfg.Service.Version, runtime.Version())

	metricsServer := m.StartMetricsServer(cfg.Metrics.Port)

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name(cfg.Service.Name))
	if err != nil {
		return nil, nil, nil, err
	}

	hub := notifications.NewHub(
		notifications.WithHubMetrics(m),
		notifications.WithHubConfig(cfg.WebSocket),
		notifications.WithHubLogger(logger),
	)

	cleanup := func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", slog.Any("error", err))
		}
		hub.Close()

		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error("Failed to shutdown metrics server", slog.Any("error", err))
			}
		}
	}

	return hub, messagebus.New(nc, m), cleanup, nil
}
