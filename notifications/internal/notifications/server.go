package notifications

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/tanushreec24/Webpage-Analyzer/shared/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/middleware"
	"github.com/yousuf64/shift"
)

// Server handles the HTTP server and notification service
type Server struct {
	srv             *http.Server
	notificationSvc *NotificationService
	log             *slog.Logger
	cfg             config.HTTPServerConfig
}

// ServerOption configures the Server
type ServerOption func(*Server)

// NewServer creates a new server with notification service
func NewServer(
	notificationSvc *NotificationService,
	opts ...ServerOption,
) *Server {
	s := &Server{
		notificationSvc: notificationSvc,
		log:             slog.Default(),
		cfg:             config.NewHTTPServerConfig(":8081", "8081"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithServerConfig sets the server configuration
func WithServerConfig(cfg config.HTTPServerConfig) ServerOption {
	return func(s *Server) { s.cfg = cfg }
}

// WithServerLogger sets the logger for the server
func WithServerLogger(log *slog.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// Router builds the router serving the WebSocket endpoint.
// Upgraded connections need the raw writer, so only CORS wraps it.
func (s *Server) Router() *shift.Router {
	router := shift.New()
	router.Use(middleware.CORSMiddleware)

	router.OPTIONS("/*wildcard", middleware.OptionsHandler)
	router.GET("/ws", s.notificationSvc.GetWebSocketHandler().Route)

	return router
}

// Start subscribes to NATS and serves WebSocket clients until Shutdown
func (s *Server) Start(ctx context.Context) error {
	if err := s.notificationSvc.Start(ctx); err != nil {
		return err
	}

	s.srv = &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     s.Router().Serve(),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
		ReadTimeout: s.cfg.ReadTimeout,
		IdleTimeout: s.cfg.IdleTimeout,
	}

	s.log.Info("HTTP server starting", slog.String("addr", s.cfg.Addr))
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	// Stop notification service
	s.notificationSvc.Stop()

	// Shutdown HTTP server
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}

	return nil
}
