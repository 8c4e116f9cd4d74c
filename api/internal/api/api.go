package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/tanushreec24/Webpage-Analyzer/api/internal/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/metrics"
	"github.com/tanushreec24/Webpage-Analyzer/shared/middleware"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/repository"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
	"github.com/yousuf64/shift"
)

// Runner analyzes a page
type Runner interface {
	Analyze(ctx context.Context, url string) models.AnalysisResult
}

// API handles the HTTP server and routes
type API struct {
	reportRepo repository.ReportRepositoryInterface
	mb         messagebus.MessageBusInterface
	runner     Runner
	metrics    *metrics.APIMetrics
	log        *slog.Logger
	srv        *http.Server

	// runs tracks analyses still running in the background
	runs sync.WaitGroup
}

// AnalyzeRequest is the request body for the analyze endpoint
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// AnalyzeResponse is the response body for the analyze endpoint
type AnalyzeResponse struct {
	Report models.Report `json:"report"`
}

// NewAPI creates a new API with all dependencies
func NewAPI(
	reportRepo repository.ReportRepositoryInterface,
	mb messagebus.MessageBusInterface,
	runner Runner,
	metrics *metrics.APIMetrics,
	log *slog.Logger,
) *API {
	return &API{
		reportRepo: reportRepo,
		mb:         mb,
		runner:     runner,
		metrics:    metrics,
		log:        log,
	}
}

// Router builds the router with middlewares and routes
func (a *API) Router() *shift.Router {
	router := shift.New()
	router.Use(tracing.OtelMiddleware)
	router.Use(middleware.CORSMiddleware)
	if a.metrics != nil {
		router.Use(a.metrics.HTTPMiddleware)
	}
	router.Use(middleware.ErrorMiddleware(a.log))

	router.OPTIONS("/*wildcard", middleware.OptionsHandler)
	router.POST("/analyze", a.handleAnalyze)
	router.GET("/reports", a.handleGetReports)
	router.GET("/reports/:report_id", a.handleGetReport)

	return router
}

// Start starts the HTTP server
func (a *API) Start(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.Load()
	}
	addr := cfg.HTTP.Addr

	a.srv = &http.Server{
		Addr:         addr,
		Handler:      a.Router().Serve(),
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	a.log.Info("API server starting", slog.String("addr", addr))
	return a.srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for background analyses to finish
func (a *API) Shutdown(ctx context.Context) error {
	a.log.Info("Shutting down API server")

	var err error
	if a.srv != nil {
		err = a.srv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		a.runs.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		a.log.Warn("Background analyses still running at shutdown")
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}
