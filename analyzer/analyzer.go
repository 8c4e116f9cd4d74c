package analyzer

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"

	"github.com/tanushreec24/Webpage-Analyzer/shared/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/metrics"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

// EventPublisher receives analysis progress events
type EventPublisher interface {
	PublishAnalysisUpdate(ctx context.Context, m messagebus.AnalysisUpdateMessage) error
	PublishLinkStatus(ctx context.Context, m messagebus.LinkStatusMessage) error
}

// Analyzer fetches pages and runs the performance, link and duplication analyses
type Analyzer struct {
	client    *http.Client
	publisher EventPublisher
	metrics   metrics.AnalyzerMetricsInterface
	log       *slog.Logger
	cfg       config.AnalyzerConfig
}

// Option configures the Analyzer
type Option func(*Analyzer)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(s *Analyzer) {
		s.client = client
	}
}

// WithPublisher sets the publisher of progress events
func WithPublisher(publisher EventPublisher) Option {
	return func(s *Analyzer) {
		s.publisher = publisher
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(metrics metrics.AnalyzerMetricsInterface) Option {
	return func(s *Analyzer) {
		s.metrics = metrics
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Analyzer) {
		s.log = log
	}
}

// WithConfig sets the configuration
func WithConfig(cfg config.AnalyzerConfig) Option {
	return func(s *Analyzer) {
		s.cfg = cfg
	}
}

// NewAnalyzer creates a new analyzer. Without options it uses the default
// configuration, an untraced client that skips certificate checks, noop
// metrics and no event publishing.
func NewAnalyzer(opts ...Option) *Analyzer {
	s := &Analyzer{
		publisher: nopPublisher{},
		metrics:   metrics.NewNoopAnalyzerMetrics(),
		log:       slog.Default(),
		cfg: config.AnalyzerConfig{
			MaxWorkers:   config.DefaultMaxWorkers,
			FetchTimeout: config.DefaultFetchTimeout,
			ProbeTimeout: config.DefaultProbeTimeout,
			UserAgent:    config.DefaultUserAgent,
			MaxBodyBytes: config.DefaultMaxBodyBytes,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = &http.Client{Transport: NewTransport()}
	}
	if s.publisher == nil {
		s.publisher = nopPublisher{}
	}
	if s.cfg.MaxWorkers < 1 {
		s.cfg.MaxWorkers = 1
	}
	if s.cfg.UserAgent == "" {
		s.cfg.UserAgent = config.DefaultUserAgent
	}

	return s
}

// NewTransport returns the transport used for page fetches and link probes.
// Certificate verification is disabled so that pages with broken TLS setups
// can still be analyzed.
func NewTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	t.DisableCompression = true
	return t
}

// NewTracedClient wraps the analyzer transport with outbound tracing
func NewTracedClient() *http.Client {
	return &http.Client{Transport: tracing.HTTPClientMiddleware()(NewTransport())}
}

type nopPublisher struct{}

func (nopPublisher) PublishAnalysisUpdate(context.Context, messagebus.AnalysisUpdateMessage) error {
	return nil
}

func (nopPublisher) PublishLinkStatus(context.Context, messagebus.LinkStatusMessage) error {
	return nil
}
