package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	analyzerServiceName = "analyzer"
)

type AnalyzerMetricsInterface interface {
	RecordAnalysisRun(success bool, duration float64)
	RecordAnalysis(kind string, success bool, duration float64)
	RecordLinkVerification(working bool, duration float64)
	RecordHTTPClientRequest(statusCode int, duration float64, method, requestType string)
	SetConcurrentLinkVerifications(count int)
	RecordDuplicateBlocks(count int)
}

type NoopAnalyzerMetrics struct{}

func NewNoopAnalyzerMetrics() AnalyzerMetricsInterface {
	return &NoopAnalyzerMetrics{}
}

func (n *NoopAnalyzerMetrics) MustRegisterAnalyzer()                       {}
func (n *NoopAnalyzerMetrics) SetServiceInfo(version, goVersion string)    {}
func (n *NoopAnalyzerMetrics) StartMetricsServer(port string) *http.Server { return nil }
func (n *NoopAnalyzerMetrics) RecordAnalysisRun(success bool, duration float64) {
}
func (n *NoopAnalyzerMetrics) RecordAnalysis(kind string, success bool, duration float64) {}
func (n *NoopAnalyzerMetrics) RecordLinkVerification(working bool, duration float64) {
}
func (n *NoopAnalyzerMetrics) RecordHTTPClientRequest(statusCode int, duration float64, method, requestType string) {
}
func (n *NoopAnalyzerMetrics) SetConcurrentLinkVerifications(count int) {}
func (n *NoopAnalyzerMetrics) RecordDuplicateBlocks(count int)          {}

type AnalyzerMetrics struct {
	*ServiceMetrics

	AnalysisRunsTotal     *prometheus.CounterVec
	AnalysisRunDuration   *prometheus.HistogramVec
	AnalysesTotal         *prometheus.CounterVec
	AnalysisDuration      *prometheus.HistogramVec
	DuplicateBlocksTotal  prometheus.Counter
	DuplicateBlocksInPage prometheus.Histogram

	LinksVerifiedTotal          *prometheus.CounterVec
	LinkVerificationDuration    *prometheus.HistogramVec
	ConcurrentLinkVerifications prometheus.Gauge

	HTTPClientRequestsTotal   *prometheus.CounterVec
	HTTPClientRequestDuration *prometheus.HistogramVec
}

func NewAnalyzerMetrics() *AnalyzerMetrics {
	baseMetrics := NewServiceMetrics(analyzerServiceName)

	analyzerMetrics := &AnalyzerMetrics{
		ServiceMetrics: baseMetrics,

		AnalysisRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "analysis_runs_total",
				Help:        "Total number of page analysis runs",
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{LabelStatus},
		),

		AnalysisRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "analysis_run_duration_seconds",
				Help:        "Total analysis time per page in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{},
		),

		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "analyses_completed_total",
				Help:        "Total number of analyses completed by kind",
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{LabelAnalysisKind, LabelStatus},
		),

		AnalysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "analysis_duration_seconds",
				Help:        "Analysis processing time by kind in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{LabelAnalysisKind},
		),

		DuplicateBlocksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name:        "duplicate_blocks_total",
				Help:        "Total number of duplicated text blocks found",
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
		),

		DuplicateBlocksInPage: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "duplicate_blocks_per_page",
				Help:        "Number of duplicated text blocks per analyzed page",
				Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100},
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
		),

		LinksVerifiedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "links_verified_total",
				Help:        "Total number of links verified",
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{"link_status"},
		),

		LinkVerificationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "link_verification_duration_seconds",
				Help:        "Link verification time in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{"link_status"},
		),

		ConcurrentLinkVerifications: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "concurrent_link_verifications",
				Help:        "Current number of in-flight link probes",
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
		),

		HTTPClientRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_client_requests_total",
				Help:        "Total number of outbound HTTP requests",
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{LabelStatus, LabelMethod, LabelRequestType},
		),

		HTTPClientRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_client_request_duration_seconds",
				Help:        "HTTP client request duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{LabelService: analyzerServiceName},
			},
			[]string{LabelMethod, LabelRequestType},
		),
	}

	return analyzerMetrics
}

func (m *AnalyzerMetrics) MustRegisterAnalyzer() {
	m.ServiceMetrics.MustRegister()
	m.MustRegisterAnalysis()
}

// MustRegisterAnalysis registers only the analysis collectors, for
// processes that embed the analyzer next to their own service metrics.
func (m *AnalyzerMetrics) MustRegisterAnalysis() {
	prometheus.MustRegister(
		m.AnalysisRunsTotal,
		m.AnalysisRunDuration,
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.DuplicateBlocksTotal,
		m.DuplicateBlocksInPage,
		m.LinksVerifiedTotal,
		m.LinkVerificationDuration,
		m.ConcurrentLinkVerifications,
		m.HTTPClientRequestsTotal,
		m.HTTPClientRequestDuration,
	)
}

func (m *AnalyzerMetrics) RecordAnalysisRun(success bool, duration float64) {
	status := "success"
	if !success {
		status = "error"
	}

	m.AnalysisRunsTotal.WithLabelValues(status).Inc()
	m.AnalysisRunDuration.WithLabelValues().Observe(duration)
}

func (m *AnalyzerMetrics) RecordAnalysis(kind string, success bool, duration float64) {
	status := "success"
	if !success {
		status = "error"
	}
	m.AnalysesTotal.WithLabelValues(kind, status).Inc()
	m.AnalysisDuration.WithLabelValues(kind).Observe(duration)
}

func (m *AnalyzerMetrics) RecordLinkVerification(working bool, duration float64) {
	outcome := "working"
	if !working {
		outcome = "broken"
	}

	m.LinksVerifiedTotal.WithLabelValues(outcome).Inc()
	m.LinkVerificationDuration.WithLabelValues(outcome).Observe(duration)
}

func (m *AnalyzerMetrics) RecordHTTPClientRequest(status int, duration float64, method, requestType string) {
	m.HTTPClientRequestsTotal.WithLabelValues(strconv.Itoa(status), method, requestType).Inc()
	m.HTTPClientRequestDuration.WithLabelValues(method, requestType).Observe(duration)
}

func (m *AnalyzerMetrics) SetConcurrentLinkVerifications(count int) {
	m.ConcurrentLinkVerifications.Set(float64(count))
}

func (m *AnalyzerMetrics) RecordDuplicateBlocks(count int) {
	m.DuplicateBlocksTotal.Add(float64(count))
	m.DuplicateBlocksInPage.Observe(float64(count))
}
