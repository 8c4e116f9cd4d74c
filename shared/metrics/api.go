package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	apiServiceName = "api"
)

type APIMetrics struct {
	*ServiceMetrics

	ReportsSubmittedTotal    *prometheus.CounterVec
	ReportSubmissionDuration *prometheus.HistogramVec
	ReportsFinishedTotal     *prometheus.CounterVec
	ReportProcessingDuration *prometheus.HistogramVec
}

func NewAPIMetrics() *APIMetrics {
	baseMetrics := NewServiceMetrics(apiServiceName)

	apiMetrics := &APIMetrics{
		ServiceMetrics: baseMetrics,

		ReportsSubmittedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reports_submitted_total",
				Help:        "Total number of analysis reports submitted",
				ConstLabels: prometheus.Labels{LabelService: apiServiceName},
			},
			[]string{LabelStatus},
		),

		ReportSubmissionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "report_submission_duration_seconds",
				Help:        "Time taken to accept a report submission in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: prometheus.Labels{LabelService: apiServiceName},
			},
			[]string{},
		),

		ReportsFinishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "reports_finished_total",
				Help:        "Total number of reports that reached a final status",
				ConstLabels: prometheus.Labels{LabelService: apiServiceName},
			},
			[]string{LabelReportStatus},
		),

		ReportProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "report_processing_duration_seconds",
				Help:        "Background analysis time per report in seconds",
				Buckets:     []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
				ConstLabels: prometheus.Labels{LabelService: apiServiceName},
			},
			[]string{},
		),
	}

	return apiMetrics
}

func (m *APIMetrics) MustRegisterAPI() {
	m.ServiceMetrics.MustRegister()

	prometheus.MustRegister(
		m.ReportsSubmittedTotal,
		m.ReportSubmissionDuration,
		m.ReportsFinishedTotal,
		m.ReportProcessingDuration,
	)
}

func (m *APIMetrics) RecordReportSubmission(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ReportsSubmittedTotal.WithLabelValues(status).Inc()
	m.ReportSubmissionDuration.WithLabelValues().Observe(duration.Seconds())
}

func (m *APIMetrics) RecordReportFinished(status string, duration time.Duration) {
	m.ReportsFinishedTotal.WithLabelValues(status).Inc()
	m.ReportProcessingDuration.WithLabelValues().Observe(duration.Seconds())
}
