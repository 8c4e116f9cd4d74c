package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

// startAnalysis runs the analysis of a stored report in the background.
// The run outlives the request but keeps its trace.
func (a *API) startAnalysis(ctx context.Context, report models.Report) {
	ctx = tracing.ContextWithReportID(context.WithoutCancel(ctx), report.ID)

	a.runs.Add(1)
	go func() {
		defer a.runs.Done()
		a.processReport(ctx, report)
	}()
}

// processReport moves the report through running to completed or failed
func (a *API) processReport(ctx context.Context, report models.Report) {
	start := time.Now()

	if err := a.reportRepo.UpdateReportStatus(ctx, report.ID, models.ReportStatusRunning); err != nil {
		a.log.Error("Failed to update report status",
			slog.String("reportId", report.ID),
			slog.Any("error", err))
	}
	a.publishReportUpdate(ctx, report, models.ReportStatusRunning, nil)

	result := a.runner.Analyze(ctx, report.URL)

	status := models.ReportStatusCompleted
	if result.Failed() {
		status = models.ReportStatusFailed
	}

	if err := a.reportRepo.CompleteReport(ctx, report.ID, status, &result); err != nil {
		a.log.Error("Failed to store analysis result",
			slog.String("reportId", report.ID),
			slog.Any("error", err))
		status = models.ReportStatusFailed
	}
	a.publishReportUpdate(ctx, report, status, &result)

	d := time.Since(start)
	if a.metrics != nil {
		a.metrics.RecordReportFinished(string(status), d)
	}

	a.log.Info("Report finished",
		slog.String("reportId", report.ID),
		slog.String("status", string(status)),
		slog.Int("failedAnalyses", len(result.Errors)),
		slog.Duration("processingTime", d))
}

// publishReportUpdate publishes a report status transition
func (a *API) publishReportUpdate(ctx context.Context, report models.Report, status models.ReportStatus, result *models.AnalysisResult) {
	if err := a.mb.PublishReportUpdate(ctx, messagebus.ReportUpdateMessage{
		ReportID: report.ID,
		URL:      report.URL,
		Status:   status,
		Result:   result,
	}); err != nil {
		a.log.Error("Failed to publish report update",
			slog.String("reportId", report.ID),
			slog.String("status", string(status)),
			slog.Any("error", err))
	}
}
