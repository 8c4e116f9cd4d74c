package repository

import (
	"context"
	"time"

	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

// Operation names recorded for the reports table
const (
	opCreateTable    = "create_table"
	opCreateReport   = "create_report"
	opGetReport      = "get_report"
	opQueryReports   = "query_reports"
	opUpdateStatus   = "update_report_status"
	opCompleteReport = "complete_report"
)

// MetricsCollector records the outcome and latency of report storage calls
type MetricsCollector interface {
	RecordDatabaseOperation(operation, table string, start time.Time, err error)
}

type nopCollector struct{}

func (nopCollector) RecordDatabaseOperation(string, string, time.Time, error) {}

func collectorOrNop(mc MetricsCollector) MetricsCollector {
	if mc == nil {
		return nopCollector{}
	}
	return mc
}

// track starts the span of a reports table operation. The returned func
// ends the span and records the operation with its error.
func track(ctx context.Context, mc MetricsCollector, operation string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := tracing.CreateDatabaseSpan(ctx, operation, ReportsTableName)
	return ctx, func(err error) {
		mc.RecordDatabaseOperation(operation, ReportsTableName, start, err)
		span.Close(err)
	}
}

func (r *ReportRepository) track(ctx context.Context, operation string) (context.Context, func(error)) {
	return track(ctx, r.mc, operation)
}
