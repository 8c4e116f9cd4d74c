package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span is a span that records the outcome of the operation it covers
type Span struct {
	trace.Span

	Close func(error)
}

func newSpan(ctx context.Context, span trace.Span) *Span {
	return &Span{
		Span: span,
		Close: func(err error) {
			if err != nil {
				SetError(ctx, err)
			}
			span.End()
		},
	}
}

// CreateDatabaseSpan creates a span for database operations
func CreateDatabaseSpan(ctx context.Context, operation, table string) (context.Context, *Span) {
	ctx, span := StartSpan(ctx, "db."+operation)
	span.SetAttributes(
		attribute.String("db.system", "dynamodb"),
		attribute.String("db.operation", operation),
		attribute.String("db.table", table),
	)
	return ctx, newSpan(ctx, span)
}

// CreateAnalysisSpan creates a span for one analysis of a page
func CreateAnalysisSpan(ctx context.Context, kind, pageURL string) (context.Context, *Span) {
	ctx, span := StartSpan(ctx, "analysis."+kind)
	span.SetAttributes(
		attribute.String("analysis.kind", kind),
		attribute.String("analysis.url", pageURL),
	)
	if id := ReportIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("analysis.report_id", id))
	}
	return ctx, newSpan(ctx, span)
}

type reportIDKey struct{}

// ContextWithReportID attaches the report being produced to ctx
func ContextWithReportID(ctx context.Context, reportID string) context.Context {
	return context.WithValue(ctx, reportIDKey{}, reportID)
}

// ReportIDFromContext returns the report ID attached to ctx, if any
func ReportIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(reportIDKey{}).(string)
	return id
}
