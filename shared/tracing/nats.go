package tracing

import (
	"context"
	"net/http"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// ReportIDHeader carries the report an event belongs to
const ReportIDHeader = "Report-Id"

// InjectNATSHeaders writes the trace context and the report ID of ctx into
// the message headers
func InjectNATSHeaders(ctx context.Context, msg *nats.Msg) {
	if msg.Header == nil {
		msg.Header = make(nats.Header)
	}
	carrier := propagation.HeaderCarrier(http.Header(msg.Header))
	GetPropagator().Inject(ctx, carrier)

	if id := ReportIDFromContext(ctx); id != "" {
		carrier.Set(ReportIDHeader, id)
	}
}

// ExtractNATSHeaders restores the trace context and report ID written by
// InjectNATSHeaders
func ExtractNATSHeaders(ctx context.Context, msg *nats.Msg) context.Context {
	if msg.Header == nil {
		return ctx
	}
	carrier := propagation.HeaderCarrier(http.Header(msg.Header))
	ctx = GetPropagator().Extract(ctx, carrier)

	if id := carrier.Get(ReportIDHeader); id != "" {
		ctx = ContextWithReportID(ctx, id)
	}
	return ctx
}

// CreateNATSPublishSpan creates a producer span for an analysis event
func CreateNATSPublishSpan(ctx context.Context, subject string) (context.Context, trace.Span) {
	return startEventSpan(ctx, "publish", subject, trace.SpanKindProducer)
}

// CreateNATSConsumeSpan creates a consumer span for an analysis event
func CreateNATSConsumeSpan(ctx context.Context, subject string) (context.Context, trace.Span) {
	return startEventSpan(ctx, "consume", subject, trace.SpanKindConsumer)
}

func startEventSpan(ctx context.Context, operation, subject string, kind trace.SpanKind) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "event."+operation+" "+subject, trace.WithSpanKind(kind))
	span.SetAttributes(
		attribute.String("messaging.system", "nats"),
		attribute.String("messaging.operation", operation),
		attribute.String("messaging.destination.name", subject),
	)
	if id := ReportIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("analysis.report_id", id))
	}
	return ctx, span
}
