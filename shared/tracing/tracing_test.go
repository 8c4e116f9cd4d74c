package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yousuf64/shift"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := tracer
	tracer = tp.Tracer("test")
	otel.SetTextMapPropagator(newPropagator())

	t.Cleanup(func() {
		tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestCreateAnalysisSpan_RecordsReportAndError(t *testing.T) {
	sr := setupRecorder(t)

	ctx := ContextWithReportID(context.Background(), "01HZXREPORT")
	_, span := CreateAnalysisSpan(ctx, "links", "https://example.com")
	span.Close(errors.New("fetch failed"))

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "analysis.links", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "01HZXREPORT", attrs["analysis.report_id"])
	assert.Equal(t, "https://example.com", attrs["analysis.url"])
}

func TestReportIDFromContext_Missing(t *testing.T) {
	assert.Empty(t, ReportIDFromContext(context.Background()))
}

func TestHTTPClientMiddleware_InjectsTraceContext(t *testing.T) {
	sr := setupRecorder(t)

	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("Traceparent")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := &http.Client{Transport: HTTPClientMiddleware()(http.DefaultTransport)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotEmpty(t, traceparent)
	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestOtelMiddleware_CapturesStatus(t *testing.T) {
	sr := setupRecorder(t)

	router := shift.New()
	router.Use(OtelMiddleware)
	router.GET("/reports/:report_id", func(w http.ResponseWriter, r *http.Request, route shift.Route) error {
		w.WriteHeader(http.StatusNotFound)
		return nil
	})

	rec := httptest.NewRecorder()
	router.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/abc", nil))

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /reports/:report_id", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestNATSHeaders_CarryTraceAndReport(t *testing.T) {
	sr := setupRecorder(t)

	ctx := ContextWithReportID(context.Background(), "01HZXREPORT")
	ctx, span := CreateNATSPublishSpan(ctx, "analysis.link_status")
	msg := &nats.Msg{Subject: "analysis.link_status"}
	InjectNATSHeaders(ctx, msg)
	span.End()

	assert.Equal(t, "01HZXREPORT", msg.Header.Get(ReportIDHeader))

	consumed := ExtractNATSHeaders(context.Background(), msg)
	assert.Equal(t, "01HZXREPORT", ReportIDFromContext(consumed), "the report ID survives the hop")
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(consumed).TraceID())

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "event.publish analysis.link_status", ended[0].Name())
	assert.Equal(t, trace.SpanKindProducer, ended[0].SpanKind())
}

func TestExtractNATSHeaders_NoHeaders(t *testing.T) {
	ctx := ExtractNATSHeaders(context.Background(), &nats.Msg{})
	assert.Empty(t, ReportIDFromContext(ctx))
	assert.False(t, trace.SpanContextFromContext(ctx).IsValid())
}
