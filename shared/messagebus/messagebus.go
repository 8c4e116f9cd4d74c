package messagebus

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tanushreec24/Webpage-Analyzer/shared/models"
	"github.com/tanushreec24/Webpage-Analyzer/shared/tracing"
)

//go:generate mockgen -destination=../mocks/mock_messagebus.go -package=mocks . MessageBusInterface

type MessageBusInterface interface {
	PublishReportUpdate(ctx context.Context, m ReportUpdateMessage) error
	PublishAnalysisUpdate(ctx context.Context, m AnalysisUpdateMessage) error
	PublishLinkStatus(ctx context.Context, m LinkStatusMessage) error
	SubscribeToReportUpdate(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error)
	SubscribeToAnalysisUpdate(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error)
	SubscribeToLinkStatus(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error)
}

type MessageType string

const (
	ReportUpdateMessageType   MessageType = "report.update"
	AnalysisUpdateMessageType MessageType = "analysis.update"
	LinkStatusMessageType     MessageType = "analysis.link_status"
)

// ReportUpdateMessage announces a report status transition
type ReportUpdateMessage struct {
	Type     MessageType            `json:"type"`
	ReportID string                 `json:"report_id"`
	URL      string                 `json:"url"`
	Status   models.ReportStatus    `json:"status"`
	Result   *models.AnalysisResult `json:"result,omitempty"`
}

// AnalysisUpdateMessage announces the progress of one analysis of a report
type AnalysisUpdateMessage struct {
	Type     MessageType           `json:"type"`
	ReportID string                `json:"report_id"`
	URL      string                `json:"url"`
	Analysis models.AnalysisKind   `json:"analysis"`
	Status   models.AnalysisStatus `json:"status"`
	Error    string                `json:"error,omitempty"`
}

// LinkStatusMessage announces the verification state of one link.
// Key is the 1-based position of the link in the verification batch.
type LinkStatusMessage struct {
	Type        MessageType      `json:"type"`
	ReportID    string           `json:"report_id"`
	Key         string           `json:"key"`
	URL         string           `json:"url"`
	Internal    bool             `json:"internal"`
	State       models.LinkState `json:"state"`
	Description string           `json:"description,omitempty"`
}

// MessageBus provides a NATS message bus for publishing and subscribing to messages
type MessageBus struct {
	nc      *nats.Conn
	metrics MetricsCollector
	log     *slog.Logger
}

// New creates a new message bus
func New(nc *nats.Conn, metrics MetricsCollector) *MessageBus {
	if metrics == nil {
		metrics = nopCollector{}
	}
	return &MessageBus{
		nc:      nc,
		metrics: metrics,
		log:     slog.Default().With(slog.String("component", "messagebus")),
	}
}

// PublishReportUpdate publishes a report update message to NATS
func (b *MessageBus) PublishReportUpdate(ctx context.Context, m ReportUpdateMessage) error {
	m.Type = ReportUpdateMessageType
	return b.publish(ctx, ReportUpdateMessageType, m)
}

// PublishAnalysisUpdate publishes an analysis progress message to NATS
func (b *MessageBus) PublishAnalysisUpdate(ctx context.Context, m AnalysisUpdateMessage) error {
	m.Type = AnalysisUpdateMessageType
	return b.publish(ctx, AnalysisUpdateMessageType, m)
}

// PublishLinkStatus publishes a link verification message to NATS
func (b *MessageBus) PublishLinkStatus(ctx context.Context, m LinkStatusMessage) error {
	m.Type = LinkStatusMessageType
	return b.publish(ctx, LinkStatusMessageType, m)
}

// publish marshals v and publishes it under the message type's subject
func (b *MessageBus) publish(ctx context.Context, messageType MessageType, v any) (err error) {
	defer func() {
		b.metrics.RecordNATSPublish(string(messageType), err == nil)
	}()

	data, err := json.Marshal(v)
	if err != nil {
		b.log.Error("Failed to marshal message",
			slog.String("type", string(messageType)),
			slog.Any("error", err))
		return err
	}

	err = b.publishMsg(ctx, data, messageType)
	if err != nil {
		b.log.Error("Failed to publish message",
			slog.String("type", string(messageType)),
			slog.Any("error", err))
	}
	return err
}

// publishMsg publishes a message to NATS with trace context in headers
func (b *MessageBus) publishMsg(ctx context.Context, data []byte, messageType MessageType) (err error) {
	ctx, span := tracing.CreateNATSPublishSpan(ctx, string(messageType))
	defer span.End()

	msg := &nats.Msg{
		Subject: string(messageType),
		Data:    data,
		Header:  make(nats.Header),
	}

	tracing.InjectNATSHeaders(ctx, msg)

	err = b.nc.PublishMsg(msg)
	if err != nil {
		tracing.SetError(ctx, err)
	}
	return err
}

// SubscribeToReportUpdate subscribes to report update messages
func (b *MessageBus) SubscribeToReportUpdate(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error) {
	h := b.wrapHandler(ReportUpdateMessageType, handler)
	return b.nc.Subscribe(string(ReportUpdateMessageType), h)
}

// SubscribeToAnalysisUpdate subscribes to analysis progress messages
func (b *MessageBus) SubscribeToAnalysisUpdate(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error) {
	h := b.wrapHandler(AnalysisUpdateMessageType, handler)
	return b.nc.Subscribe(string(AnalysisUpdateMessageType), h)
}

// SubscribeToLinkStatus subscribes to link verification messages
func (b *MessageBus) SubscribeToLinkStatus(handler func(ctx context.Context, m *nats.Msg)) (*nats.Subscription, error) {
	h := b.wrapHandler(LinkStatusMessageType, handler)
	return b.nc.Subscribe(string(LinkStatusMessageType), h)
}

// wrapHandler wraps the original handler to automatically inject trace context and record receive metrics
func (b *MessageBus) wrapHandler(messageType MessageType, handler func(ctx context.Context, m *nats.Msg)) nats.MsgHandler {
	return func(m *nats.Msg) {
		ctx := tracing.ExtractNATSHeaders(context.Background(), m)
		ctx, span := tracing.CreateNATSConsumeSpan(ctx, m.Subject)
		defer span.End()

		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				// If handler panics, record as error
				b.metrics.RecordNATSReceive(string(messageType), time.Since(start), false)
				panic(r)
			} else {
				b.metrics.RecordNATSReceive(string(messageType), time.Since(start), true)
			}
		}()

		handler(ctx, m)
	}
}
