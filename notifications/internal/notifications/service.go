package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
)

// NotificationService forwards report and analysis events from NATS to WebSocket clients
type NotificationService struct {
	hub  *Hub
	mb   messagebus.MessageBusInterface
	log  *slog.Logger
	subs []*nats.Subscription
}

// Option configures the NotificationService
type Option func(*NotificationService)

// NewNotificationService creates a new notification service with WebSocket hub and message bus
func NewNotificationService(
	hub *Hub,
	mb messagebus.MessageBusInterface,
	opts ...Option,
) *NotificationService {
	s := &NotificationService{
		hub:  hub,
		mb:   mb,
		log:  slog.Default(),
		subs: make([]*nats.Subscription, 0),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *NotificationService) { s.log = log }
}

// Start initializes all NATS subscriptions for the notification service
func (s *NotificationService) Start(ctx context.Context) error {
	s.log.Info("Starting notification service subscriptions")

	if err := s.setupReportUpdateSubscription(); err != nil {
		s.Stop()
		return err
	}

	if err := s.setupAnalysisUpdateSubscription(); err != nil {
		s.Stop()
		return err
	}

	if err := s.setupLinkStatusSubscription(); err != nil {
		s.Stop()
		return err
	}

	s.log.Info("All NATS subscriptions established", slog.Int("count", len(s.subs)))
	return nil
}

// Stop unsubscribes from all NATS subscriptions
func (s *NotificationService) Stop() {
	s.log.Info("Stopping notification service", slog.Int("subscriptions", len(s.subs)))

	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.log.Error("Failed to unsubscribe", slog.Any("error", err))
		}
	}

	s.subs = s.subs[:0]
}

// GetWebSocketHandler returns the WebSocket handler for HTTP routing
func (s *NotificationService) GetWebSocketHandler() *Handler {
	return NewHandler(s.hub, s.log)
}

// setupReportUpdateSubscription broadcasts report status transitions to every client
func (s *NotificationService) setupReportUpdateSubscription() error {
	sub, err := s.mb.SubscribeToReportUpdate(func(ctx context.Context, msg *nats.Msg) {
		var m messagebus.ReportUpdateMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			s.log.Error("Failed to unmarshal report update", slog.Any("error", err))
			return
		}

		s.log.Info("Broadcasting report update",
			slog.String("reportId", m.ReportID),
			slog.String("status", string(m.Status)))
		s.hub.Broadcast(messagebus.ReportUpdateMessageType, m)
	})

	if err != nil {
		s.log.Error("Failed to subscribe to report updates", slog.Any("error", err))
		return err
	}

	s.subs = append(s.subs, sub)
	return nil
}

// setupAnalysisUpdateSubscription forwards analysis progress to the clients watching the report
func (s *NotificationService) setupAnalysisUpdateSubscription() error {
	sub, err := s.mb.SubscribeToAnalysisUpdate(func(ctx context.Context, msg *nats.Msg) {
		var m messagebus.AnalysisUpdateMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			s.log.Error("Failed to unmarshal analysis update", slog.Any("error", err))
			return
		}

		if m.ReportID == "" {
			return
		}

		s.log.Debug("Broadcasting analysis update",
			slog.String("reportId", m.ReportID),
			slog.String("analysis", string(m.Analysis)),
			slog.String("status", string(m.Status)))
		s.hub.BroadcastToGroup(messagebus.AnalysisUpdateMessageType, m, m.ReportID)
	})

	if err != nil {
		s.log.Error("Failed to subscribe to analysis updates", slog.Any("error", err))
		return err
	}

	s.subs = append(s.subs, sub)
	return nil
}

// setupLinkStatusSubscription forwards link verification states to the clients watching the report
func (s *NotificationService) setupLinkStatusSubscription() error {
	sub, err := s.mb.SubscribeToLinkStatus(func(ctx context.Context, msg *nats.Msg) {
		var m messagebus.LinkStatusMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			s.log.Error("Failed to unmarshal link status", slog.Any("error", err))
			return
		}

		if m.ReportID == "" {
			return
		}

		s.log.Debug("Broadcasting link status",
			slog.String("reportId", m.ReportID),
			slog.String("key", m.Key),
			slog.String("state", string(m.State)),
			slog.String("url", m.URL),
			slog.String("description", m.Description))
		s.hub.BroadcastToGroup(messagebus.LinkStatusMessageType, m, m.ReportID)
	})

	if err != nil {
		s.log.Error("Failed to subscribe to link status updates", slog.Any("error", err))
		return err
	}

	s.subs = append(s.subs, sub)
	return nil
}
