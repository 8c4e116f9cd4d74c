package notifications

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tanushreec24/Webpage-Analyzer/shared/config"
	"github.com/tanushreec24/Webpage-Analyzer/shared/messagebus"
	"github.com/yousuf64/shift"
)

// ErrHubFull is returned when the hub already holds the maximum number of connections
var ErrHubFull = errors.New("too many websocket connections")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// MetricsCollector receives hub metrics
type MetricsCollector interface {
	RecordWebSocketConnection(success bool)
	SetActiveWebSocketConnections(count int)
	RecordWebSocketMessage(messageType string, success bool, duration float64)
	RecordWebSocketConnectionDuration(duration float64)
	RecordGroupSubscription(action string)
	SetActiveGroupSubscriptions(count int)
}

type noopMetrics struct{}

func (noopMetrics) RecordWebSocketConnection(bool) {}
func (noopMetrics) SetActiveWebSocketConnections(int) {}
func (noopMetrics) RecordWebSocketMessage(string, bool, float64) {}
func (noopMetrics) RecordWebSocketConnectionDuration(float64) {}
func (noopMetrics) RecordGroupSubscription(string) {}
func (noopMetrics) SetActiveGroupSubscriptions(int) {}

// Hub manages WebSocket connections and message broadcasting
type Hub struct {
	connections   map[*Connection]bool
	subscriptions int
	mu            sync.RWMutex
	metrics       MetricsCollector
	cfg           config.WebSocketConfig
	log           *slog.Logger
}

// HubOption configures the Hub
type HubOption func(*Hub)

// NewHub creates a new WebSocket hub with optional configurations
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		connections: make(map[*Connection]bool),
		metrics:     noopMetrics{},
		cfg: config.WebSocketConfig{
			MaxConnections: 1000,
			ReadTimeout:    60,
			WriteTimeout:   10,
		},
		log: slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// WithHubMetrics sets the metrics collector for the hub
func WithHubMetrics(m MetricsCollector) HubOption {
	return func(h *Hub) {
		if m != nil {
			h.metrics = m
		}
	}
}

// WithHubLogger sets the logger for the hub
func WithHubLogger(log *slog.Logger) HubOption {
	return func(h *Hub) { h.log = log }
}

// WithHubConfig sets the connection limit and timeouts
func WithHubConfig(cfg config.WebSocketConfig) HubOption {
	return func(h *Hub) { h.cfg = cfg }
}

func (h *Hub) readTimeout() time.Duration {
	return time.Duration(h.cfg.ReadTimeout) * time.Second
}

func (h *Hub) writeTimeout() time.Duration {
	return time.Duration(h.cfg.WriteTimeout) * time.Second
}

// AddConnection adds a new WebSocket connection to the hub
func (h *Hub) AddConnection(conn *Connection) error {
	h.mu.Lock()
	if h.cfg.MaxConnections > 0 && len(h.connections) >= h.cfg.MaxConnections {
		h.mu.Unlock()
		h.metrics.RecordWebSocketConnection(false)
		return ErrHubFull
	}
	h.connections[conn] = true
	count := len(h.connections)
	h.mu.Unlock()

	h.metrics.RecordWebSocketConnection(true)
	h.metrics.SetActiveWebSocketConnections(count)

	h.log.Info("New WebSocket connection established", slog.Int("total", count))
	return nil
}

// RemoveConnection removes a WebSocket connection from the hub.
// Removing a connection twice is a no-op.
func (h *Hub) RemoveConnection(conn *Connection) {
	h.mu.Lock()
	if !h.connections[conn] {
		h.mu.Unlock()
		return
	}
	delete(h.connections, conn)
	h.subscriptions -= conn.GroupCount()
	count, subs := len(h.connections), h.subscriptions
	h.mu.Unlock()

	h.metrics.RecordWebSocketConnectionDuration(time.Since(conn.start).Seconds())
	h.metrics.SetActiveWebSocketConnections(count)
	h.metrics.SetActiveGroupSubscriptions(subs)

	h.log.Info("WebSocket connection closed", slog.Int("total", count))
}

// ConnectionCount returns the number of open connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// BroadcastToGroup sends a message to all connections subscribed to a report.
// An empty group sends to every connection.
func (h *Hub) BroadcastToGroup(messageType messagebus.MessageType, msg any, group string) {
	start := time.Now()

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("Failed to marshal message", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.connections))
	for conn := range h.connections {
		// If group specified, only send to connections subscribed to that group
		if group != "" && !conn.HasGroup(group) {
			continue
		}
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	successCount := 0
	for _, conn := range targets {
		if err := conn.WriteMessage(data); err != nil {
			h.log.Warn("Failed to write to websocket", slog.Any("error", err))

			// Drop the connection, its read loop exits on close
			h.RemoveConnection(conn)
			conn.Close()
			continue
		}
		successCount++
	}

	h.metrics.RecordWebSocketMessage(string(messageType), successCount == len(targets), time.Since(start).Seconds())
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(messageType messagebus.MessageType, msg any) {
	h.BroadcastToGroup(messageType, msg, "")
}

// subscribe adds conn to a group and updates subscription metrics
func (h *Hub) subscribe(conn *Connection, group string) {
	h.mu.Lock()
	if conn.AddGroup(group) {
		h.subscriptions++
	}
	subs := h.subscriptions
	h.mu.Unlock()

	h.metrics.RecordGroupSubscription("subscribe")
	h.metrics.SetActiveGroupSubscriptions(subs)
}

// unsubscribe removes conn from a group and updates subscription metrics
func (h *Hub) unsubscribe(conn *Connection, group string) {
	h.mu.Lock()
	if conn.RemoveGroup(group) {
		h.subscriptions--
	}
	subs := h.subscriptions
	h.mu.Unlock()

	h.metrics.RecordGroupSubscription("unsubscribe")
	h.metrics.SetActiveGroupSubscriptions(subs)
}

// Close shuts down the hub and closes all connections
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		conn.Close()
	}

	h.connections = make(map[*Connection]bool)
	h.subscriptions = 0
	h.log.Info("WebSocket hub closed")
}

// Connection represents a WebSocket connection with report subscriptions
type Connection struct {
	conn    *websocket.Conn
	groups  []string
	mu      sync.RWMutex
	writeMu sync.Mutex
	hub     *Hub
	log     *slog.Logger
	start   time.Time
}

// SubscriptionMessage represents a subscription/unsubscription request.
// Group is a report ID.
type SubscriptionMessage struct {
	Action string `json:"action"`
	Group  string `json:"group"`
}

// NewConnection creates a new WebSocket connection wrapper
func NewConnection(conn *websocket.Conn, hub *Hub, log *slog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		groups: make([]string, 0),
		hub:    hub,
		log:    log,
		start:  time.Now(),
	}
}

// AddGroup adds the connection to a subscription group and reports whether it was added
func (c *Connection) AddGroup(group string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slices.Contains(c.groups, group) {
		return false
	}
	c.groups = append(c.groups, group)
	return true
}

// RemoveGroup removes the connection from a subscription group and reports whether it was a member
func (c *Connection) RemoveGroup(group string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.Index(c.groups, group)
	if i < 0 {
		return false
	}
	c.groups = slices.Delete(c.groups, i, i+1)
	return true
}

// HasGroup checks if the connection is subscribed to a group
func (c *Connection) HasGroup(group string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.groups, group)
}

// GroupCount returns the number of groups the connection is subscribed to
func (c *Connection) GroupCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.groups)
}

// WriteMessage sends a message to the WebSocket connection.
// Writes are serialized, NATS handlers run on separate goroutines.
func (c *Connection) WriteMessage(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if d := c.hub.writeTimeout(); d > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(d))
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// ping sends a control ping to keep idle connections alive
func (c *Connection) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second*5))
}

// Close closes the WebSocket connection
func (c *Connection) Close() error {
	return c.conn.Close()
}

// extendReadDeadline pushes the read deadline forward by the hub's read timeout
func (c *Connection) extendReadDeadline() {
	if d := c.hub.readTimeout(); d > 0 {
		c.conn.SetReadDeadline(time.Now().Add(d))
	}
}

// ReadLoop continuously reads messages from the WebSocket connection
func (c *Connection) ReadLoop() {
	done := make(chan struct{})
	defer func() {
		close(done)
		c.hub.RemoveConnection(c)
		c.conn.Close()
	}()

	c.extendReadDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	if d := c.hub.readTimeout(); d > 0 {
		go c.pingLoop(d*9/10, done)
	}

	for {
		msgType, p, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Error("Unexpected websocket close error", slog.Any("error", err))
			}
			break
		}
		c.extendReadDeadline()

		if msgType == websocket.TextMessage {
			c.handleSubscriptionMessage(p)
		}
	}
}

// pingLoop pings the client until done is closed or a ping fails
func (c *Connection) pingLoop(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

// handleSubscriptionMessage processes subscription/unsubscription requests
func (c *Connection) handleSubscriptionMessage(data []byte) {
	var sub SubscriptionMessage
	if err := json.Unmarshal(data, &sub); err != nil {
		c.log.Warn("Failed to unmarshal subscription message", slog.Any("error", err))
		return
	}

	if sub.Group == "" {
		c.log.Warn("Subscription message without group", slog.String("action", sub.Action))
		return
	}

	switch sub.Action {
	case "subscribe":
		c.hub.subscribe(c, sub.Group)
		c.log.Info("Added subscription for report", slog.String("reportId", sub.Group))

	case "unsubscribe":
		c.hub.unsubscribe(c, sub.Group)
		c.log.Info("Removed subscription for report", slog.String("reportId", sub.Group))

	default:
		c.log.Warn("Unknown subscription action", slog.String("action", sub.Action))
	}
}

// Handler handles WebSocket HTTP requests and upgrades them to WebSocket connections
type Handler struct {
	hub *Hub
	log *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, log *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		log: log,
	}
}

// HandleWebSocket upgrades HTTP requests to WebSocket connections
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if limit := h.hub.cfg.MaxConnections; limit > 0 && h.hub.ConnectionCount() >= limit {
		h.hub.metrics.RecordWebSocketConnection(false)
		http.Error(w, ErrHubFull.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade websocket connection", slog.Any("error", err))
		h.hub.metrics.RecordWebSocketConnection(false)
		return
	}

	// Create connection wrapper
	wsConn := NewConnection(conn, h.hub, h.log)

	// Add to hub, the limit may have been reached during the upgrade
	if err := h.hub.AddConnection(wsConn); err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}

	// Start reading messages in goroutine
	go wsConn.ReadLoop()
}

// Route adapts HandleWebSocket to a shift route
func (h *Handler) Route(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	h.HandleWebSocket(w, r)
	return nil
}
