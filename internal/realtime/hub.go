package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/config"
	"github.com/AbhignaKuchukulla/Issueflow/internal/events"
	"github.com/AbhignaKuchukulla/Issueflow/internal/observability"
)

// Frame names handled on the inbound side.
const (
	FrameUserLogin = "user:login"
	FramePing      = "ping"
	FramePong      = "pong"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 64 * 1024
)

// Frame is the JSON envelope of every websocket message.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// PresenceUpdate is the data of a presence:update frame.
type PresenceUpdate struct {
	UserID      string   `json:"userId"`
	IsOnline    bool     `json:"isOnline"`
	OnlineUsers []string `json:"onlineUsers"`
}

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// Hub fans mutation events out to every connected session and tracks presence.
// Delivery is best-effort: a session whose queue is full misses the frame.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	presence *PresenceTracker

	upgrader     websocket.Upgrader
	sendBuffer   int
	writeTimeout time.Duration
	logger       *zap.Logger
	metrics      *observability.Metrics
}

// NewHub builds a hub. allowedOrigins is a comma list, "*" accepts any origin.
func NewHub(cfg config.RealtimeConfig, allowedOrigins string, presence *PresenceTracker, logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if presence == nil {
		presence = NewPresenceTracker(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sendBuffer := cfg.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Hub{
		clients:  make(map[*client]struct{}),
		presence: presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		sendBuffer:   sendBuffer,
		writeTimeout: cfg.WriteTimeout(),
		logger:       logger,
		metrics:      metrics,
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	list := map[string]bool{}
	for _, o := range strings.Split(allowed, ",") {
		if o = strings.TrimSpace(o); o != "" {
			list[o] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || list["*"] || list[origin]
	}
}

// Subscribe forwards every mutation event published on d to all sessions.
func (h *Hub) Subscribe(d events.Dispatcher) {
	d.SubscribeAll(func(_ context.Context, event events.Event) error {
		if event.Type == events.EventPresenceUpdate {
			return nil
		}
		h.Broadcast(string(event.Type), event.Payload)
		return nil
	})
}

// Broadcast queues one frame on every session, including the originator's.
func (h *Hub) Broadcast(event string, data any) {
	msg, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		h.logger.Error("encode frame", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		h.enqueue(c, event, msg)
	}
}

// enqueue must be called with h.mu held.
func (h *Hub) enqueue(c *client, event string, msg []byte) {
	select {
	case c.send <- msg:
		h.metrics.RecordFrame(event, true)
	default:
		h.metrics.RecordFrame(event, false)
		h.logger.Debug("frame dropped, send queue full",
			zap.String("connection_id", c.id),
			zap.String("event", event))
	}
}

// Online returns the presence snapshot.
func (h *Hub) Online() []PresenceEntry {
	return h.presence.Online()
}

func (h *Hub) connectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and serves the session until it disconnects.
// A userId query parameter logs the session in immediately.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}
	h.register(c)
	go h.writePump(c)

	if userID := strings.TrimSpace(r.URL.Query().Get("userId")); userID != "" {
		h.login(c, userID)
	}
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.ConnectionOpened()
	h.logger.Debug("realtime session opened", zap.String("connection_id", c.id))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	userID := c.userID
	h.mu.Unlock()

	h.metrics.ConnectionClosed()
	if userID != "" && h.presence.Detach(userID, c.id) {
		h.broadcastPresence(userID, false)
	}
	h.logger.Debug("realtime session closed", zap.String("connection_id", c.id), zap.String("user_id", userID))
}

func (h *Hub) login(c *client, userID string) {
	h.mu.Lock()
	previous := c.userID
	c.userID = userID
	h.mu.Unlock()

	if previous != "" && previous != userID && h.presence.Detach(previous, c.id) {
		h.broadcastPresence(previous, false)
	}
	h.presence.Attach(userID, c.id)
	h.broadcastPresence(userID, true)
}

func (h *Hub) broadcastPresence(userID string, online bool) {
	h.Broadcast(string(events.EventPresenceUpdate), PresenceUpdate{
		UserID:      userID,
		IsOnline:    online,
		OnlineUsers: h.presence.UserIDs(),
	})
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("realtime read failed", zap.String("connection_id", c.id), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		switch frame.Event {
		case FrameUserLogin:
			if userID := parseUserID(frame.Data); userID != "" {
				h.login(c, userID)
			}
		case FramePing:
			h.reply(c, FramePong, nil)
		}
	}
}

// reply queues a frame for a single session.
func (h *Hub) reply(c *client, event string, data any) {
	msg, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; ok {
		h.enqueue(c, event, msg)
	}
}

// parseUserID accepts "alice" or {"userId":"alice"}.
func parseUserID(raw json.RawMessage) string {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var obj struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.UserID)
	}
	return ""
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every session.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.RUnlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}
