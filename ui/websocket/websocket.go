package websocket

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/AzielCF/az-console/agentwizard/application"
	"github.com/AzielCF/az-console/agentwizard/domain/wizard"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const broadcastChannel = "ws_broadcast"

type BroadcastMessage struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Result    any    `json:"result"`
	SenderID  string `json:"sender_id,omitempty"`
}

// Relay forwards frames to the other servers of a cluster.
type Relay interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error
}

type conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type subscription struct {
	conn      conn
	sessionID string // empty receives every frame
}

// reply is a frame for a single client. It never reaches the relay.
type reply struct {
	conn conn
	msg  BroadcastMessage
}

// Hub owns the set of connected clients. Every mutation of the set happens
// on the Run goroutine.
type Hub struct {
	register   chan subscription
	unregister chan conn
	broadcast  chan BroadcastMessage
	direct     chan reply
	done       chan struct{}
	clients    map[conn]string

	relay    Relay
	serverID string
}

func NewHub(relay Relay, serverID string) *Hub {
	return &Hub{
		register:   make(chan subscription),
		unregister: make(chan conn),
		broadcast:  make(chan BroadcastMessage, 256),
		direct:     make(chan reply, 64),
		done:       make(chan struct{}),
		clients:    make(map[conn]string),
		relay:      relay,
		serverID:   serverID,
	}
}

// Run serves the hub until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.relay != nil {
		go h.subscribe(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.closeConnection(c)
			}
			return
		case sub := <-h.register:
			h.clients[sub.conn] = sub.sessionID
			logrus.Debug("[WS] Connection registered")
		case c := <-h.unregister:
			delete(h.clients, c)
			logrus.Debug("[WS] Connection unregistered")
		case r := <-h.direct:
			h.sendToLocal(r)
		case msg := <-h.broadcast:
			h.broadcastToLocal(msg)
			if h.relay != nil && msg.SenderID == "" {
				h.publish(ctx, msg)
			}
		}
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c conn, sessionID string) bool {
	select {
	case h.register <- subscription{conn: c, sessionID: sessionID}:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c. After shutdown it returns at once.
func (h *Hub) Unregister(c conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Send queues msg for c alone. A full queue drops msg.
func (h *Hub) Send(c conn, msg BroadcastMessage) {
	select {
	case h.direct <- reply{conn: c, msg: msg}:
	default:
		logrus.Warnf("[WS] Reply queue full, dropping %s", msg.Code)
	}
}

// Broadcast queues msg for every matching client. A full queue drops msg.
func (h *Hub) Broadcast(msg BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	default:
		logrus.Warnf("[WS] Broadcast queue full, dropping %s", msg.Code)
	}
}

// Notify implements wizard.INotifier.
func (h *Hub) Notify(_ context.Context, e wizard.Event) {
	h.Broadcast(FrameFor(e))
}

func (h *Hub) broadcastToLocal(msg BroadcastMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logrus.Errorf("[WS] Marshal error: %v", err)
		return
	}
	for c, sessionID := range h.clients {
		if sessionID != "" && sessionID != msg.SessionID {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			logrus.Errorf("[WS] Write error: %v", err)
			h.closeConnection(c)
		}
	}
}

func (h *Hub) sendToLocal(r reply) {
	if _, ok := h.clients[r.conn]; !ok {
		return
	}
	data, err := json.Marshal(r.msg)
	if err != nil {
		logrus.Errorf("[WS] Marshal error: %v", err)
		return
	}
	if err := r.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logrus.Errorf("[WS] Write error: %v", err)
		h.closeConnection(r.conn)
	}
}

func (h *Hub) publish(ctx context.Context, msg BroadcastMessage) {
	msg.SenderID = h.serverID
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.relay.Publish(ctx, broadcastChannel, data); err != nil {
		logrus.Errorf("[WS] Failed to publish to Valkey: %v", err)
	}
}

func (h *Hub) subscribe(ctx context.Context) {
	logrus.Info("[WS] Starting Valkey Pub/Sub subscriber for distributed events")
	err := h.relay.Subscribe(ctx, broadcastChannel, func(payload []byte) {
		var msg BroadcastMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return
		}
		// own frames come back through the subscription
		if msg.SenderID == h.serverID {
			return
		}
		h.Broadcast(msg)
	})
	if err != nil && ctx.Err() == nil {
		logrus.Errorf("[WS] Valkey subscriber failed: %v", err)
	}
}

func (h *Hub) closeConnection(c conn) {
	_ = c.WriteMessage(websocket.CloseMessage, []byte{})
	_ = c.Close()
	delete(h.clients, c)
}

// FrameFor maps a wizard event onto the frame sent to clients.
func FrameFor(e wizard.Event) BroadcastMessage {
	msg := BroadcastMessage{
		Code:      "WIZARD_" + strings.ToUpper(string(e.Kind)),
		SessionID: e.SessionID,
		Result:    e,
	}
	switch e.Kind {
	case wizard.EventValidationFailed:
		msg.Message = strings.Join(e.Errors, "\n")
	case wizard.EventDraftSaved:
		msg.Message = "Draft saved"
	case wizard.EventDraftSaveFailed:
		msg.Message = "Draft could not be saved: " + e.Reason
	case wizard.EventAgentCreated:
		msg.Message = "Agent " + e.Name + " created successfully"
	case wizard.EventAgentUpdated:
		msg.Message = "Agent " + e.Name + " updated successfully"
	case wizard.EventFinalizeFailed:
		msg.Message = "Could not save agent: " + e.Reason
	}
	return msg
}

// RegisterRoutes mounts /ws. Clients may pass ?session_id= to receive only
// that session's frames, and send {"code":"FETCH_SESSION","session_id":...}
// to get the current state.
func RegisterRoutes(app fiber.Router, hub *Hub, sessions *application.SessionManager) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		defer func() {
			hub.Unregister(c)
			_ = c.Close()
		}()

		if !hub.Register(c, c.Query("session_id")) {
			return
		}

		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Warnf("[WS] read error: %v", err)
				}
				return
			}
			if messageType != websocket.TextMessage {
				logrus.Debugf("[WS] unsupported message type: %d", messageType)
				continue
			}

			var req BroadcastMessage
			if err := json.Unmarshal(message, &req); err != nil {
				logrus.Debugf("[WS] unmarshal error: %v", err)
				return
			}
			handleRequest(hub, sessions, c, req)
		}
	}))
}

// handleRequest answers a client request on that client's connection only.
func handleRequest(hub *Hub, sessions *application.SessionManager, c conn, req BroadcastMessage) {
	if req.Code != "FETCH_SESSION" {
		return
	}
	ctrl, err := sessions.Get(req.SessionID)
	if err != nil {
		hub.Send(c, BroadcastMessage{
			Code:      "WIZARD_SESSION_NOT_FOUND",
			Message:   err.Error(),
			SessionID: req.SessionID,
		})
		return
	}
	hub.Send(c, BroadcastMessage{
		Code:      "WIZARD_SESSION",
		Message:   "Session state",
		SessionID: req.SessionID,
		Result:    ctrl.State(),
	})
}
