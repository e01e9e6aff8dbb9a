// Package realtime relays chat messages and inventory events to every connected
// websocket client.
package realtime

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/fastfood-pos/models"
	"go.uber.org/zap"
)

const (
	EventConnected     = "connected"
	EventChatMessage   = "chat message"
	EventProductAdded  = "product-added"
	EventReceiptAdded  = "receipt-added"
	EventInventory     = "inventory"
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 8 << 10
	clientSendCapacity = 64
)

// Event is the frame written to clients. Message carries the chat text so simple clients
// can read data.message without knowing the event type.
type Event struct {
	Type     string      `json:"type"`
	Message  string      `json:"message,omitempty"`
	SocketID string      `json:"socketId,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// inbound accepts both {"message": "..."} and {"type": "chat message", "message": "..."}.
type inbound struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

type Hub struct {
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	clients map[*client]bool
	closed  bool
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{logger: logger, now: time.Now, clients: make(map[*client]bool)}
}

// ServeWS upgrades the request and serves the connection until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, clientSendCapacity)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = true
	h.mu.Unlock()
	h.logger.Info("📡 websocket client connected", zap.String("socket_id", c.id))

	go h.writePump(c)
	h.sendTo(c, Event{Type: EventConnected, Message: "You are connected!", SocketID: c.id})
	h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		h.logger.Info("❌ websocket client disconnected", zap.String("socket_id", c.id))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			in = inbound{Message: string(data)}
		}
		if in.Type != "" && in.Type != EventChatMessage {
			continue
		}
		if strings.TrimSpace(in.Message) == "" {
			continue
		}
		sender := in.Sender
		if sender == "" {
			sender = c.id
		}
		h.logger.Info("💬 chat message", zap.String("socket_id", c.id))
		h.Chat(in.Message, sender)
	}
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
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) sendTo(c *client, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode websocket event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Warn("websocket client too slow, dropping event", zap.String("socket_id", c.id))
	}
}

// Broadcast sends an event to every client. Slow clients miss events rather than
// blocking the broadcaster.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	h.broadcast(Event{Type: eventType, Data: data})
}

func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode websocket event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("websocket client too slow, dropping event", zap.String("socket_id", c.id))
		}
	}
}

// Chat relays a chat message to every client, the sender included.
func (h *Hub) Chat(text, sender string) models.ChatMessage {
	msg := models.ChatMessage{
		ID:     uuid.NewString(),
		Text:   strings.TrimSpace(text),
		Sender: sender,
		SentAt: h.now().UTC(),
	}
	h.broadcast(Event{Type: EventChatMessage, Message: msg.Text, Data: msg})
	return msg
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
