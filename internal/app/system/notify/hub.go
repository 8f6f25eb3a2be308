// internal/app/system/notify/hub.go
package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 20 * time.Second
	sendBuffer   = 16
	maxInbound   = 1024
)

// Message is the frame written to browsers.
type Message struct {
	Type string              `json:"type"` // "notification"
	Data models.Notification `json:"data"`
}

// subscribeRequest is sent by a browser to narrow the types it receives.
type subscribeRequest struct {
	Action string   `json:"action"`
	Types  []string `json:"types"`
}

type client struct {
	conn  *websocket.Conn
	send  chan []byte
	mu    sync.RWMutex
	types map[string]bool // empty means all
}

func (c *client) wants(typ string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types) == 0 || c.types[typ]
}

func (c *client) subscribe(types []string) {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	c.mu.Lock()
	c.types = set
	c.mu.Unlock()
}

// Hub fans accepted notifications out to websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub returns a Hub. checkOrigin may be nil to require same-origin.
func NewHub(checkOrigin func(r *http.Request) bool, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log:     logger,
		clients: make(map[*client]struct{}),
	}
}

// Publish implements Publisher.
func (h *Hub) Publish(n models.Notification) {
	b, err := json.Marshal(Message{Type: "notification", Data: n})
	if err != nil {
		h.log.Error("encode notification frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.wants(n.Type) {
			continue
		}
		select {
		case c.send <- b:
		default:
			// Slow reader: drop it rather than block the poller.
			h.removeLocked(c)
		}
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("notification socket closed", zap.Int("clients", n))
}

// ServeWS upgrades the request and streams notifications until the
// browser disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("notification socket opened", zap.Int("clients", n))

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInbound)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var req subscribeRequest
		if json.Unmarshal(data, &req) == nil && req.Action == "subscribe" {
			c.subscribe(req.Types)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
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
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
