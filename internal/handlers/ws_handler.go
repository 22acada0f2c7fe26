package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"loottracker/internal/models"
)

const (
	wsWriteWait  = 10 * time.Second
	wsSendBuffer = 256
)

// WSHandler streams accepted loot events to websocket clients. It
// implements the event sink contract: Enqueue only appends to per-client
// send buffers and never touches the network, so the event gate is never
// held up by a slow client. Each client has its own writer goroutine;
// clients that fall a full buffer behind are dropped.
type WSHandler struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]chan []byte
}

// NewWSHandler creates the websocket stream handler.
func NewWSHandler() *WSHandler {
	return &WSHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Handle upgrades the connection and keeps it registered until it drops
// GET /ws
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	send := make(chan []byte, wsSendBuffer)

	h.mu.Lock()
	h.clients[conn] = send
	clientCount := len(h.clients)
	h.mu.Unlock()

	logrus.WithField("clients", clientCount).Info("WebSocket client connected")

	go h.writeLoop(conn, send)

	// Clients are write-only consumers; the read loop only detects drops.
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Name returns the sink identifier.
func (h *WSHandler) Name() string {
	return "websocket"
}

// Enqueue fans an accepted loot event out to every client buffer. Never
// blocks: clients whose buffer is full are dropped instead of waited on.
func (h *WSHandler) Enqueue(event *models.LootEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal loot event for broadcast")
		return
	}

	var stalled []*websocket.Conn

	h.mu.Lock()
	for conn, send := range h.clients {
		select {
		case send <- payload:
		default:
			stalled = append(stalled, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range stalled {
		logrus.Warn("Dropping stalled websocket client")
		h.remove(conn)
	}
}

// ClientCount returns the number of connected clients.
func (h *WSHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// writeLoop drains one client's send buffer onto the wire until the
// buffer closes or a write fails.
func (h *WSHandler) writeLoop(conn *websocket.Conn, send <-chan []byte) {
	for payload := range send {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(conn)
			return
		}
	}
}

// remove unregisters a client and closes its send buffer exactly once,
// ending the writer goroutine.
func (h *WSHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	send, registered := h.clients[conn]
	if registered {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()

	conn.Close()
}
