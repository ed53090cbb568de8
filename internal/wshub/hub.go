// Package wshub fans out orchestrator progress and terminal run state to
// WebSocket subscribers (spec §6: "Progress and result surface"). It is
// the transport adapter the spec explicitly leaves unmandated — "No wire
// protocol is mandated; implementations may use callbacks, streams, or a
// reactive store" — adapted from the teacher's connection-hub pattern.
package wshub

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one subscriber's WebSocket connection, scoped to a run ID.
type client struct {
	runID string
	conn  *websocket.Conn
	send  chan []byte
}

// Hub maintains active WebSocket connections, grouped by run ID, and
// broadcasts progress/result messages to subscribers of a given run.
type Hub struct {
	mu      sync.RWMutex
	clients map[string][]*client
	logger  *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[string][]*client),
		logger:  logger,
	}
}

// HandleWebSocket upgrades the connection and registers it against the
// run_id path parameter.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	runID := c.Param("run_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("failed to upgrade websocket connection")
		return
	}

	cl := &client{runID: runID, conn: conn, send: make(chan []byte, 32)}

	h.mu.Lock()
	h.clients[runID] = append(h.clients[runID], cl)
	h.mu.Unlock()

	go cl.writePump()
	go h.readPump(cl)
}

func (h *Hub) readPump(cl *client) {
	defer h.unregister(cl)
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.clients[cl.runID]
	for i, c := range clients {
		if c == cl {
			h.clients[cl.runID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[cl.runID]) == 0 {
		delete(h.clients, cl.runID)
	}
	close(cl.send)
}

// Broadcast sends message, JSON-encoded, to every subscriber of runID.
func (h *Hub) Broadcast(runID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("failed to marshal websocket message")
		return
	}

	h.mu.RLock()
	clients := append([]*client(nil), h.clients[runID]...)
	h.mu.RUnlock()

	for _, cl := range clients {
		select {
		case cl.send <- data:
		default:
			// Slow consumer: drop the message rather than block the
			// broadcaster (progress ticks are best-effort, spec §4.8.3).
		}
	}
}

// ConnectionCount returns the number of subscribers currently watching runID.
func (h *Hub) ConnectionCount(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[runID])
}
