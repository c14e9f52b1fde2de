package socket

import (
	"encoding/json"
	"sync"
	"time"

	"feedfind-api-server/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StatusEvent is pushed to every connected client when a status change is
// accepted, so search screens can refresh availability without polling.
type StatusEvent struct {
	LocationID string                    `json:"locationID"`
	Status     models.AvailabilityStatus `json:"status"`
	Timestamp  time.Time                 `json:"timestamp"`
}

// Hub tracks all connected WebSocket clients.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		log:     log,
	}
}

// Register adds a client connection under the given id.
func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[clientID] = conn
	h.log.Debug("websocket client registered", zap.String("client", clientID))
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[clientID]; ok {
		delete(h.clients, clientID)
		h.log.Debug("websocket client unregistered", zap.String("client", clientID))
	}
}

// BroadcastStatus sends a status event to every connected client. A failed
// write to one client is logged and skipped; it never blocks the rest.
// Writes hold the full lock: a websocket connection supports at most one
// concurrent writer, so broadcasts must be serialized across requests.
func (h *Hub) BroadcastStatus(event StatusEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode status event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for clientID, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Warn("failed to push status event",
				zap.String("client", clientID), zap.Error(err))
		}
	}
}
