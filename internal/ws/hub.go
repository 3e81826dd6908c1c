package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"whisper-service/internal/models"
	"whisper-service/internal/observability"
)

// FeedAll is the room receiving every feed event regardless of category.
const FeedAll = "all"

// Hub maintains active live-feed rooms, one per whisper category plus the
// catch-all room.
type Hub struct {
	rooms    map[string]map[*websocket.Conn]bool
	connInfo map[string]map[*websocket.Conn]ConnInfo
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string]map[*websocket.Conn]bool),
		connInfo: make(map[string]map[*websocket.Conn]ConnInfo),
	}
}

// AddClient registers a websocket connection to a category room.
func (h *Hub) AddClient(category string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[category]; !ok {
		h.rooms[category] = make(map[*websocket.Conn]bool)
	}
	h.rooms[category][conn] = true
	if _, ok := h.connInfo[category]; !ok {
		h.connInfo[category] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[category][conn] = info
}

// RemoveClient removes a feed websocket connection.
func (h *Hub) RemoveClient(category string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[category]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, category)
		}
	}
	if infos, ok := h.connInfo[category]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, category)
		}
	}
}

// BroadcastWhisperCreated fans a new whisper out to its category room and
// the catch-all room.
func (h *Hub) BroadcastWhisperCreated(w models.Whisper) {
	event := models.WhisperEvent{Type: "whisper_created", Whisper: &w}
	h.broadcast(w.Category, event)
	h.broadcast(FeedAll, event)
	observability.IncWSEvent("feed", "whisper_created")
}

// BroadcastWhisperShared notifies the catch-all room of a new share event.
// The share record carries no category, so category rooms are skipped.
func (h *Hub) BroadcastWhisperShared(share models.Share) {
	event := models.WhisperEvent{Type: "whisper_shared", Share: &share}
	h.broadcast(FeedAll, event)
	observability.IncWSEvent("feed", "whisper_shared")
}

func (h *Hub) broadcast(room string, event models.WhisperEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[room]))
	for conn := range h.rooms[room] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveClient(room, conn)
			observability.IncWSEvent("feed", "ws_error")
		}
	}
}
