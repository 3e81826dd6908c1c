package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"whisper-service/internal/models"
	"whisper-service/internal/observability"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FeedHandler upgrades clients onto the live whisper feed.
type FeedHandler struct {
	hub *Hub
}

// NewFeedHandler builds a FeedHandler.
func NewFeedHandler(hub *Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// Handle joins the caller to a category room (default: every category).
func (h *FeedHandler) Handle(c *gin.Context) {
	category := c.DefaultQuery("category", FeedAll)
	if category != FeedAll && !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      uuid.NewString(),
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		ConnectedAt: time.Now(),
	}

	h.hub.AddClient(category, conn, info)
	observability.IncWSActive("feed")
	observability.IncWSEvent("feed", "connected")

	defer func() {
		h.hub.RemoveClient(category, conn)
		observability.DecWSActive("feed")
		observability.IncWSEvent("feed", "disconnected")
		conn.Close()
	}()

	// the feed is write-only; the read loop only detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
