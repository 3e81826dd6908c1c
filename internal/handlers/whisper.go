package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"whisper-service/internal/lifecycle"
	"whisper-service/internal/models"
	"whisper-service/internal/observability"
	"whisper-service/internal/query"
	"whisper-service/internal/repositories"
	"whisper-service/internal/sharecode"
	"whisper-service/internal/telemetry"
	"whisper-service/internal/ws"
)

// Lifecycle covers the whisper state transitions handlers drive.
type Lifecycle interface {
	CreateWhisper(ctx context.Context, content, category string) (models.Whisper, error)
	MarkViewed(ctx context.Context, id int) (models.Whisper, error)
	ShareWhisper(ctx context.Context, whisperID, sharedByUserID int, sharedToUserID *int) (models.Share, error)
	ResolveShareCode(ctx context.Context, code string) (models.Whisper, error)
}

// Queries covers the read side.
type Queries interface {
	ListWhispers(ctx context.Context) ([]models.Whisper, error)
	ListSharedWhispers(ctx context.Context, requestingUserID *int) ([]models.Whisper, error)
}

var (
	_ Lifecycle = (*lifecycle.Manager)(nil)
	_ Queries   = (*query.Service)(nil)
)

// WhisperHandler manages whisper endpoints.
type WhisperHandler struct {
	lifecycle Lifecycle
	queries   Queries
	hub       *ws.Hub
	emitter   *telemetry.AuditEmitter
}

// NewWhisperHandler builds a WhisperHandler.
func NewWhisperHandler(lc Lifecycle, queries Queries, hub *ws.Hub, emitter *telemetry.AuditEmitter) *WhisperHandler {
	return &WhisperHandler{
		lifecycle: lc,
		queries:   queries,
		hub:       hub,
		emitter:   emitter,
	}
}

// ListWhispers returns all whispers in creation order.
func (h *WhisperHandler) ListWhispers(c *gin.Context) {
	whispers, err := h.queries.ListWhispers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch whispers"})
		return
	}
	if whispers == nil {
		whispers = []models.Whisper{}
	}
	c.JSON(http.StatusOK, whispers)
}

// CreateWhisper stores a new whisper and broadcasts it to the live feed.
func (h *WhisperHandler) CreateWhisper(c *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content and category are required"})
		return
	}

	whisper, err := h.lifecycle.CreateWhisper(c.Request.Context(), req.Content, req.Category)
	if err != nil {
		if errors.Is(err, lifecycle.ErrEmptyContent) || errors.Is(err, lifecycle.ErrUnknownCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create whisper"})
		return
	}

	observability.IncWhisperCreated(whisper.Category)
	h.hub.BroadcastWhisperCreated(whisper)
	h.emitter.Emit(c.Request.Context(), "INFO", "whisper_created", requestIDFromContext(c), userIDFromContext(c))

	c.JSON(http.StatusCreated, whisper)
}

// MarkViewed flips the terminal viewed flag on a whisper.
func (h *WhisperHandler) MarkViewed(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid whisper id"})
		return
	}

	whisper, err := h.lifecycle.MarkViewed(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrWhisperNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "whisper not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark whisper as viewed"})
		return
	}

	c.JSON(http.StatusOK, whisper)
}

// ListSharedWhispers returns shared whispers visible to the optional
// requesting user.
func (h *WhisperHandler) ListSharedWhispers(c *gin.Context) {
	var userID *int
	if raw := c.Query("userId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		userID = &parsed
	}

	whispers, err := h.queries.ListSharedWhispers(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch shared whispers"})
		return
	}
	if whispers == nil {
		whispers = []models.Whisper{}
	}
	c.JSON(http.StatusOK, whispers)
}

// ShareWhisper creates a share event with a fresh code for a whisper.
func (h *WhisperHandler) ShareWhisper(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid whisper id"})
		return
	}

	var req struct {
		SharedByUserID int  `json:"sharedByUserId" binding:"required"`
		SharedToUserID *int `json:"sharedToUserId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sharedByUserId is required"})
		return
	}

	share, err := h.lifecycle.ShareWhisper(c.Request.Context(), id, req.SharedByUserID, req.SharedToUserID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrWhisperNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "whisper not found"})
		case errors.Is(err, sharecode.ErrExhausted):
			log.Printf("share code generation exhausted: whisper=%d", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to share whisper"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to share whisper"})
		}
		return
	}

	observability.IncShareCreated()
	h.hub.BroadcastWhisperShared(share)
	h.emitter.Emit(c.Request.Context(), "INFO", "whisper_shared", requestIDFromContext(c), userIDFromContext(c))

	c.JSON(http.StatusCreated, share)
}

// ResolveShare returns the whisper behind a share code, 404ing for unknown
// or expired codes.
func (h *WhisperHandler) ResolveShare(c *gin.Context) {
	code := c.Param("shareCode")

	whisper, err := h.lifecycle.ResolveShareCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repositories.ErrShareNotFound) {
			observability.IncShareResolution("miss")
			c.JSON(http.StatusNotFound, gin.H{"error": "shared whisper not found or expired"})
			return
		}
		observability.IncShareResolution("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch shared whisper"})
		return
	}

	observability.IncShareResolution("hit")
	h.emitter.Emit(c.Request.Context(), "INFO", "share_resolved", requestIDFromContext(c), userIDFromContext(c))

	c.JSON(http.StatusOK, whisper)
}
