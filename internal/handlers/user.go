package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"whisper-service/internal/repositories"
	"whisper-service/internal/telemetry"
)

// UserHandler manages account endpoints. Accounts only exist as share
// attribution targets; whispers themselves stay anonymous.
type UserHandler struct {
	users   repositories.UserRepository
	emitter *telemetry.AuditEmitter
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository, emitter *telemetry.AuditEmitter) *UserHandler {
	return &UserHandler{users: users, emitter: emitter}
}

// Register creates a user with a bcrypt-hashed credential.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Username, string(hash))
	if err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "user_registered", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusCreated, user)
}
