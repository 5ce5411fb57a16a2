package handler

import (
	"net/http"

	"phonestore/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHandler mints session identifiers for storefront clients.
type SessionHandler struct {
	log *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(log *zap.Logger) *SessionHandler {
	return &SessionHandler{log: log}
}

// Create handles POST /api/v1/session
func (h *SessionHandler) Create(c *gin.Context) {
	id := uuid.NewString()
	h.log.Debug("session minted", zap.String("session_id", id))
	c.JSON(http.StatusOK, model.SessionResponse{SessionID: id})
}
