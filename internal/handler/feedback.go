package handler

import (
	"context"
	"net/http"

	"phonestore/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedbackStore persists product feedback events.
type FeedbackStore interface {
	LogFeedback(ctx context.Context, sessionID string, productID int64, action string) error
}

// FeedbackHandler handles product feedback HTTP requests
type FeedbackHandler struct {
	store FeedbackStore
	log   *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(store FeedbackStore, log *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{store: store, log: log}
}

var validFeedbackActions = map[string]bool{
	"click":        true,
	"order":        true,
	"view_details": true,
}

// Create handles POST /api/v1/feedback
func (h *FeedbackHandler) Create(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id, product_id and action are required"})
		return
	}
	if !validFeedbackActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	if err := h.store.LogFeedback(c.Request.Context(), req.SessionID, req.ProductID, req.Action); err != nil {
		h.log.Error("failed to store feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.FeedbackResponse{Success: false, Message: "Failed to store feedback"})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{Success: true})
}
