package handler

import (
	"context"
	"net/http"
	"time"

	"phonestore/internal/model"
	"phonestore/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dialogue processes one conversation turn against a session snapshot and
// reports whether the snapshot should be committed.
type Dialogue interface {
	HandleMessage(ctx context.Context, snap *session.Context, message string) (*model.ChatReply, bool)
}

// TurnLogger persists completed chat turns for analytics.
type TurnLogger interface {
	LogChatTurn(ctx context.Context, sessionID, message, intent, reply string, responseTimeMs int) error
}

// ChatHandler handles chatbot HTTP requests
type ChatHandler struct {
	dialogue Dialogue
	store    *session.Store
	turnLog  TurnLogger
	log      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(dialogue Dialogue, store *session.Store, turnLog TurnLogger, log *zap.Logger) *ChatHandler {
	return &ChatHandler{dialogue: dialogue, store: store, turnLog: turnLog, log: log}
}

// Chat handles POST /chatbot
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	sessionID := resolveSessionID(c, req.SessionID)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID is required"})
		return
	}

	start := time.Now()
	sess := h.store.GetOrCreate(sessionID)
	snap := sess.Begin()
	reply, commit := h.dialogue.HandleMessage(c.Request.Context(), snap, req.Message)
	if commit {
		sess.Commit(snap)
	} else {
		sess.Rollback()
	}

	h.log.Info("chat turn",
		zap.String("session_id", sessionID),
		zap.String("intent", snap.LastIntent),
		zap.Bool("committed", commit),
		zap.Duration("elapsed", time.Since(start)),
	)

	if h.turnLog != nil {
		intent := snap.LastIntent
		elapsed := int(time.Since(start).Milliseconds())
		go func() {
			logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.turnLog.LogChatTurn(logCtx, sessionID, req.Message, intent, reply.Text, elapsed); err != nil {
				h.log.Warn("failed to log chat turn", zap.Error(err))
			}
		}()
	}

	c.JSON(http.StatusOK, reply)
}

// resolveSessionID picks the session identifier with header taking priority
// over query string, then request body.
func resolveSessionID(c *gin.Context, bodyID string) string {
	if id := c.GetHeader("session-id"); id != "" {
		return id
	}
	if id := c.Query("sessionId"); id != "" {
		return id
	}
	return bodyID
}
