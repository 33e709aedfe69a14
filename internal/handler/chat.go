package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentchat/internal/service"
)

// ChatRequest is the POST /chat payload. SessionID is optional: a blank or
// unknown ID starts a new conversation.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatTurn is one side of the exchange as shown to the front end.
type ChatTurn struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ChatResponse echoes the user turn and carries the assistant reply.
type ChatResponse struct {
	SessionID string   `json:"session_id"`
	User      ChatTurn `json:"user"`
	AI        ChatTurn `json:"ai"`
}

// ChatHandler handles chat-related HTTP requests
type ChatHandler struct {
	chat     *service.ChatService
	sessions *service.SessionRegistry
	logger   *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService, sessions *service.SessionRegistry, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		chat:     chat,
		sessions: sessions,
		logger:   logger,
	}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	conv := h.sessions.GetOrCreate(req.SessionID)

	reply, err := h.chat.HandleChat(c.Request.Context(), conv, req.Message)
	if err != nil {
		// Only configuration defects reach this branch; data-dependent
		// failures come back as displayable reply text.
		h.logger.Error("chat turn aborted", zap.String("session_id", conv.ID()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	now := time.Now().Format("15:04:05")
	c.JSON(http.StatusOK, ChatResponse{
		SessionID: conv.ID(),
		User:      ChatTurn{Text: req.Message, Timestamp: now},
		AI:        ChatTurn{Text: reply, Timestamp: now},
	})
}
