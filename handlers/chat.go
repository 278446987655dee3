package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	sessionRepo "dulai/database/repository/session"
	"dulai/models"
	"dulai/services/assistant"
	"dulai/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// SessionCookieName carries the opaque session token.
	SessionCookieName = "dulai_sid"
	// sessionCookieMaxAge is seven days, matching the redis TTL.
	sessionCookieMaxAge = 7 * 24 * 3600
)

// ChatHandler serves the streaming chat endpoint.
type ChatHandler struct {
	Assistant assistant.Service
	Sessions  sessionRepo.SessionStore
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(assistantSvc assistant.Service, sessions sessionRepo.SessionStore) *ChatHandler {
	return &ChatHandler{Assistant: assistantSvc, Sessions: sessions}
}

// HandleChat relays one user message through the assistant and streams the
// resulting events back as newline-delimited JSON, one object per line. The
// session cookie is set or refreshed on every response.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	token, _ := c.Cookie(SessionCookieName)
	session, err := h.Sessions.GetOrCreate(c.Request.Context(), token)
	if err != nil {
		logger.Error("Failed to load session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	c.SetCookie(SessionCookieName, session.ID, sessionCookieMaxAge, "/", "", false, true)

	events, err := h.Assistant.StreamChat(c.Request.Context(), session, req.Message)
	if err != nil {
		logger.Error("Failed to open completion stream",
			zap.String("session", session.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reach assistant: " + err.Error()})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)
	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		line, err := json.Marshal(ev)
		if err != nil {
			logger.Error("Failed to marshal stream event", zap.Error(err))
			return true
		}
		w.Write(line)
		w.Write([]byte("\n"))
		return true
	})
}
