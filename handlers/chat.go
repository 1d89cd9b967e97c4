package handlers

import (
	"net/http"

	"aitana/models"
	"aitana/services/chat"
	"aitana/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookieName carries the opaque visitor token between requests.
const SessionCookieName = "sessionId"

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	Svc chat.ChatService
}

func NewChatHandler(svc chat.ChatService) *ChatHandler {
	return &ChatHandler{Svc: svc}
}

// HandleChat accepts a visitor message, resolving or minting the session
// cookie, and returns the assistant's visible reply.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		utils.JSONError(c, http.StatusBadRequest, "No message provided", "")
		return
	}

	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		token = uuid.New().String()
		// Session cookie, HTTP-only, path-wide.
		c.SetCookie(SessionCookieName, token, 0, "/", "", false, true)
	}

	reply, err := h.Svc.ProcessMessage(c.Request.Context(), token, req.Message)
	if err != nil {
		logger.Error("Chat turn failed", zap.String("token", token), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to get response from assistant", "")
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Response: reply})
}
