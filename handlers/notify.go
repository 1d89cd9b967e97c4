package handlers

import (
	"net/http"

	"aitana/services/relay"
	"aitana/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the relay directly for smoke-testing the
// Telegram wiring.
type NotificationHandler struct {
	Relay relay.Relay
}

func NewNotificationHandler(r relay.Relay) *NotificationHandler {
	return &NotificationHandler{Relay: r}
}

type sendNotificationRequest struct {
	Text string `json:"text"`
}

// HandleSendNotification relays the given text verbatim, independent of any
// session state.
func (h *NotificationHandler) HandleSendNotification(c *gin.Context) {
	var req sendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		utils.JSONError(c, http.StatusBadRequest, "No text provided", "")
		return
	}
	if h.Relay == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Relay not configured", "")
		return
	}

	if err := h.Relay.Send(c.Request.Context(), req.Text); err != nil {
		utils.GetLogger().Error("Direct relay send failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to send notification", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
