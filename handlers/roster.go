package handlers

import (
	"net/http"

	"aitana/services/roster"
	"aitana/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RosterHandler serves the staff roster read from the spreadsheet.
type RosterHandler struct {
	Svc roster.RosterService
}

func NewRosterHandler(svc roster.RosterService) *RosterHandler {
	return &RosterHandler{Svc: svc}
}

func (h *RosterHandler) HandleGetRoster(c *gin.Context) {
	if h.Svc == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Roster source not configured", "")
		return
	}

	artists, err := h.Svc.GetArtists(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("Failed to read artist roster", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to load roster", "")
		return
	}
	c.JSON(http.StatusOK, artists)
}
