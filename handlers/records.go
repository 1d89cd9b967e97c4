package handlers

import (
	"net/http"

	recordsRepo "aitana/database/repository/records"
	"aitana/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecordsHandler lists archived handoff summaries for the back office.
type RecordsHandler struct {
	Repo recordsRepo.RecordRepository
}

func NewRecordsHandler(repo recordsRepo.RecordRepository) *RecordsHandler {
	return &RecordsHandler{Repo: repo}
}

func (h *RecordsHandler) HandleListHandoffs(c *gin.Context) {
	if h.Repo == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Handoff archive not configured", "")
		return
	}

	records, err := h.Repo.ListRecent(c.Request.Context(), 100)
	if err != nil {
		utils.GetLogger().Error("Failed to list handoff records", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list handoffs", "")
		return
	}
	c.JSON(http.StatusOK, records)
}
