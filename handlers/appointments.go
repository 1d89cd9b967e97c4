package handlers

import (
	"net/http"

	"aitana/models"
	"aitana/services/calendar"
	"aitana/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler passes appointment create/list through to the shop
// calendar.
type AppointmentHandler struct {
	Svc calendar.CalendarService
}

func NewAppointmentHandler(svc calendar.CalendarService) *AppointmentHandler {
	return &AppointmentHandler{Svc: svc}
}

func (h *AppointmentHandler) HandleCreateAppointment(c *gin.Context) {
	if h.Svc == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Calendar not configured", "")
		return
	}

	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid appointment payload", err.Error())
		return
	}
	if req.Summary == "" || req.StartTime == "" || req.EndTime == "" {
		utils.JSONError(c, http.StatusBadRequest, "summary, startTime and endTime are required", "")
		return
	}

	appt, err := h.Svc.CreateEvent(c.Request.Context(), req)
	if err != nil {
		utils.GetLogger().Error("Failed to create appointment", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to create appointment", "")
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) HandleListAppointments(c *gin.Context) {
	if h.Svc == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Calendar not configured", "")
		return
	}

	appointments, err := h.Svc.ListUpcoming(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("Failed to list appointments", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to list appointments", "")
		return
	}
	c.JSON(http.StatusOK, appointments)
}
