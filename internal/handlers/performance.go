package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pulsehq/teampulse-backend/internal/tracker"
)

type PerformanceHandler struct {
	trackerService tracker.Service
}

func NewPerformanceHandler(trackerService tracker.Service) *PerformanceHandler {
	return &PerformanceHandler{trackerService: trackerService}
}

type TrackActivityRequest struct {
	UserID       string         `json:"user_id" binding:"required"`
	ActivityType string         `json:"activity_type" binding:"required"`
	Metadata     map[string]any `json:"metadata"`
}

func (h *PerformanceHandler) TrackActivity(c *gin.Context) {
	var req TrackActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	ev, err := h.trackerService.RecordActivity(c.Request.Context(), req.UserID, req.ActivityType, req.Metadata)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "tracking_failed", err)
		return
	}
	RespondOK(c, gin.H{"status": "tracked", "user_id": req.UserID, "activity": ev})
}

func (h *PerformanceHandler) GetDashboard(c *gin.Context) {
	view, err := h.trackerService.Dashboard(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "dashboard_failed", err)
		return
	}
	RespondOK(c, view)
}

func (h *PerformanceHandler) GetAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", "weekly")
	view, err := h.trackerService.Analytics(c.Request.Context(), c.Param("user_id"), period)
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidPeriod) {
			RespondError(c, http.StatusBadRequest, "invalid_period", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	RespondOK(c, view)
}

func (h *PerformanceHandler) Cleanup(c *gin.Context) {
	days := 90
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid_days", errors.New("days must be a positive integer"))
			return
		}
		days = parsed
	}

	deleted, err := h.trackerService.CleanupOldData(c.Request.Context(), days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "cleanup_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": deleted, "days_to_keep": days})
}
