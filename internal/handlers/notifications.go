package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulsehq/teampulse-backend/internal/platform/logger"
	"github.com/pulsehq/teampulse-backend/internal/tracker"
)

type NotificationHandler struct {
	log            *logger.Logger
	trackerService tracker.Service
}

func NewNotificationHandler(log *logger.Logger, trackerService tracker.Service) *NotificationHandler {
	return &NotificationHandler{
		log:            log.With("handler", "Notifications"),
		trackerService: trackerService,
	}
}

// Stream bridges the per-user notification channel onto an SSE
// response. Delivery is at-least-once with no replay; clients wanting
// history read it from the dashboard instead.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "missing_user_id", errors.New("user id required"))
		return
	}

	ctx := c.Request.Context()
	msgs, closeSub, err := h.trackerService.Subscribe(ctx, userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "subscribe_failed", err)
		return
	}
	defer func() { _ = closeSub() }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	h.log.Debug("notification stream opened", "user_id", userID)
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case payload, ok := <-msgs:
			if !ok {
				return false
			}
			c.SSEvent("notification", string(payload))
			return true
		}
	})
	h.log.Debug("notification stream closed", "user_id", userID)
}
