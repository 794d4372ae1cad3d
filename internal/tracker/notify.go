package tracker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// publish fans a notification out to the user's pub/sub channel and
// appends it to the bounded history list. Both sides are best-effort:
// a dropped notification never fails the operation that produced it.
func (t *tracker) publish(ctx context.Context, userID, eventType string, data map[string]any) {
	n := Notification{
		ID:        uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		Data:      data,
		Timestamp: t.now().Unix(),
	}
	raw, err := json.Marshal(n)
	if err != nil {
		t.log.Warn("notification marshal failed", "user_id", userID, "event_type", eventType, "error", err)
		return
	}

	if err := t.store.Publish(ctx, NotificationChannel(userID), raw); err != nil {
		t.log.Warn("notification publish failed", "user_id", userID, "event_type", eventType, "error", err)
	}

	if err := t.store.LPush(ctx, notificationsKey(userID), string(raw)); err != nil {
		t.log.Warn("notification history push failed", "user_id", userID, "error", err)
		return
	}
	if err := t.store.LTrim(ctx, notificationsKey(userID), 0, notificationHistCap-1); err != nil {
		t.log.Warn("notification history trim failed", "user_id", userID, "error", err)
	}
}
