package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// RecordActivity validates and scores one activity event, then runs
// its durable side effects in order: recent-activity list, daily
// counters, the append-only stream, the aggregation buffer, the score
// ledger, notifications, and the milestone check. Individual durable
// writes are best-effort; a failed side effect is logged and the rest
// still run, so tracking is at-least-once rather than transactional.
func (t *tracker) RecordActivity(ctx context.Context, userID, activityType string, metadata map[string]any) (*ActivityEvent, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	if activityType == "" {
		return nil, fmt.Errorf("activity type required")
	}

	now := t.now()
	ev := &ActivityEvent{
		ID:           uuid.NewString(),
		UserID:       userID,
		ActivityType: activityType,
		Timestamp:    now.Unix(),
		Metadata:     metadata,
		ScoreDelta:   scoreDelta(t.cfg.Weights, activityType, metadata),
	}
	date := dayOf(now)

	if raw, err := json.Marshal(ev); err == nil {
		if err := t.store.LPush(ctx, recentActivitiesKey(userID), string(raw)); err != nil {
			t.log.Warn("recent activity push failed", "user_id", userID, "error", err)
		} else if err := t.store.LTrim(ctx, recentActivitiesKey(userID), 0, recentActivitiesCap-1); err != nil {
			t.log.Warn("recent activity trim failed", "user_id", userID, "error", err)
		}
	}

	if _, err := t.store.IncrBy(ctx, dailyKey(userID, date, activityType), 1); err != nil {
		t.log.Warn("daily counter incr failed", "user_id", userID, "activity_type", activityType, "error", err)
	}
	if _, err := t.store.IncrBy(ctx, dailyScoreKey(userID, date), ev.ScoreDelta); err != nil {
		t.log.Warn("daily score incr failed", "user_id", userID, "error", err)
	}

	if err := t.store.XAdd(ctx, activityStreamKey(userID), map[string]any{
		"activity_type":   ev.ActivityType,
		"timestamp":       strconv.FormatInt(ev.Timestamp, 10),
		"metadata":        marshalMetadata(ev.Metadata),
		"score_increment": strconv.FormatInt(ev.ScoreDelta, 10),
	}); err != nil {
		t.log.Warn("activity stream append failed", "user_id", userID, "error", err)
	}

	t.buf.add(ev)

	newScore, err := t.applyDelta(ctx, userID, ev.ScoreDelta, "activity_score")
	if err != nil {
		// Score is the one side effect callers rely on.
		return nil, err
	}

	t.publish(ctx, userID, EventActivityTracked, map[string]any{
		"activity": ev,
	})

	t.checkMilestones(ctx, userID, newScore)

	t.log.Info("activity tracked",
		"user_id", userID,
		"activity_type", activityType,
		"score_increment", ev.ScoreDelta)
	return ev, nil
}

func marshalMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
