package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// applyDelta adds delta to the user's score through the store's atomic
// increment and returns the new score. Material changes (|delta| >= 5)
// are appended to the bounded change log; the previous score is derived
// from the increment result so ledger and log cannot drift apart under
// concurrent writers.
func (t *tracker) applyDelta(ctx context.Context, userID string, delta int64, reason string) (int64, error) {
	newScore, err := t.store.IncrBy(ctx, scoreKey(userID), delta)
	if err != nil {
		return 0, fmt.Errorf("score increment: %w", err)
	}

	now := t.now().Unix()
	if err := t.store.Set(ctx, lastUpdatedKey(userID), strconv.FormatInt(now, 10), 0); err != nil {
		t.log.Warn("last_updated write failed", "user_id", userID, "error", err)
	}

	if abs64(delta) >= materialChangeThreshold {
		change := ScoreChange{
			Timestamp:     now,
			PreviousScore: newScore - delta,
			NewScore:      newScore,
			Delta:         delta,
			Reason:        reason,
		}
		raw, err := json.Marshal(change)
		if err == nil {
			if err := t.store.LPush(ctx, scoreChangesKey(userID), string(raw)); err != nil {
				t.log.Warn("change log push failed", "user_id", userID, "error", err)
			} else if err := t.store.LTrim(ctx, scoreChangesKey(userID), 0, changeLogCap-1); err != nil {
				t.log.Warn("change log trim failed", "user_id", userID, "error", err)
			}
		}
	}

	t.publish(ctx, userID, EventScoreUpdated, map[string]any{
		"new_score": newScore,
		"change":    delta,
		"timestamp": now,
	})

	return newScore, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
