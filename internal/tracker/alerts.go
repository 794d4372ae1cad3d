package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// runAlertScan is one cycle of the periodic alert loop: every user with
// a score key is checked for a score-drop trend and an activity streak.
// A failure for one user is logged and the scan moves on.
func (t *tracker) runAlertScan(ctx context.Context) error {
	keys, err := t.store.ScanKeys(ctx, "scores:*:current")
	if err != nil {
		return fmt.Errorf("scan score keys: %w", err)
	}

	for _, key := range keys {
		userID, ok := userFromScoreKey(key)
		if !ok {
			t.log.Warn("skipping malformed score key", "key", key)
			continue
		}
		if err := t.checkUserAlerts(ctx, userID); err != nil {
			t.log.Error("user alert check failed", "user_id", userID, "error", err)
		}
	}
	return nil
}

// checkUserAlerts runs both alert conditions. They are independent:
// both may fire in the same scan, and neither deduplicates across
// cycles — a still-qualifying user fires again next scan.
func (t *tracker) checkUserAlerts(ctx context.Context, userID string) error {
	if err := t.checkScoreDrop(ctx, userID); err != nil {
		return err
	}
	return t.checkActivityStreak(ctx, userID)
}

// checkScoreDrop fires when the mean of the most recent score changes
// is at or below the configured threshold. Fewer than three recorded
// changes is too sparse to act on.
func (t *tracker) checkScoreDrop(ctx context.Context, userID string) error {
	raws, err := t.store.LRange(ctx, scoreChangesKey(userID), 0, recentChangeWindow-1)
	if err != nil {
		return fmt.Errorf("read change log: %w", err)
	}

	deltas := make([]int64, 0, len(raws))
	for _, raw := range raws {
		var change ScoreChange
		if err := json.Unmarshal([]byte(raw), &change); err != nil {
			t.log.Warn("skipping malformed change entry", "user_id", userID, "error", err)
			continue
		}
		deltas = append(deltas, change.Delta)
	}
	if len(deltas) < minChangesForAlert {
		return nil
	}

	var sum int64
	for _, d := range deltas {
		sum += d
	}
	avg := float64(sum) / float64(len(deltas))
	if avg > t.cfg.ScoreDropThreshold {
		return nil
	}

	t.publish(ctx, userID, EventPerformanceAlert, map[string]any{
		"type":           "score_drop",
		"average_change": math.Round(avg*10) / 10,
		"message":        "recent contribution score is trending down",
	})
	return nil
}

// checkActivityStreak sums today's per-type counters and fires when the
// total reaches the streak threshold.
func (t *tracker) checkActivityStreak(ctx context.Context, userID string) error {
	today := dayOf(t.now())
	keys, err := t.store.ScanKeys(ctx, "daily:"+userID+":"+today+":*")
	if err != nil {
		return fmt.Errorf("scan daily keys: %w", err)
	}

	var total int64
	for _, key := range keys {
		count, err := t.store.GetInt(ctx, key)
		if err != nil {
			t.log.Warn("daily counter read failed", "key", key, "error", err)
			continue
		}
		total += count
	}
	if total < t.cfg.StreakThreshold {
		return nil
	}

	t.publish(ctx, userID, EventActivityStreak, map[string]any{
		"total_activities": total,
		"message":          fmt.Sprintf("%d activities recorded today", total),
	})
	return nil
}
