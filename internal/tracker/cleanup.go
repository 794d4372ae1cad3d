package tracker

import (
	"context"
	"fmt"
)

// CleanupOldData deletes daily counter and daily score keys whose
// embedded date is older than the cutoff. Malformed keys are skipped.
// Returns the number of deleted keys.
func (t *tracker) CleanupOldData(ctx context.Context, daysToKeep int) (int, error) {
	if daysToKeep <= 0 {
		return 0, fmt.Errorf("daysToKeep must be positive")
	}
	cutoff := t.now().UTC().AddDate(0, 0, -daysToKeep)

	deleted := 0
	for _, pattern := range []string{"daily:*", "daily_score:*"} {
		keys, err := t.store.ScanKeys(ctx, pattern)
		if err != nil {
			return deleted, fmt.Errorf("scan %q: %w", pattern, err)
		}
		for _, key := range keys {
			date, ok := dateFromDailyKey(key)
			if !ok {
				continue
			}
			if !date.Before(cutoff) {
				continue
			}
			if err := t.store.Del(ctx, key); err != nil {
				t.log.Warn("cleanup delete failed", "key", key, "error", err)
				continue
			}
			deleted++
		}
	}

	t.log.Info("retention cleanup finished", "days_to_keep", daysToKeep, "deleted", deleted)
	return deleted, nil
}
