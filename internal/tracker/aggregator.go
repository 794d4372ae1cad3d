package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// runAggregation is one cycle of the periodic aggregation loop. The
// buffer swap is atomic, so events recorded while this cycle processes
// belong to the next one — nothing is lost or double-counted. One
// user's failure does not stop the rest of the drain.
func (t *tracker) runAggregation(ctx context.Context) error {
	drained := t.buf.drain()
	if len(drained) == 0 {
		return nil
	}

	for userID, events := range drained {
		if len(events) == 0 {
			continue
		}
		if err := t.processBatch(ctx, userID, events); err != nil {
			t.log.Error("batch processing failed", "user_id", userID, "events", len(events), "error", err)
		}
	}
	return nil
}

// processBatch persists an immutable batch snapshot and folds the
// batch into the current week's and month's rollups. Each rollup write
// refreshes the aggregate's retention TTL.
func (t *tracker) processBatch(ctx context.Context, userID string, events []*ActivityEvent) error {
	counts := make(map[string]int64, len(events))
	var totalScore int64
	for _, ev := range events {
		counts[ev.ActivityType]++
		totalScore += ev.ScoreDelta
	}

	now := t.now()
	record := batchRecord{
		ActivityCounts:  counts,
		TotalActivities: len(events),
		TotalScore:      totalScore,
		Timestamp:       now.Unix(),
		ProcessedAt:     now.UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	if err := t.store.Set(ctx, batchKey(userID, now.Unix()), string(raw), batchTTL); err != nil {
		return fmt.Errorf("persist batch: %w", err)
	}

	if err := t.foldAggregate(ctx, weeklyKey(userID, now), counts, totalScore, weeklyTTL); err != nil {
		return fmt.Errorf("weekly rollup: %w", err)
	}
	if err := t.foldAggregate(ctx, monthlyKey(userID, now), counts, totalScore, monthlyTTL); err != nil {
		return fmt.Errorf("monthly rollup: %w", err)
	}

	t.log.Debug("batch aggregated", "user_id", userID, "events", len(events), "total_score", totalScore)
	return nil
}

func (t *tracker) foldAggregate(ctx context.Context, key string, counts map[string]int64, totalScore int64, ttl time.Duration) error {
	for activityType, count := range counts {
		if err := t.store.HIncrBy(ctx, key, "activity_"+activityType, count); err != nil {
			return err
		}
	}
	if err := t.store.HIncrBy(ctx, key, "total_score", totalScore); err != nil {
		return err
	}
	return t.store.Expire(ctx, key, ttl)
}
