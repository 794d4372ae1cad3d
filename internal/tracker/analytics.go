package tracker

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Analytics returns the raw period aggregate, per-day averages, and a
// comparison against the immediately preceding week or month. An
// unknown period string is a client error (ErrInvalidPeriod).
func (t *tracker) Analytics(ctx context.Context, userID, period string) (*AnalyticsView, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	now := t.now()
	var currentKey, previousKey string
	var divisor float64
	switch period {
	case "weekly":
		currentKey = weeklyKey(userID, now)
		previousKey = weeklyKey(userID, now.AddDate(0, 0, -7))
		divisor = 7
	case "monthly":
		currentKey = monthlyKey(userID, now)
		previousKey = monthlyKey(userID, previousMonth(now))
		divisor = 30
	default:
		return nil, ErrInvalidPeriod
	}

	current, err := t.readAggregate(ctx, currentKey)
	if err != nil {
		return nil, fmt.Errorf("read %s aggregate: %w", period, err)
	}

	view := &AnalyticsView{
		UserID:     userID,
		Period:     period,
		PeriodData: current,
	}

	if len(current) > 0 {
		var totalActivities int64
		for field, v := range current {
			if strings.HasPrefix(field, "activity_") {
				totalActivities += v
			}
		}
		view.Averages = &Averages{
			DailyScore:      float64(current["total_score"]) / divisor,
			DailyActivities: float64(totalActivities) / divisor,
		}
	}

	previous, err := t.readAggregate(ctx, previousKey)
	if err != nil {
		return nil, fmt.Errorf("read previous %s aggregate: %w", period, err)
	}
	view.Comparison = comparePeriods(current, previous)

	return view, nil
}

// readAggregate loads a rollup hash, skipping non-numeric fields
// instead of failing the whole read.
func (t *tracker) readAggregate(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := t.store.HGetAll(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			t.log.Warn("skipping non-numeric aggregate field", "key", key, "field", field)
			continue
		}
		out[field] = n
	}
	return out, nil
}

// comparePeriods computes per-field percent change over the union of
// both periods' fields. A field absent from one period reads as 0.
func comparePeriods(current, previous map[string]int64) map[string]PeriodDelta {
	fields := make(map[string]struct{}, len(current)+len(previous))
	for k := range current {
		fields[k] = struct{}{}
	}
	for k := range previous {
		fields[k] = struct{}{}
	}

	out := make(map[string]PeriodDelta, len(fields))
	for field := range fields {
		cur := current[field]
		prev := previous[field]

		var pct float64
		switch {
		case prev > 0:
			pct = float64(cur-prev) / float64(prev) * 100
		case cur > 0:
			pct = 100
		default:
			pct = 0
		}

		out[field] = PeriodDelta{
			Current:       cur,
			Previous:      prev,
			ChangePercent: math.Round(pct*10) / 10,
		}
	}
	return out
}

// previousMonth steps to the prior calendar month, clamping to its
// first day so the month label is always correct (a plain -30 days
// lands in the same month after a 31-day one).
func previousMonth(t time.Time) time.Time {
	t = t.UTC()
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -1, 0)
}
