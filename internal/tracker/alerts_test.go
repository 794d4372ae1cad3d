package tracker

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
)

func seedChangeLog(t *testing.T, store *memStore, userID string, deltas ...int64) {
	t.Helper()
	for _, d := range deltas {
		raw, err := json.Marshal(ScoreChange{Delta: d, Reason: "activity_score"})
		if err != nil {
			t.Fatalf("marshal change: %v", err)
		}
		if err := store.LPush(context.Background(), scoreChangesKey(userID), string(raw)); err != nil {
			t.Fatalf("seed change log: %v", err)
		}
	}
}

func TestScoreDropRequiresThreeChanges(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})

	// Two entries averaging -10: still too sparse to act on.
	seedChangeLog(t, store, "u1", -10, -10)
	if err := tr.checkScoreDrop(context.Background(), "u1"); err != nil {
		t.Fatalf("checkScoreDrop: %v", err)
	}
	if got := countEvents(historyEvents(t, store, "u1"), EventPerformanceAlert); got != 0 {
		t.Fatalf("alerts with 2 changes: want=0 got=%d", got)
	}
}

func TestScoreDropFiresOnNegativeTrend(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})

	seedChangeLog(t, store, "u1", -6, -5, -7)
	if err := tr.checkScoreDrop(context.Background(), "u1"); err != nil {
		t.Fatalf("checkScoreDrop: %v", err)
	}
	events := historyEvents(t, store, "u1")
	if got := countEvents(events, EventPerformanceAlert); got != 1 {
		t.Fatalf("alerts: want=1 got=%d", got)
	}
	if events[0].Data["type"] != "score_drop" {
		t.Fatalf("alert kind: want=score_drop got=%v", events[0].Data["type"])
	}
}

func TestScoreDropQuietOnPositiveTrend(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})

	seedChangeLog(t, store, "u1", 6, 8, -5)
	if err := tr.checkScoreDrop(context.Background(), "u1"); err != nil {
		t.Fatalf("checkScoreDrop: %v", err)
	}
	if got := countEvents(historyEvents(t, store, "u1"), EventPerformanceAlert); got != 0 {
		t.Fatalf("alerts on positive trend: want=0 got=%d", got)
	}
}

func TestScoreDropUsesFiveMostRecent(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})

	// Old positive entries followed by five sharp drops; only the
	// recent window counts.
	seedChangeLog(t, store, "u1", 20, 20, 20, -8, -8, -8, -8, -8)
	if err := tr.checkScoreDrop(context.Background(), "u1"); err != nil {
		t.Fatalf("checkScoreDrop: %v", err)
	}
	if got := countEvents(historyEvents(t, store, "u1"), EventPerformanceAlert); got != 1 {
		t.Fatalf("alerts: want=1 got=%d", got)
	}
}

func TestActivityStreakFiresAtThreshold(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})
	ctx := context.Background()

	date := dayOf(testNow)
	if err := store.Set(ctx, dailyKey("u1", date, "code_commit"), "4", 0); err != nil {
		t.Fatalf("seed daily: %v", err)
	}
	if err := store.Set(ctx, dailyKey("u1", date, "code_review"), "3", 0); err != nil {
		t.Fatalf("seed daily: %v", err)
	}

	if err := tr.checkActivityStreak(ctx, "u1"); err != nil {
		t.Fatalf("checkActivityStreak: %v", err)
	}
	events := historyEvents(t, store, "u1")
	if got := countEvents(events, EventActivityStreak); got != 1 {
		t.Fatalf("streak notifications: want=1 got=%d", got)
	}
}

func TestActivityStreakBelowThreshold(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})
	ctx := context.Background()

	if err := store.Set(ctx, dailyKey("u1", dayOf(testNow), "code_commit"), "6", 0); err != nil {
		t.Fatalf("seed daily: %v", err)
	}
	if err := tr.checkActivityStreak(ctx, "u1"); err != nil {
		t.Fatalf("checkActivityStreak: %v", err)
	}
	if got := countEvents(historyEvents(t, store, "u1"), EventActivityStreak); got != 0 {
		t.Fatalf("streak notifications: want=0 got=%d", got)
	}
}

func TestAlertScanIsolatesUserFailures(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})
	ctx := context.Background()

	// Two users with scores; one has a corrupt change log entry that is
	// skipped, not fatal for the scan.
	if _, err := store.IncrBy(ctx, scoreKey("u1"), 10); err != nil {
		t.Fatalf("seed score: %v", err)
	}
	if _, err := store.IncrBy(ctx, scoreKey("u2"), 10); err != nil {
		t.Fatalf("seed score: %v", err)
	}
	if err := store.LPush(ctx, scoreChangesKey("u1"), "{not json"); err != nil {
		t.Fatalf("seed corrupt change: %v", err)
	}
	seedChangeLog(t, store, "u2", -9, -9, -9)

	if err := tr.runAlertScan(ctx); err != nil {
		t.Fatalf("runAlertScan: %v", err)
	}
	if got := countEvents(historyEvents(t, store, "u2"), EventPerformanceAlert); got != 1 {
		t.Fatalf("u2 alert despite u1 corruption: want=1 got=%d", got)
	}
}

func TestAlertScanBothChecksCanFire(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(t, store, Config{})
	ctx := context.Background()

	if _, err := store.IncrBy(ctx, scoreKey("u1"), 10); err != nil {
		t.Fatalf("seed score: %v", err)
	}
	seedChangeLog(t, store, "u1", -8, -8, -8)
	date := dayOf(testNow)
	if err := store.Set(ctx, dailyKey("u1", date, "code_commit"), strconv.Itoa(9), 0); err != nil {
		t.Fatalf("seed daily: %v", err)
	}

	if err := tr.runAlertScan(ctx); err != nil {
		t.Fatalf("runAlertScan: %v", err)
	}
	events := historyEvents(t, store, "u1")
	if countEvents(events, EventPerformanceAlert) != 1 || countEvents(events, EventActivityStreak) != 1 {
		t.Fatalf("both checks should fire: got alerts=%d streaks=%d",
			countEvents(events, EventPerformanceAlert), countEvents(events, EventActivityStreak))
	}
}
