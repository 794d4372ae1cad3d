package tracker

import (
	"fmt"
	"strings"
	"time"
)

// Key schema over the durable store. Every key embeds the user id so
// retention and scans stay per-user.
func scoreKey(userID string) string {
	return "scores:" + userID + ":current"
}

func lastUpdatedKey(userID string) string {
	return "scores:" + userID + ":last_updated"
}

func scoreChangesKey(userID string) string {
	return "score_changes:" + userID
}

func recentActivitiesKey(userID string) string {
	return "dashboard:" + userID + ":recent_activities"
}

func dailyKey(userID, date, activityType string) string {
	return "daily:" + userID + ":" + date + ":" + activityType
}

func dailyScoreKey(userID, date string) string {
	return "daily_score:" + userID + ":" + date
}

func activityStreamKey(userID string) string {
	return "stream:" + userID + ":activities"
}

func batchKey(userID string, ts int64) string {
	return fmt.Sprintf("batch:%s:%d", userID, ts)
}

func weeklyKey(userID string, t time.Time) string {
	return "weekly:" + userID + ":" + weekOf(t)
}

func monthlyKey(userID string, t time.Time) string {
	return "monthly:" + userID + ":" + monthOf(t)
}

func milestoneKey(userID string, milestone int) string {
	return fmt.Sprintf("milestones:%s:%d", userID, milestone)
}

func notificationsKey(userID string) string {
	return "notifications:" + userID
}

// NotificationChannel is the per-user pub/sub channel consumers
// subscribe to for live updates.
func NotificationChannel(userID string) string {
	return "user:" + userID + ":notifications"
}

func dayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func monthOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// weekOf renders a Monday-based week-of-year label ("2025-W34").
// Days before the year's first Monday fall into week 0, matching the
// labels already present in deployed stores.
func weekOf(t time.Time) string {
	t = t.UTC()
	wd := (int(t.Weekday()) + 6) % 7 // Monday = 0
	week := (t.YearDay() + 6 - wd) / 7
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}

// userFromScoreKey extracts the user id from a "scores:<id>:current"
// key. Malformed keys are reported, not fatal.
func userFromScoreKey(key string) (string, bool) {
	if !strings.HasPrefix(key, "scores:") || !strings.HasSuffix(key, ":current") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, "scores:"), ":current")
	if id == "" {
		return "", false
	}
	return id, true
}

// dateFromDailyKey pulls the embedded date out of "daily:<u>:<date>:<type>"
// and "daily_score:<u>:<date>" keys.
func dateFromDailyKey(key string) (time.Time, bool) {
	parts := strings.Split(key, ":")
	var raw string
	switch {
	case len(parts) == 4 && parts[0] == "daily":
		raw = parts[2]
	case len(parts) == 3 && parts[0] == "daily_score":
		raw = parts[2]
	default:
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
