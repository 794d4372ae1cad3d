package tracker

import "errors"

// ErrInvalidPeriod is returned by Analytics for period strings other
// than "weekly" or "monthly". It is a client error, not a store failure.
var ErrInvalidPeriod = errors.New("invalid period: must be weekly or monthly")

// ActivityEvent is a single recorded user action. Immutable once
// recorded; the same instance is consumed once by the recorder's
// durable writes and once by the aggregation drain.
type ActivityEvent struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	Timestamp    int64          `json:"timestamp"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ScoreDelta   int64          `json:"score_increment"`
}

// ScoreChange is one entry of the per-user bounded change log.
// PreviousScore + Delta always equals NewScore; both are derived from
// the atomic increment result so ledger and log cannot diverge.
type ScoreChange struct {
	Timestamp     int64  `json:"timestamp"`
	PreviousScore int64  `json:"previous_score"`
	NewScore      int64  `json:"new_score"`
	Delta         int64  `json:"change"`
	Reason        string `json:"reason"`
}

// Notification is the envelope published on the per-user channel and
// appended to the bounded history list.
type Notification struct {
	ID        string         `json:"id"`
	EventType string         `json:"event_type"`
	UserID    string         `json:"user_id"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// Notification event types.
const (
	EventActivityTracked   = "activity_tracked"
	EventScoreUpdated      = "score_updated"
	EventMilestoneAchieved = "milestone_achieved"
	EventPerformanceAlert  = "performance_alert"
	EventActivityStreak    = "activity_streak"
)

// TrendPoint is one day of the dashboard score trend.
type TrendPoint struct {
	Date  string `json:"date"`
	Score int64  `json:"score"`
}

// DashboardView composes the live read side for one user.
type DashboardView struct {
	UserID              string           `json:"user_id"`
	CurrentScore        int64            `json:"current_score"`
	RecentActivities    []*ActivityEvent `json:"recent_activities"`
	TodayActivities     map[string]int64 `json:"today_activities"`
	RecentNotifications []*Notification  `json:"recent_notifications"`
	ScoreTrend          []TrendPoint     `json:"score_trend"`
}

// PeriodDelta compares one aggregate field against the previous period.
type PeriodDelta struct {
	Current       int64   `json:"current"`
	Previous      int64   `json:"previous"`
	ChangePercent float64 `json:"change_percent"`
}

// Averages divides period totals by the nominal period length
// (7 for weekly, 30 for monthly), not the elapsed days.
type Averages struct {
	DailyScore      float64 `json:"daily_score"`
	DailyActivities float64 `json:"daily_activities"`
}

// AnalyticsView is the historical read side for one user and period.
type AnalyticsView struct {
	UserID     string                 `json:"user_id"`
	Period     string                 `json:"period"`
	PeriodData map[string]int64       `json:"period_data"`
	Averages   *Averages              `json:"averages,omitempty"`
	Comparison map[string]PeriodDelta `json:"comparison"`
}

// batchRecord is the immutable snapshot persisted for each drained
// aggregation batch. Expires after batchTTL.
type batchRecord struct {
	ActivityCounts  map[string]int64 `json:"activity_counts"`
	TotalActivities int              `json:"total_activities"`
	TotalScore      int64            `json:"total_score"`
	Timestamp       int64            `json:"timestamp"`
	ProcessedAt     string           `json:"processed_at"`
}
