package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Dashboard composes the live view for one user: current score, the
// last 10 activities, today's per-type counts, the last 5 notifications
// and a 7-day score trend. Pure read; unknown users report score 0.
func (t *tracker) Dashboard(ctx context.Context, userID string) (*DashboardView, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}

	view := &DashboardView{UserID: userID}

	score, err := t.store.GetInt(ctx, scoreKey(userID))
	if err != nil {
		return nil, fmt.Errorf("read score: %w", err)
	}
	view.CurrentScore = score

	rawActivities, err := t.store.LRange(ctx, recentActivitiesKey(userID), 0, dashboardRecentCount-1)
	if err != nil {
		return nil, fmt.Errorf("read recent activities: %w", err)
	}
	view.RecentActivities = make([]*ActivityEvent, 0, len(rawActivities))
	for _, raw := range rawActivities {
		var ev ActivityEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			t.log.Warn("skipping malformed recent activity", "user_id", userID, "error", err)
			continue
		}
		view.RecentActivities = append(view.RecentActivities, &ev)
	}

	today := dayOf(t.now())
	todayKeys, err := t.store.ScanKeys(ctx, "daily:"+userID+":"+today+":*")
	if err != nil {
		return nil, fmt.Errorf("scan daily keys: %w", err)
	}
	view.TodayActivities = make(map[string]int64, len(todayKeys))
	for _, key := range todayKeys {
		idx := strings.LastIndex(key, ":")
		if idx < 0 || idx == len(key)-1 {
			continue
		}
		activityType := key[idx+1:]
		count, err := t.store.GetInt(ctx, key)
		if err != nil {
			t.log.Warn("daily counter read failed", "key", key, "error", err)
			continue
		}
		view.TodayActivities[activityType] = count
	}

	rawNotifications, err := t.store.LRange(ctx, notificationsKey(userID), 0, dashboardNotificationCount-1)
	if err != nil {
		return nil, fmt.Errorf("read notifications: %w", err)
	}
	view.RecentNotifications = make([]*Notification, 0, len(rawNotifications))
	for _, raw := range rawNotifications {
		var n Notification
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			t.log.Warn("skipping malformed notification", "user_id", userID, "error", err)
			continue
		}
		view.RecentNotifications = append(view.RecentNotifications, &n)
	}

	// Oldest to newest, zero-filled: always exactly trendDays points.
	view.ScoreTrend = make([]TrendPoint, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		date := dayOf(t.now().AddDate(0, 0, -i))
		daily, err := t.store.GetInt(ctx, dailyScoreKey(userID, date))
		if err != nil {
			t.log.Warn("daily score read failed", "user_id", userID, "date", date, "error", err)
			daily = 0
		}
		view.ScoreTrend = append(view.ScoreTrend, TrendPoint{Date: date, Score: daily})
	}

	return view, nil
}
