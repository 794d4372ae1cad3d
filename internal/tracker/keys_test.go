package tracker

import (
	"testing"
	"time"
)

func TestWeekOf(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-01-01", "2024-W01"}, // a year starting on Monday
		{"2023-01-01", "2023-W00"}, // Sunday before the first Monday
		{"2023-01-02", "2023-W01"},
		{"2025-08-20", "2025-W33"},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := weekOf(d); got != tc.want {
			t.Fatalf("weekOf(%s): want=%s got=%s", tc.date, tc.want, got)
		}
	}
}

func TestUserFromScoreKey(t *testing.T) {
	if id, ok := userFromScoreKey("scores:alice:current"); !ok || id != "alice" {
		t.Fatalf("want alice got %q ok=%v", id, ok)
	}
	for _, bad := range []string{"scores::current", "daily:u:2025-01-01:x", "scores:alice:last_updated"} {
		if _, ok := userFromScoreKey(bad); ok {
			t.Fatalf("accepted malformed key %q", bad)
		}
	}
}

func TestDateFromDailyKey(t *testing.T) {
	d, ok := dateFromDailyKey("daily:u1:2025-06-15:code_commit")
	if !ok || d.Format("2006-01-02") != "2025-06-15" {
		t.Fatalf("daily key date: ok=%v got=%v", ok, d)
	}
	d, ok = dateFromDailyKey("daily_score:u1:2025-06-15")
	if !ok || d.Format("2006-01-02") != "2025-06-15" {
		t.Fatalf("daily_score key date: ok=%v got=%v", ok, d)
	}
	for _, bad := range []string{"daily:u1:junk:code_commit", "weekly:u1:2025-W01", "daily_score:u1:2025-14-99"} {
		if _, ok := dateFromDailyKey(bad); ok {
			t.Fatalf("accepted malformed key %q", bad)
		}
	}
}
