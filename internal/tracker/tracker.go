package tracker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pulsehq/teampulse-backend/internal/platform/logger"
)

// Bounded-collection caps and thresholds.
const (
	recentActivitiesCap = 50
	changeLogCap        = 100
	notificationHistCap = 1000

	materialChangeThreshold = 5

	dashboardRecentCount       = 10
	dashboardNotificationCount = 5
	trendDays                  = 7

	recentChangeWindow = 5
	minChangesForAlert = 3

	batchTTL   = 7 * 24 * time.Hour
	weeklyTTL  = 30 * 24 * time.Hour
	monthlyTTL = 365 * 24 * time.Hour
)

// Config carries the tunable parts of the tracker. Zero values fall
// back to the defaults below.
type Config struct {
	Weights    Weights
	Milestones []int

	// ScoreDropThreshold fires a performance alert when the mean of
	// the recent score changes is at or below it. Negative.
	ScoreDropThreshold float64

	// StreakThreshold fires an activity-streak notification when
	// today's activity count reaches it.
	StreakThreshold int64

	AggregationInterval time.Duration
	AlertInterval       time.Duration

	// CleanupInterval of 0 disables the periodic cleanup loop;
	// CleanupOldData stays callable on demand.
	CleanupInterval time.Duration
	CleanupDays     int
}

func (c Config) withDefaults() Config {
	if c.Weights == nil {
		c.Weights = DefaultWeights()
	}
	if len(c.Milestones) == 0 {
		c.Milestones = []int{50, 100, 200, 500}
	}
	if c.ScoreDropThreshold == 0 {
		c.ScoreDropThreshold = -5
	}
	if c.StreakThreshold == 0 {
		c.StreakThreshold = 7
	}
	if c.AggregationInterval == 0 {
		c.AggregationInterval = time.Minute
	}
	if c.AlertInterval == 0 {
		c.AlertInterval = 5 * time.Minute
	}
	if c.CleanupDays == 0 {
		c.CleanupDays = 90
	}
	return c
}

// Service is the contribution tracker boundary the API layer calls.
type Service interface {
	RecordActivity(ctx context.Context, userID, activityType string, metadata map[string]any) (*ActivityEvent, error)
	Dashboard(ctx context.Context, userID string) (*DashboardView, error)
	Analytics(ctx context.Context, userID, period string) (*AnalyticsView, error)
	CleanupOldData(ctx context.Context, daysToKeep int) (int, error)
	Subscribe(ctx context.Context, userID string) (<-chan []byte, func() error, error)

	// Start launches the aggregation, alert and cleanup loops. They
	// run until Close or until ctx is cancelled.
	Start(ctx context.Context)
	Close() error
}

type tracker struct {
	log   *logger.Logger
	store Store
	cfg   Config
	buf   *activityBuffer
	now   func() time.Time

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New builds the tracker service. The store must already be connected;
// New verifies it with a ping so a dead store fails startup instead of
// the first request.
func New(log *logger.Logger, store Store, cfg Config) (Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store ping: %w", err)
	}
	return &tracker{
		log:   log.With("service", "Tracker"),
		store: store,
		cfg:   cfg.withDefaults(),
		buf:   newActivityBuffer(),
		now:   time.Now,
	}, nil
}

func (t *tracker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	g, ctx := errgroup.WithContext(ctx)
	t.group = g

	g.Go(func() error { return t.runLoop(ctx, "aggregation", t.cfg.AggregationInterval, t.runAggregation) })
	g.Go(func() error { return t.runLoop(ctx, "alerts", t.cfg.AlertInterval, t.runAlertScan) })
	if t.cfg.CleanupInterval > 0 {
		g.Go(func() error {
			return t.runLoop(ctx, "cleanup", t.cfg.CleanupInterval, func(ctx context.Context) error {
				_, err := t.CleanupOldData(ctx, t.cfg.CleanupDays)
				return err
			})
		})
	}

	t.log.Info("background loops started",
		"aggregation_interval", t.cfg.AggregationInterval,
		"alert_interval", t.cfg.AlertInterval,
		"cleanup_interval", t.cfg.CleanupInterval)
}

// runLoop drives one periodic job until shutdown. A failing cycle is
// logged and the loop continues to the next tick.
func (t *tracker) runLoop(ctx context.Context, name string, interval time.Duration, cycle func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.log.Info("background loop stopped", "loop", name)
			return nil
		case <-ticker.C:
			if err := cycle(ctx); err != nil {
				t.log.Error("background cycle failed", "loop", name, "error", err)
			}
		}
	}
}

func (t *tracker) Subscribe(ctx context.Context, userID string) (<-chan []byte, func() error, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("user id required")
	}
	return t.store.Subscribe(ctx, NotificationChannel(userID))
}

func (t *tracker) Close() error {
	if t.cancel != nil {
		t.cancel()
	}
	if t.group != nil {
		_ = t.group.Wait()
	}
	return t.store.Close()
}
