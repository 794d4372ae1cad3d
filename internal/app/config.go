package app

import (
	"strings"
	"time"

	redisclient "github.com/pulsehq/teampulse-backend/internal/clients/redis"
	"github.com/pulsehq/teampulse-backend/internal/platform/envutil"
	"github.com/pulsehq/teampulse-backend/internal/platform/logger"
	"github.com/pulsehq/teampulse-backend/internal/tracker"
)

type Config struct {
	HTTPAddr     string
	AllowOrigins []string
	Redis        redisclient.Config
	Tracker      tracker.Config
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		HTTPAddr: envutil.String("HTTP_ADDR", ":8080"),
		Redis: redisclient.Config{
			Addr:     envutil.String("REDIS_ADDR", "localhost:6379"),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		},
		Tracker: tracker.Config{
			Milestones:          envutil.Ints("MILESTONES", []int{50, 100, 200, 500}),
			ScoreDropThreshold:  envutil.Float("SCORE_DROP_THRESHOLD", -5),
			StreakThreshold:     int64(envutil.Int("ACTIVITY_STREAK_THRESHOLD", 7)),
			AggregationInterval: envutil.Duration("AGGREGATION_INTERVAL", time.Minute),
			AlertInterval:       envutil.Duration("ALERT_INTERVAL", 5*time.Minute),
			CleanupInterval:     envutil.Duration("CLEANUP_INTERVAL", 24*time.Hour),
			CleanupDays:         envutil.Int("CLEANUP_DAYS", 90),
		},
	}

	if origins := envutil.String("CORS_ALLOW_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	if path := envutil.String("SCORING_WEIGHTS_FILE", ""); path != "" {
		weights, err := tracker.LoadWeights(path)
		if err != nil {
			log.Warn("scoring weights file ignored", "path", path, "error", err)
		} else {
			cfg.Tracker.Weights = weights
		}
	}

	return cfg
}
