package cron

import (
	"context"
	"time"

	"wanderlust/config"
	analyticsRepo "wanderlust/database/repository/analytics"
	"wanderlust/services/realtime"
	"wanderlust/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// InitBackgroundWorker schedules the periodic maintenance jobs: the hourly
// view-history rollup and a connection gauge log. Returns the scheduler so
// the caller can stop it on shutdown.
func InitBackgroundWorker(analytics analyticsRepo.AnalyticsRepository, hub *realtime.Hub) *cron.Cron {
	logger := utils.GetLogger()
	c := cron.New()

	if _, err := c.AddFunc("@hourly", func() {
		trimViewHistory(analytics)
	}); err != nil {
		logger.Error("failed to schedule view history rollup", zap.Error(err))
	}

	if _, err := c.AddFunc("@every 5m", func() {
		logger.Info("realtime gauge",
			zap.Int("rooms", hub.RoomCount()),
			zap.Int("connections", hub.ConnectionCount()))
	}); err != nil {
		logger.Error("failed to schedule realtime gauge", zap.Error(err))
	}

	c.Start()
	logger.Info("background worker started")
	return c
}

// trimViewHistory drops per-view history entries older than the configured
// retention window. Aggregate totals keep counting; only the raw entries go.
func trimViewHistory(analytics analyticsRepo.AnalyticsRepository) {
	logger := utils.GetLogger()

	retention := config.AppConfig.ViewHistoryRetentionDays
	if retention <= 0 {
		retention = 30
	}
	cutoff := time.Now().AddDate(0, 0, -retention)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	modified, err := analytics.TrimViewHistory(ctx, cutoff)
	if err != nil {
		logger.Error("view history rollup failed", zap.Error(err))
		return
	}
	if modified > 0 {
		logger.Info("view history rolled up",
			zap.Int64("documents", modified), zap.Time("cutoff", cutoff))
	}
}
