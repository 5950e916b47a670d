package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-shop/meridian/internal/orders"
)

// StatsRefresher recomputes the dashboard statistics and repopulates the cache.
type StatsRefresher interface {
	RefreshStats(ctx context.Context) (orders.Stats, error)
}

// NewStatsWarmupHandler processes TaskStatsWarmup tasks.
func NewStatsWarmupHandler(refresher StatsRefresher, logger *slog.Logger, metrics *Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("stats_warmup")
		var payload StatsWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		stats, err := refresher.RefreshStats(ctx)
		if err != nil {
			logger.Error("stats warmup failed", slog.Any("error", err))
			return tracker.End(err)
		}
		logger.Info("stats cache warmed",
			slog.Int("orders", stats.TotalOrders),
			slog.Time("scheduled_for", payload.ScheduledFor.UTC()),
		)
		return tracker.End(nil)
	}
}
