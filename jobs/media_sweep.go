package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// ImageLister reports every image reference the product catalog still uses.
type ImageLister interface {
	ImageRefs(ctx context.Context) ([]string, error)
}

// ImageSweeper deletes stored files outside the referenced set.
type ImageSweeper interface {
	Sweep(refs []string) (int, error)
}

// NewMediaSweepHandler processes TaskMediaSweep tasks.
func NewMediaSweepHandler(catalog ImageLister, store ImageSweeper, logger *slog.Logger, metrics *Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("media_sweep")
		var payload MediaSweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return tracker.End(asynq.SkipRetry)
		}
		refs, err := catalog.ImageRefs(ctx)
		if err != nil {
			logger.Error("media sweep: list image refs", slog.Any("error", err))
			return tracker.End(err)
		}
		removed, err := store.Sweep(refs)
		if err != nil {
			logger.Error("media sweep failed", slog.Any("error", err))
			return tracker.End(err)
		}
		if removed > 0 {
			logger.Info("media sweep removed orphans", slog.Int("removed", removed))
		}
		return tracker.End(nil)
	}
}
