package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskStatsWarmup recomputes the order statistics cache.
	TaskStatsWarmup = "stats:warmup"
	// TaskMediaSweep removes uploaded images no product references.
	TaskMediaSweep = "media:sweep"
	// TaskIdempotencyCleanup expires old idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// StatsWarmupPayload carries scheduling metadata.
type StatsWarmupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewStatsWarmupTask constructs an Asynq task for the stats cache warmup.
func NewStatsWarmupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(StatsWarmupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatsWarmup, body, asynq.Queue(QueueDefault)), nil
}

// MediaSweepPayload carries scheduling metadata.
type MediaSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewMediaSweepTask constructs an Asynq task for the orphan image sweep.
func NewMediaSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(MediaSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMediaSweep, body, asynq.Queue(QueueDefault)), nil
}

// IdempotencyCleanupPayload sets how old a key must be before removal.
type IdempotencyCleanupPayload struct {
	OlderThan time.Duration `json:"older_than"`
}

// NewIdempotencyCleanupTask constructs an Asynq task for key expiry.
func NewIdempotencyCleanupTask(olderThan time.Duration) (*asynq.Task, error) {
	body, err := json.Marshal(IdempotencyCleanupPayload{OlderThan: olderThan})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIdempotencyCleanup, body, asynq.Queue(QueueDefault)), nil
}
