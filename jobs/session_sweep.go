package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/scopegate/scopegate/internal/jobs"
)

// SessionSweeper removes persisted session records older than the cutoff.
type SessionSweeper interface {
	SweepExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// SessionSweepJob deletes expired session rows so stale tokens cannot resolve.
type SessionSweepJob struct {
	Sweeper SessionSweeper
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSessionSweepJob initialises the sweep handler.
func NewSessionSweepJob(sweeper SessionSweeper, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionSweepJob {
	return &SessionSweepJob{
		Sweeper: sweeper,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the sweep.
func (j *SessionSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.Metrics.Track("session_sweep")
	var payload SessionSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	removed, err := j.Sweeper.SweepExpiredSessions(ctx, j.clock())
	if err != nil {
		j.Logger.Error("session sweep", slog.Any("error", err))
		return tracker.End(err)
	}
	_ = tracker.End(nil)
	j.Logger.Info("session sweep complete",
		slog.Int64("removed", removed),
		slog.Time("scheduled_for", payload.ScheduledFor),
	)
	return nil
}
