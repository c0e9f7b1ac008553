package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/scopegate/scopegate/internal/jobs"
)

// PrincipalInvalidator evicts cached principals for a single user.
type PrincipalInvalidator interface {
	InvalidateUser(ctx context.Context, userID int64) error
}

// PrincipalInvalidateJob drops cached principal entries after a role change
// so the next request re-resolves against the source of truth.
type PrincipalInvalidateJob struct {
	Invalidator PrincipalInvalidator
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
}

// NewPrincipalInvalidateJob initialises the eviction handler.
func NewPrincipalInvalidateJob(invalidator PrincipalInvalidator, logger *slog.Logger, metrics *jobmetrics.Metrics) *PrincipalInvalidateJob {
	return &PrincipalInvalidateJob{Invalidator: invalidator, Logger: logger, Metrics: metrics}
}

// Handle executes the eviction.
func (j *PrincipalInvalidateJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.Metrics.Track("principal_invalidate")
	var payload PrincipalInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.UserID <= 0 {
		return asynq.SkipRetry
	}
	if err := j.Invalidator.InvalidateUser(ctx, payload.UserID); err != nil {
		j.Logger.Error("principal invalidate", slog.Int64("user_id", payload.UserID), slog.Any("error", err))
		return tracker.End(err)
	}
	_ = tracker.End(nil)
	j.Logger.Info("principal cache invalidated",
		slog.Int64("user_id", payload.UserID),
		slog.String("reason", payload.Reason),
	)
	return nil
}
