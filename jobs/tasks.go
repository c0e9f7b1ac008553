package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionSweep prunes expired session records.
	TaskSessionSweep = "session:sweep"
	// TaskPrincipalInvalidate evicts cached principals for a user.
	TaskPrincipalInvalidate = "principal:invalidate"
)

// SessionSweepPayload carries scheduling metadata for the sweep.
type SessionSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSessionSweepTask constructs an Asynq task for the session sweep.
func NewSessionSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SessionSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionSweep, body, asynq.Queue(QueueDefault)), nil
}

// PrincipalInvalidatePayload identifies the user whose cached principals must go.
type PrincipalInvalidatePayload struct {
	UserID int64  `json:"user_id"`
	Reason string `json:"reason"`
}

// NewPrincipalInvalidateTask constructs an Asynq task for principal eviction.
func NewPrincipalInvalidateTask(payload PrincipalInvalidatePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPrincipalInvalidate, body, asynq.Queue(QueueDefault)), nil
}
