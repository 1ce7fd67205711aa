package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeDraftPurge     = "draft:purge"
	TypeSessionCleanup = "session:cleanup"
)

type DraftPurgePayload struct {
	DraftID string `json:"draftId"`
}

func NewDraftPurgeTask(draftID string, at time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(DraftPurgePayload{DraftID: draftID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDraftPurge, b)
	opts := []asynq.Option{asynq.ProcessAt(at), asynq.MaxRetry(5)}

	return task, opts, nil
}

func NewSessionCleanupTask() *asynq.Task {
	return asynq.NewTask(TypeSessionCleanup, nil)
}

// Enqueuer is the part of asynq.Client the scheduler needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PurgeScheduler queues draft purges on asynq.
type PurgeScheduler struct {
	client Enqueuer
}

func NewPurgeScheduler(client Enqueuer) *PurgeScheduler {
	return &PurgeScheduler{client: client}
}

func (s *PurgeScheduler) SchedulePurge(ctx context.Context, draftID string, at time.Time) error {
	task, opts, err := NewDraftPurgeTask(draftID, at)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue draft purge: %w", err)
	}
	return nil
}
