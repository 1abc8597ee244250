package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer schedules background tasks. Services depend on this instead of
// *asynq.Client so they can be tested without Redis.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}

// AsynqEnqueuer sends JSON payloads through an asynq client.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("type", taskType).
		Str("queue", info.Queue).
		Msg("Task enqueued")
	return nil
}

// Discard drops every task. Used when Redis is not reachable at startup.
type Discard struct{}

func (Discard) Enqueue(_ context.Context, taskType string, _ interface{}, _ ...asynq.Option) error {
	log.Warn().Str("type", taskType).Msg("Task queue unavailable, task dropped")
	return nil
}
