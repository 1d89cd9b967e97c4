package tasks

import (
	"context"
	"encoding/json"
	"time"

	"aitana/models"

	"github.com/hibiken/asynq"
)

const TypeHandoffDispatch = "handoff:dispatch"

// NewHandoffDispatchTask builds the queued relay task for a finalized
// booking.
func NewHandoffDispatchTask(payload models.HandoffPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeHandoffDispatch, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// QueueDispatcher enqueues handoff tasks on the Redis-backed queue. It
// satisfies the chat service's dispatcher seam.
type QueueDispatcher struct {
	client *asynq.Client
}

func NewQueueDispatcher(redisOpt asynq.RedisClientOpt) *QueueDispatcher {
	return &QueueDispatcher{client: asynq.NewClient(redisOpt)}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, token, memory string) error {
	task, opts, err := NewHandoffDispatchTask(models.HandoffPayload{Token: token, Memory: memory})
	if err != nil {
		return err
	}
	_, err = d.client.EnqueueContext(ctx, task, opts...)
	return err
}

func (d *QueueDispatcher) Close() error {
	return d.client.Close()
}
