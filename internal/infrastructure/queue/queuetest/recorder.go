// Package queuetest records enqueued tasks for assertions.
package queuetest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
)

type Task struct {
	Type    string
	Payload []byte
}

// Recorder is a queue.Enqueuer that keeps every task in memory.
type Recorder struct {
	mu    sync.Mutex
	tasks []Task

	// Err, when set, is returned by Enqueue.
	Err error
}

func (r *Recorder) Enqueue(_ context.Context, taskType string, payload interface{}, _ ...asynq.Option) error {
	if r.Err != nil {
		return r.Err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, Task{Type: taskType, Payload: data})
	return nil
}

// Tasks returns tasks of the given type, or all tasks when taskType is empty.
func (r *Recorder) Tasks(taskType string) []Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Task
	for _, t := range r.tasks {
		if taskType == "" || t.Type == taskType {
			out = append(out, t)
		}
	}
	return out
}
