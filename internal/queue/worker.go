package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/hibiken/asynq"
	"github.com/postpilothq/postpilot/internal/service"
)

// HandleConnectionPollTask drives the 60-second Instagram connection poll
// off the request path. A timeout is terminal, not retried by the queue.
func (q *Queue) HandleConnectionPollTask(ctx context.Context, task *asynq.Task) error {
	var payload ConnectionPollPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if _, err := q.as.PollInstagram(ctx, payload.Email); err != nil {
		if errors.Is(err, service.ErrPollTimeout) {
			log.Printf("Connection poll for %s timed out", payload.Email)
			return nil
		}
		return err
	}

	return nil
}
