package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

// EnqueueConnectionPoll schedules a background poll of the connection-status
// webhook after the user starts linking Instagram.
func EnqueueConnectionPoll(asynqClient *asynq.Client, payload ConnectionPollPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeConnectionPoll, taskPayload)

	_, err = asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	log.Printf("Connection poll scheduled: %+v", payload)
	return nil
}
