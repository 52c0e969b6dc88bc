package queue

import (
	"github.com/postpilothq/postpilot/internal/service"
)

type Queue struct {
	as service.AccountService
}

func NewQueue(as service.AccountService) *Queue {
	return &Queue{as: as}
}

const TaskTypeConnectionPoll = "connection:poll"

type ConnectionPollPayload struct {
	Email string `json:"email"`
}
