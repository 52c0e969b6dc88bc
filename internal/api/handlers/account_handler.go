package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/postpilothq/postpilot/internal/queue"
	"github.com/postpilothq/postpilot/internal/service"
)

type AccountHandler struct {
	s           service.AccountService
	AsynqClient *asynq.Client
}

func NewAccountHandler(s service.AccountService, asynqClient *asynq.Client) *AccountHandler {
	return &AccountHandler{s: s, AsynqClient: asynqClient}
}

func (h *AccountHandler) GetStatus(c *fiber.Ctx) error {
	email := GetUserEmail(c)
	force := c.QueryBool("force", false)

	status, err := h.s.Status(c.Context(), email, force)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": "Unable to fetch connection status",
		})
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

// StartInstagramPoll kicks off the background poll that watches for the
// Instagram link to complete.
func (h *AccountHandler) StartInstagramPoll(c *fiber.Ctx) error {
	email := GetUserEmail(c)

	err := queue.EnqueueConnectionPoll(h.AsynqClient, queue.ConnectionPollPayload{Email: email})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to start connection check",
		})
	}

	return c.SendStatus(fiber.StatusAccepted)
}
