package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postpilothq/postpilot/internal/notify"
)

type NotificationHandler struct {
	center *notify.Center
}

func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

func (h *NotificationHandler) Current(c *fiber.Ctx) error {
	email := GetUserEmail(c)

	banner := h.center.Current(email)
	if banner == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(banner)
}

func (h *NotificationHandler) Hide(c *fiber.Ctx) error {
	email := GetUserEmail(c)
	h.center.Hide(email)
	return c.SendStatus(fiber.StatusOK)
}
