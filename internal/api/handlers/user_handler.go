package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postpilothq/postpilot/internal/service"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{s: s}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	email := GetUserEmail(c)

	profile, err := h.s.Info(c.Context(), email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unable to load profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}
