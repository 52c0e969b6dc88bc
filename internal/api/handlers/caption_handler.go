package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilothq/postpilot/internal/service"
)

type CaptionHandler struct {
	s service.CaptionService
}

func NewCaptionHandler(s service.CaptionService) *CaptionHandler {
	return &CaptionHandler{s: s}
}

func (h *CaptionHandler) Regenerate(c *fiber.Ctx) error {
	var req struct {
		Prompt string `json:"prompt"`
		IsReel bool   `json:"is_reel"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	caption, err := h.s.Regenerate(c.Context(), req.Prompt, req.IsReel)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"caption": caption,
	})
}
