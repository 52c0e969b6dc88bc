package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/postpilothq/postpilot/configs"
	"github.com/postpilothq/postpilot/internal/service"
)

type AuthHandler struct {
	cfg config.Config
	s   service.AuthService
}

func NewAuthHandler(cfg config.Config, s service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, s: s}
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	email := c.FormValue("email")
	password := c.FormValue("password")

	profile, token, err := h.s.SignIn(c.Context(), email, password)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(72 * time.Hour),
		HTTPOnly: true,
	})

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.SendStatus(fiber.StatusOK)
}
