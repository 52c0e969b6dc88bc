package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilothq/postpilot/internal/service"
)

func GetUserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

// errorStatus maps the service error taxonomy onto HTTP status codes.
func errorStatus(err error) int {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return fiber.StatusBadRequest
	}

	if errors.Is(err, service.ErrSubmissionInFlight) {
		return fiber.StatusConflict
	}

	var domErr *service.DomainError
	if errors.As(err, &domErr) {
		return fiber.StatusBadGateway
	}

	var netErr *service.NetworkError
	if errors.As(err, &netErr) {
		return fiber.StatusBadGateway
	}

	return fiber.StatusInternalServerError
}
