package handlers

import (
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/postpilothq/postpilot/internal/service"
	"github.com/postpilothq/postpilot/internal/transfer"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(s service.PostService) *PostHandler {
	return &PostHandler{s: s}
}

// CreatePost accepts the full draft form: direct file uploads under "media"
// plus "media_url" fields for data URIs, remote URLs and device paths.
func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	email := GetUserEmail(c)

	var files []*multipart.FileHeader
	var mediaURIs, tags, platforms []string

	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}
	files = form.File["media"]
	mediaURIs = form.Value["media_url"]
	tags = form.Value["tags"]
	platforms = form.Value["platforms"]

	pc := transfer.PostCreation{
		Kind:          c.FormValue("kind"),
		Carousel:      c.FormValue("carousel") == "true",
		Caption:       c.FormValue("caption"),
		Tags:          tags,
		ScheduledTime: c.FormValue("scheduled_for"),
		Platforms:     platforms,
		BannerID:      c.FormValue("banner_id"),
		MediaURIs:     mediaURIs,
		MediaHint:     c.FormValue("media_hint"),
	}

	result, err := h.s.Create(c.Context(), email, &pc, files)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": result.Message,
		"body":    result.Body,
	})
}

func (h *PostHandler) RetryPost(c *fiber.Ctx) error {
	email := GetUserEmail(c)

	result, err := h.s.Retry(c.Context(), email)
	if err != nil {
		return c.Status(errorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": result.Message,
		"body":    result.Body,
	})
}

// PendingPost is the startup check: a leftover record means the last
// submission failed or its outcome is unknown, and retry should be offered.
func (h *PostHandler) PendingPost(c *fiber.Ctx) error {
	email := GetUserEmail(c)

	record, err := h.s.Pending(c.Context(), email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load pending post",
		})
	}
	if record == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

func (h *PostHandler) ListHistory(c *fiber.Ctx) error {
	email := GetUserEmail(c)
	limit := c.QueryInt("limit", 50)

	records, err := h.s.History(c.Context(), email, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to list submission history",
		})
	}

	return c.Status(fiber.StatusOK).JSON(records)
}
