package media

import (
	"errors"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Image string `json:"image"`
			Kind  string `json:"kind"`
		}
		if err := c.BodyParser(&body); err != nil || body.Image == "" {
			return fiber.NewError(fiber.StatusBadRequest, "image required")
		}
		if body.Kind == "" {
			body.Kind = KindPostImage
		}

		id, url, err := svc.UploadKind(c.Context(), auth.CurrentUser(c), body.Image, body.Kind)
		switch {
		case errors.Is(err, ErrUploadNotConfigured):
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		case errors.Is(err, ErrStoreFailed):
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "url": url})
	})
}
