package profile

import (
	"errors"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/profile", authMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), auth.CurrentUser(c))
		if errors.Is(err, ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(p)
	})

	r.Post("/profile", authMiddleware, func(c *fiber.Ctx) error {
		var u Update
		if err := c.BodyParser(&u); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.Update(c.Context(), auth.CurrentUser(c), u)
		if errors.Is(err, ErrProfileNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(p)
	})
}
