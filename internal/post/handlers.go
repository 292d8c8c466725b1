package post

import (
	"errors"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/auth"
	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/monitoring"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/new", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		post, err := svc.Create(c.Context(), auth.CurrentUser(c), req)
		if errors.Is(err, ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		monitoring.PostsCreated.Inc()
		log.WithFields(log.Fields{"post_id": post.ID, "img_url": post.ImgURL}).Info("post created")
		return c.JSON(fiber.Map{"result": post})
	})

	r.Post("/filter", func(c *fiber.Ctx) error {
		var req FilterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		posts, err := svc.Filter(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"result": posts})
	})

	r.Get("/all", func(c *fiber.Ctx) error {
		posts, err := svc.All(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"result": posts})
	})

	r.Get("/status/:id", func(c *fiber.Ctx) error {
		post, err := svc.Get(c.Context(), c.Params("id"))
		if errors.Is(err, ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(post)
	})

	r.Get("/:tag", func(c *fiber.Ctx) error {
		posts, err := svc.ByTag(c.Context(), c.Params("tag"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"result": posts})
	})

	r.Patch("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var fields map[string]any
		if err := c.BodyParser(&fields); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		post, err := svc.Patch(c.Context(), c.Params("id"), fields)
		switch {
		case errors.Is(err, ErrInvalidPatch):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrPostNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Post not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": post})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		err := svc.Delete(c.Context(), c.Params("id"))
		if errors.Is(err, ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Post does not exist")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "removed"})
	})
}
