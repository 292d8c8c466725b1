package notification

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the inbox listing. ownerOnly must reject callers that
// are not the :username they ask for.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, ownerOnly fiber.Handler) {
	r.Get("/:username", authMiddleware, ownerOnly, func(c *fiber.Ctx) error {
		list, err := svc.List(c.Context(), c.Params("username"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"result": list})
	})
}
