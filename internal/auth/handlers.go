package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/signup", func(c *fiber.Ctx) error {
		var req SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		_, resp, err := svc.Signup(c.Context(), req)
		var exists *ExistsError
		switch {
		case errors.As(err, &exists):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message":        exists.Error(),
				"userNameExists": exists.UsernameExists,
				"emailExists":    exists.EmailExists,
			})
		case errors.Is(err, ErrMissingFields):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "Success!", "token": resp.Token, "userId": resp.UserID})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil || req.Identifier == "" || req.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "identifier and password required")
		}
		_, resp, err := svc.Login(c.Context(), req)
		if errors.Is(err, ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "Successful!", "token": resp.Token, "userId": resp.UserID})
	})

	r.Get("/password-reset", func(c *fiber.Ctx) error {
		email := c.Query("email")
		if email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email required")
		}
		mailID, err := svc.RequestPasswordReset(c.Context(), email)
		if errors.Is(err, ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "could not find user")
		}
		if err != nil {
			log.WithError(err).Error("password reset request failed")
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": "Password reset email sent", "mailId": mailID})
	})

	r.Post("/password-reset", func(c *fiber.Ctx) error {
		var req ResetRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		err := svc.ResetPassword(c.Context(), req)
		switch {
		case errors.Is(err, ErrUserNotFound):
			return fiber.NewError(fiber.StatusUnauthorized, "User not found or bad user")
		case errors.Is(err, ErrInvalidResetToken):
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		case err != nil:
			log.WithError(err).Error("password reset failed")
			return fiber.NewError(fiber.StatusInternalServerError, "Error resetting password")
		}
		return c.JSON(fiber.Map{"message": "Password has changed"})
	})
}
