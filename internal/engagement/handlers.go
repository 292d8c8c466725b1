package engagement

import (
	"errors"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts like/unlike under the posts group and the liked-posts
// listing under the users group.
func RegisterRoutes(posts, users fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	posts.Patch("/:id/like", authMiddleware, func(c *fiber.Ctx) error {
		res, err := svc.Like(c.Context(), c.Params("id"), auth.CurrentUser(c))
		if err != nil {
			return engagementError(err)
		}
		return c.JSON(fiber.Map{"message": "Post liked successfully", "likesCount": res.LikesCount})
	})

	posts.Patch("/:id/unlike", authMiddleware, func(c *fiber.Ctx) error {
		res, err := svc.Unlike(c.Context(), c.Params("id"), auth.CurrentUser(c))
		if err != nil {
			return engagementError(err)
		}
		return c.JSON(fiber.Map{"message": "Post unliked successfully", "likesCount": res.LikesCount})
	})

	users.Get("/:userId/likes", authMiddleware, func(c *fiber.Ctx) error {
		posts, err := svc.LikedPosts(c.Context(), c.Params("userId"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(posts)
	})
}

func engagementError(err error) error {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	case errors.Is(err, ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, ErrNotLiked):
		return fiber.NewError(fiber.StatusBadRequest, "User has not liked the post")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
