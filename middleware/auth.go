package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContext extracts the identity headers set by the gateway. Every
// request reaching this service already passed authentication upstream;
// this layer only reads the verdict. Requests without a user id are
// rejected before any handler runs.
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawID := c.Get("X-User-ID")
		if rawID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID header, request must come through the gateway",
			})
		}

		userID, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil || userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid X-User-ID header",
			})
		}

		isAdmin := false
		for _, role := range strings.Split(c.Get("X-User-Roles"), ",") {
			if strings.TrimSpace(role) == "admin" {
				isAdmin = true
				break
			}
		}

		c.Locals("user_id", uint(userID))
		c.Locals("is_admin", isAdmin)

		return c.Next()
	}
}

// RequireAdmin gates the operator routes. It assumes UserContext already
// ran on the group.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin role required",
			})
		}
		return c.Next()
	}
}
