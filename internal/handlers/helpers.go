package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func currentUserID(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals("user_id").(int64)
	return userID, ok && userID > 0
}

func currentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "authentication required",
	})
}
