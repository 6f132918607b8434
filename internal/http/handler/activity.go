package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"complyapi/internal/service"
)

// ListActivities returns the activity trail, newest first, optionally
// filtered by entity.
func ListActivities(svc service.ActivityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "20"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.List(c.UserContext(), c.Query("entity_type"), c.Query("entity_id"), limit, offset)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(res)
	}
}
