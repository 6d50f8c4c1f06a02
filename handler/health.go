package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

var startedAt = time.Now()

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startedAt).Seconds(),
	})
}
