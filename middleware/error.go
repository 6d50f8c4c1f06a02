package middleware

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/logger"
	"asaan_shaadi/utils"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler in the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, message := utils.MapError(err)
	if status >= fiber.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	} else {
		logger.L().Debug("request rejected",
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))
	}
	return utils.ErrorResponse(c, status, message, err)
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusNotFound, fmt.Sprintf("Route %s not found", c.OriginalURL()), nil)
}

func TooManyRequests(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusTooManyRequests, constants.TOO_MANY_REQUESTS, nil)
}
