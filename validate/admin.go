package validate

import (
	"asaan_shaadi/model"

	"github.com/gofiber/fiber/v2"
)

func FilterUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterUser
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}

func AdminUpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.AdminUpdateUserInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func Approval() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ApprovalInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func FilterContactMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterContactMessage
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}

// Pagination validates the page and limit query parameters only.
func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.Pagination
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}
