package validate

import (
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateContactMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ContactInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		input.Email = utils.NormalizeEmail(input.Email)

		c.Locals("input", input)
		return c.Next()
	}
}

func MediaSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.MediaSignatureInput
		if len(c.Body()) > 0 {
			if ok, err := parseBody(c, &input); !ok {
				return err
			}
		}
		c.Locals("input", input)
		return c.Next()
	}
}
