package validate

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RegisterInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}

		if input.Role == constants.ROLE_ADMIN {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ADMIN_ROLE_FORBIDDEN, errors.New("admin self registration"))
		}
		if input.Role == "" {
			input.Role = constants.ROLE_USER
		}
		input.Email = utils.NormalizeEmail(input.Email)

		c.Locals("input", input)
		return c.Next()
	}
}

func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.LoginInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		input.Email = utils.NormalizeEmail(input.Email)

		c.Locals("input", input)
		return c.Next()
	}
}

func VerifyEmail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.VerifyEmailInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func ForgotPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ForgotPasswordInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		input.Email = utils.NormalizeEmail(input.Email)

		c.Locals("input", input)
		return c.Next()
	}
}

func ResetPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ResetPasswordInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func RefreshToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RefreshTokenInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateProfileInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ChangePasswordInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}
