package middleware

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"errors"
	"fmt"
	"slices"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var errInactive = errors.New("account inactive")

// authError carries the response for a rejected token.
type authError struct {
	status  int
	message string
	err     error
}

func (e *authError) Error() string { return e.message }

func requestToken(c *fiber.Ctx) string {
	if token := helper.BearerToken(c); token != "" {
		return token
	}
	return c.Cookies("access_token")
}

// ResolveUser verifies an access token and loads its active user.
func ResolveUser(token string) (*model.User, error) {
	claims, err := helper.ParseToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &authError{fiber.StatusUnauthorized, constants.TOKEN_EXPIRED, err}
		}
		return nil, &authError{fiber.StatusUnauthorized, constants.INVALID_TOKEN, err}
	}
	if claims.Type != constants.JWT_TYPE_ACCESS {
		return nil, &authError{fiber.StatusUnauthorized, constants.INVALID_TOKEN, fmt.Errorf("unexpected token type %q", claims.Type)}
	}

	user, err := helper.GetUserByID(database.DB, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &authError{fiber.StatusUnauthorized, constants.USER_NOT_FOUND, errors.New("user from token does not exist")}
	}
	if !user.IsActive {
		return nil, &authError{fiber.StatusUnauthorized, constants.ACCOUNT_DISABLED, errInactive}
	}
	if config.Bool("REQUIRE_EMAIL_VERIFICATION") && !user.IsVerified {
		return nil, &authError{fiber.StatusUnauthorized, constants.EMAIL_NOT_VERIFIED, errors.New("email not verified")}
	}
	return user, nil
}

func respondAuthError(c *fiber.Ctx, err error) error {
	var ae *authError
	if errors.As(err, &ae) {
		return utils.ErrorResponse(c, ae.status, ae.message, ae.err)
	}
	return err
}

// Protected requires a valid access token from the Authorization header or the access_token cookie.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := requestToken(c)
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ACCESS_TOKEN_REQUIRED, errors.New("no token"))
		}

		user, err := ResolveUser(token)
		if err != nil {
			return respondAuthError(c, err)
		}

		c.Locals(constants.LOCALS_USER, user)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is sent and lets every request through.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := requestToken(c)
		if token == "" {
			return c.Next()
		}
		user, err := ResolveUser(token)
		if err != nil {
			var ae *authError
			if errors.As(err, &ae) {
				return c.Next()
			}
			return err
		}
		c.Locals(constants.LOCALS_USER, user)
		return c.Next()
	}
}

// Authorize allows the listed roles only. It must run after Protected.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := helper.GetCurrentUser(c)
		if user == nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.AUTHENTICATION_REQUIRED, nil)
		}
		if !slices.Contains(roles, user.Role) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.INSUFFICIENT_PERMISSIONS, fmt.Errorf("role %s not in %v", user.Role, roles))
		}
		return c.Next()
	}
}

// WebSocketAuth guards a websocket route. Browsers cannot set headers on the
// handshake, so the token may also come from the token query parameter.
func WebSocketAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return utils.ErrorResponse(c, fiber.StatusUpgradeRequired, constants.UPGRADE_REQUIRED, nil)
		}
		token := c.Query("token")
		if token == "" {
			token = requestToken(c)
		}
		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ACCESS_TOKEN_REQUIRED, errors.New("no token"))
		}
		user, err := ResolveUser(token)
		if err != nil {
			return respondAuthError(c, err)
		}
		c.Locals(constants.LOCALS_USER, user)
		return c.Next()
	}
}
