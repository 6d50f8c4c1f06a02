package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setup(t *testing.T) *fiber.App {
	t.Helper()
	config.Set("JWT_SECRET", "middleware-secret")
	config.Set("REQUIRE_EMAIL_VERIFICATION", false)
	db, err := database.Connect(sqlite.Open("file::memory:"), gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	database.DB = db

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	whoami := func(c *fiber.Ctx) error {
		user := helper.GetCurrentUser(c)
		if user == nil {
			return utils.SuccessResponse(c, fiber.StatusOK, "guest")
		}
		return utils.SuccessResponse(c, fiber.StatusOK, user.Email)
	}
	app.Get("/private", Protected(), whoami)
	app.Get("/optional", OptionalAuth(), whoami)
	app.Get("/vendor", Protected(), Authorize(constants.ROLE_VENDOR, constants.ROLE_ADMIN), whoami)
	app.Get("/missing", func(c *fiber.Ctx) error { return gorm.ErrRecordNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Use(NotFound)
	return app
}

func createUser(t *testing.T, role string, active bool) *model.User {
	t.Helper()
	user := &model.User{Email: role + "@mw.pk", Password: "x", FirstName: "M", LastName: "W", Role: role, IsActive: true}
	require.NoError(t, database.DB.Create(user).Error)
	if !active {
		require.NoError(t, database.DB.Model(user).Update("is_active", false).Error)
	}
	return user
}

func call(t *testing.T, app *fiber.App, path, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestProtected(t *testing.T) {
	app := setup(t)
	user := createUser(t, constants.ROLE_USER, true)
	pair, err := helper.GenerateTokenPair(user)
	require.NoError(t, err)

	status, body := call(t, app, "/private", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Access token required", body["error"])

	status, body = call(t, app, "/private", "garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["error"])

	status, body = call(t, app, "/private", pair.RefreshToken)
	assert.Equal(t, fiber.StatusUnauthorized, status, "refresh tokens are not access tokens")
	assert.Equal(t, "Invalid token", body["error"])

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": user.ID, "type": "access", "exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("middleware-secret"))
	require.NoError(t, err)
	status, body = call(t, app, "/private", expired)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Token expired", body["error"])

	status, body = call(t, app, "/private", pair.Token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, user.Email, body["data"])
}

func TestProtectedRejectsInactiveAndUnverified(t *testing.T) {
	app := setup(t)
	inactive := createUser(t, constants.ROLE_USER, false)
	token, err := helper.GenerateAccessToken(inactive)
	require.NoError(t, err)
	status, _ := call(t, app, "/private", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	config.Set("REQUIRE_EMAIL_VERIFICATION", true)
	defer config.Set("REQUIRE_EMAIL_VERIFICATION", false)
	vendor := createUser(t, constants.ROLE_VENDOR, true)
	token, err = helper.GenerateAccessToken(vendor)
	require.NoError(t, err)
	status, body := call(t, app, "/private", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Please verify your email address", body["error"])
}

func TestOptionalAuth(t *testing.T) {
	app := setup(t)
	user := createUser(t, constants.ROLE_USER, true)
	token, err := helper.GenerateAccessToken(user)
	require.NoError(t, err)

	_, body := call(t, app, "/optional", "")
	assert.Equal(t, "guest", body["data"])
	_, body = call(t, app, "/optional", "garbage")
	assert.Equal(t, "guest", body["data"])
	_, body = call(t, app, "/optional", token)
	assert.Equal(t, user.Email, body["data"])
}

func TestAuthorize(t *testing.T) {
	app := setup(t)
	user := createUser(t, constants.ROLE_USER, true)
	vendor := createUser(t, constants.ROLE_VENDOR, true)
	userToken, _ := helper.GenerateAccessToken(user)
	vendorToken, _ := helper.GenerateAccessToken(vendor)

	status, body := call(t, app, "/vendor", userToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Insufficient permissions", body["error"])

	status, _ = call(t, app, "/vendor", vendorToken)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestErrorHandlerAndNotFound(t *testing.T) {
	app := setup(t)

	status, body := call(t, app, "/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Resource not found", body["error"])
	assert.Equal(t, false, body["success"])

	status, body = call(t, app, "/boom", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body["error"])

	status, body = call(t, app, "/nowhere?x=1", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Route /nowhere?x=1 not found", body["error"])
}
