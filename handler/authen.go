package handler

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	passwordResetTTL     = time.Hour
	emailVerificationTTL = 24 * time.Hour
)

func setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(config.Duration("JWT_EXPIRES_IN", 7*24*time.Hour)),
	})
}

func frontendLink(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", config.Config("FRONTEND_URL"), path, url.QueryEscape(token))
}

func authResponse(c *fiber.Ctx, user *model.User) (*model.AuthResponse, error) {
	tokens, err := helper.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	setAuthCookie(c, tokens.Token)
	return &model.AuthResponse{User: user, Token: tokens.Token, RefreshToken: tokens.RefreshToken}, nil
}

func Register(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RegisterInput)

	existing, err := helper.GetUserByEmail(database.DB, input.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.USER_ALREADY_EXISTS, nil)
	}

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return err
	}

	requireVerification := config.Bool("REQUIRE_EMAIL_VERIFICATION")
	var user model.User
	if err := copier.Copy(&user, &input); err != nil {
		return err
	}
	user.Password = hash
	user.IsVerified = !requireVerification
	user.IsActive = true

	var verification *model.AuthToken
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if requireVerification {
			verification, err = helper.CreateAuthToken(tx, user.ID, constants.TOKEN_EMAIL_VERIFICATION, emailVerificationTTL)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	if verification != nil {
		utils.SendVerificationEmail(user.Email, frontendLink("/auth/verify-email", verification.Token))
	}

	resp, err := authResponse(c, &user)
	if err != nil {
		return err
	}
	logger.L().Info("user registered", zap.String("userId", user.ID), zap.String("role", user.Role))
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, resp, "User registered successfully")
}

func Login(c *fiber.Ctx) error {
	input := c.Locals("input").(model.LoginInput)

	user, err := helper.GetUserByEmail(database.DB, input.Email)
	if err != nil {
		return err
	}
	if user == nil || !helper.CheckPasswordHash(input.Password, user.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_CREDENTIALS, nil)
	}
	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ACCOUNT_DISABLED, nil)
	}
	if config.Bool("REQUIRE_EMAIL_VERIFICATION") && !user.IsVerified {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.EMAIL_NOT_VERIFIED, nil)
	}

	now := time.Now()
	if err := database.DB.Model(user).UpdateColumn("last_login_at", now).Error; err != nil {
		return err
	}
	user.LastLoginAt = &now

	resp, err := authResponse(c, user)
	if err != nil {
		return err
	}
	logger.L().Info("user logged in", zap.String("userId", user.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, resp, "Login successful")
}

func Logout(c *fiber.Ctx) error {
	c.ClearCookie("access_token")
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Logged out")
}

func VerifyEmail(c *fiber.Ctx) error {
	input := c.Locals("input").(model.VerifyEmailInput)

	var user model.User
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		token, err := helper.ConsumeAuthToken(tx, input.Token, constants.TOKEN_EMAIL_VERIFICATION)
		if err != nil {
			return err
		}
		if token == nil {
			return fiber.NewError(fiber.StatusBadRequest, constants.INVALID_VERIFY_TOKEN)
		}
		if err := tx.First(&user, "id = ?", token.UserID).Error; err != nil {
			return err
		}
		user.IsVerified = true
		return tx.Model(&user).Update("is_verified", true).Error
	})
	if err != nil {
		return err
	}
	return utils.SuccessMessageResponse(c, fiber.StatusOK, &user, "Email verified successfully")
}

// ForgotPassword answers the same way whether or not the account exists.
func ForgotPassword(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ForgotPasswordInput)
	const message = "If an account with that email exists, a password reset link has been sent"

	user, err := helper.GetUserByEmail(database.DB, input.Email)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, message)
	}

	var token *model.AuthToken
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND purpose = ?", user.ID, constants.TOKEN_PASSWORD_RESET).Delete(&model.AuthToken{}).Error; err != nil {
			return err
		}
		var err error
		token, err = helper.CreateAuthToken(tx, user.ID, constants.TOKEN_PASSWORD_RESET, passwordResetTTL)
		return err
	})
	if err != nil {
		return err
	}

	utils.SendPasswordResetEmail(user.Email, frontendLink("/auth/reset-password", token.Token))
	logger.L().Info("password reset requested", zap.String("userId", user.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, message)
}

func ResetPassword(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ResetPasswordInput)

	hash, err := helper.HashPassword(input.Password)
	if err != nil {
		return err
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		token, err := helper.ConsumeAuthToken(tx, input.Token, constants.TOKEN_PASSWORD_RESET)
		if err != nil {
			return err
		}
		if token == nil {
			return fiber.NewError(fiber.StatusBadRequest, constants.INVALID_RESET_TOKEN)
		}
		return tx.Model(&model.User{}).Where("id = ?", token.UserID).Update("password", hash).Error
	})
	if err != nil {
		return err
	}
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Password has been reset successfully")
}

func RefreshToken(c *fiber.Ctx) error {
	input := c.Locals("input").(model.RefreshTokenInput)

	claims, err := helper.ParseToken(input.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_REFRESH_TOKEN, err)
	}
	if claims.Type != constants.JWT_TYPE_REFRESH {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_REFRESH_TOKEN, errors.New("not a refresh token"))
	}

	user, err := helper.GetUserByID(database.DB, claims.UserID)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_REFRESH_TOKEN, nil)
	}

	tokens, err := helper.GenerateTokenPair(user)
	if err != nil {
		return err
	}
	setAuthCookie(c, tokens.Token)
	return utils.SuccessResponse(c, fiber.StatusOK, tokens)
}

func Me(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, helper.GetCurrentUser(c))
}
