package handler

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func GetProfile(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, helper.GetCurrentUser(c))
}

func UpdateProfile(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.UpdateProfileInput)

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = utils.StringPtr(*input.AvatarURL)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			return err
		}
	}

	var updated model.User
	if err := database.DB.First(&updated, "id = ?", user.ID).Error; err != nil {
		return err
	}
	return utils.SuccessMessageResponse(c, fiber.StatusOK, &updated, "Profile updated successfully")
}

func ChangePassword(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.ChangePasswordInput)

	if !helper.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.WRONG_PASSWORD, nil)
	}
	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := database.DB.Model(user).Update("password", hash).Error; err != nil {
		return err
	}

	logger.L().Info("password changed", zap.String("userId", user.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Password changed successfully")
}
