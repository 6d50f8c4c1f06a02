package handler

import (
	"asaan_shaadi/config"
	"asaan_shaadi/database"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

func CreateContactMessage(c *fiber.Ctx) error {
	input := c.Locals("input").(model.ContactInput)

	var msg model.ContactMessage
	if err := copier.Copy(&msg, &input); err != nil {
		return err
	}
	if err := database.DB.Create(&msg).Error; err != nil {
		return err
	}

	utils.SendContactNotificationEmail(config.Config("ADMIN_EMAIL"), utils.ContactEmailData{
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Subject: msg.Subject,
		Message: msg.Message,
	})
	logger.L().Info("contact message received", zap.String("messageId", msg.ID), zap.String("email", msg.Email))
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, fiber.Map{"id": msg.ID},
		"Thank you for contacting us. We will get back to you soon.")
}
