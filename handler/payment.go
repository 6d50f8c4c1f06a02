package handler

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StripeWebhook credits succeeded payment intents to their bookings.
func StripeWebhook(c *fiber.Ctx) error {
	secret := config.Config("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.PAYMENTS_DISABLED, nil)
	}

	event, err := webhook.ConstructEventWithOptions(c.Body(), c.Get("Stripe-Signature"), secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		logger.L().Warn("stripe webhook rejected", zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_WEBHOOK, err)
	}

	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"received": true})
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_REQUEST_BODY, err)
	}

	var booking *model.Booking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = helper.ApplyPayment(tx, intent.ID, intent.Metadata["bookingId"], helper.FromMinorUnits(intent.AmountReceived))
		return err
	})
	if errors.Is(err, helper.ErrPaymentRecorded) {
		logger.L().Info("stripe intent already applied", zap.String("intentId", intent.ID))
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"received": true})
	}
	if err != nil {
		return err
	}
	if booking == nil {
		logger.L().Info("stripe intent matched no booking", zap.String("intentId", intent.ID))
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"received": true})
	}

	helper.PublishNotification(c.UserContext(), booking.UserID, model.NotificationEvent{
		Type:      model.EventBookingPaid,
		BookingID: booking.ID,
		Reference: booking.ReferenceCode,
		Status:    booking.Status,
		Message:   "Payment received for booking " + booking.ReferenceCode,
		CreatedAt: time.Now(),
	})
	logger.L().Info("booking payment applied",
		zap.String("bookingId", booking.ID),
		zap.String("intentId", intent.ID),
		zap.Float64("amountPaid", booking.AmountPaid),
		zap.String("paymentStatus", booking.PaymentStatus))
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"received": true})
}
