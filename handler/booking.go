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
	"slices"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activeBookingStatuses = []string{constants.BOOKING_PENDING, constants.BOOKING_CONFIRMED}

func listingColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "slug", "owner_id")
}

func withBookingRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User", ownerColumns).
		Preload("Venue", listingColumns).
		Preload("Caterer", listingColumns)
}

func listBookings(c *fiber.Ctx, query *gorm.DB, filter model.FilterBooking) error {
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var (
		total    int64
		bookings []model.Booking
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		return query.Session(&gorm.Session{}).Count(&total).Error
	})
	g.Go(func() error {
		q := withBookingRelations(query.Session(&gorm.Session{})).Order("created_at DESC")
		return utils.ApplyPagination(q, limit, page).Find(&bookings).Error
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"bookings":   bookings,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

func GetMyBookings(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	filter := c.Locals("filter").(model.FilterBooking)
	return listBookings(c, database.DB.Model(&model.Booking{}).Where("user_id = ?", user.ID), filter)
}

// GetVendorBookings lists bookings on the caller's venues and caterers. Admins see all.
func GetVendorBookings(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	filter := c.Locals("filter").(model.FilterBooking)

	query := database.DB.Model(&model.Booking{})
	if !helper.IsAdmin(user) {
		query = query.Where("(venue_id IN (?) OR caterer_id IN (?))",
			database.DB.Model(&model.Venue{}).Select("id").Where("owner_id = ?", user.ID),
			database.DB.Model(&model.Caterer{}).Select("id").Where("owner_id = ?", user.ID))
	}
	return listBookings(c, query, filter)
}

func loadBooking(db *gorm.DB, id any) (*model.Booking, error) {
	var booking model.Booking
	if err := withBookingRelations(db).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func ownsBookedListing(user *model.User, b *model.Booking) bool {
	return (b.Venue != nil && b.Venue.OwnerID == user.ID) ||
		(b.Caterer != nil && b.Caterer.OwnerID == user.ID)
}

func canViewBooking(user *model.User, b *model.Booking) bool {
	return user != nil && (b.UserID == user.ID || helper.IsAdmin(user) || ownsBookedListing(user, b))
}

// findBooking loads the booking named by the id param. ok is false once a response has been written.
func findBooking(c *fiber.Ctx) (booking *model.Booking, ok bool, err error) {
	booking, err = loadBooking(database.DB, c.Locals("inputId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, utils.ErrorResponse(c, fiber.StatusNotFound, constants.BOOKING_NOT_FOUND, err)
		}
		return nil, false, err
	}
	return booking, true, nil
}

type bookingPlan struct {
	VenueID   *string
	CatererID *string
	EventDate utils.CustomDate
	StartTime string
	EndTime   string
	Guests    int
	PriceType string
	ExcludeID string
}

// lockVenue loads the venue FOR UPDATE so concurrent bookings of the same
// venue wait for each other's overlap check.
func lockVenue(tx *gorm.DB, id string, venue *model.Venue) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(venue, "id = ?", id)
}

// checkBookingPlan loads the listings of a plan and enforces availability
// and capacity rules inside tx, returning the resulting quote.
func checkBookingPlan(tx *gorm.DB, plan bookingPlan) (venue *model.Venue, caterer *model.Caterer, quote helper.BookingQuote, err error) {
	if plan.VenueID != nil {
		var v model.Venue
		if err = lockVenue(tx, *plan.VenueID, &v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = fiber.NewError(fiber.StatusNotFound, constants.VENUE_NOT_FOUND)
			}
			return
		}
		if !v.IsActive || !v.IsApproved {
			err = fiber.NewError(fiber.StatusBadRequest, constants.VENUE_NOT_AVAILABLE)
			return
		}
		if plan.Guests > v.Capacity {
			err = fiber.NewError(fiber.StatusBadRequest, constants.BOOKING_CAPACITY)
			return
		}

		var blocked int64
		err = tx.Model(&model.VenueAvailability{}).
			Where("venue_id = ? AND date = ? AND is_available = ?", v.ID, plan.EventDate.String(), false).
			Count(&blocked).Error
		if err != nil {
			return
		}
		if blocked > 0 {
			err = fiber.NewError(fiber.StatusBadRequest, constants.BOOKING_DATE_BLOCKED)
			return
		}

		var sameDay []model.Booking
		q := tx.Select("id", "start_time", "end_time").
			Where("venue_id = ? AND event_date = ? AND status IN ?", v.ID, plan.EventDate.String(), activeBookingStatuses)
		if plan.ExcludeID != "" {
			q = q.Where("id <> ?", plan.ExcludeID)
		}
		if err = q.Find(&sameDay).Error; err != nil {
			return
		}
		for _, other := range sameDay {
			if utils.ClockRangesOverlap(plan.StartTime, plan.EndTime, other.StartTime, other.EndTime) {
				err = fiber.NewError(fiber.StatusConflict, constants.BOOKING_CONFLICT)
				return
			}
		}
		venue = &v
	}

	if plan.CatererID != nil {
		var ct model.Caterer
		if err = tx.First(&ct, "id = ?", *plan.CatererID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = fiber.NewError(fiber.StatusNotFound, constants.CATERER_NOT_FOUND)
			}
			return
		}
		if !ct.IsActive || !ct.IsApproved {
			err = fiber.NewError(fiber.StatusBadRequest, constants.CATERER_NOT_AVAILABLE)
			return
		}
		if plan.Guests < ct.MinimumOrder {
			err = fiber.NewError(fiber.StatusBadRequest, constants.BOOKING_MINIMUM_ORDER)
			return
		}
		caterer = &ct
	}

	quote, err = helper.QuoteBooking(venue, caterer, plan.PriceType, plan.StartTime, plan.EndTime, plan.Guests)
	if errors.Is(err, helper.ErrHourlyPricingUnavailable) {
		err = fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return
}

func bookingOwnerIDs(venue *model.Venue, caterer *model.Caterer) []string {
	var ids []string
	if venue != nil {
		ids = append(ids, venue.OwnerID)
	}
	if caterer != nil && !slices.Contains(ids, caterer.OwnerID) {
		ids = append(ids, caterer.OwnerID)
	}
	return ids
}

func notifyBooking(c *fiber.Ctx, b *model.Booking, eventType, message string, userIDs ...string) {
	event := model.NotificationEvent{
		Type:      eventType,
		BookingID: b.ID,
		Reference: b.ReferenceCode,
		Status:    b.Status,
		Message:   message,
		CreatedAt: time.Now(),
	}
	for _, id := range userIDs {
		helper.PublishNotification(c.UserContext(), id, event)
	}
}

func bookingEmail(b *model.Booking, user *model.User) utils.BookingEmailData {
	data := utils.BookingEmailData{
		ReferenceCode: b.ReferenceCode,
		CustomerName:  user.FullName(),
		EventType:     b.EventType,
		EventDate:     b.EventDate.String(),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		GuestCount:    b.GuestCount,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		DetailLink:    config.Config("FRONTEND_URL") + "/bookings/" + b.ID,
	}
	if b.Venue != nil {
		data.VenueName = b.Venue.Name
	}
	if b.Caterer != nil {
		data.CatererName = b.Caterer.Name
	}
	return data
}

func CreateBooking(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.CreateBookingInput)

	var (
		booking model.Booking
		venue   *model.Venue
		caterer *model.Caterer
	)
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var (
			quote helper.BookingQuote
			err   error
		)
		venue, caterer, quote, err = checkBookingPlan(tx, bookingPlan{
			VenueID:   input.VenueID,
			CatererID: input.CatererID,
			EventDate: input.EventDate,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			Guests:    input.GuestCount,
			PriceType: input.PriceType,
		})
		if err != nil {
			return err
		}

		booking = model.Booking{
			ReferenceCode:   helper.GenerateReferenceCode(),
			UserID:          user.ID,
			VenueID:         input.VenueID,
			CatererID:       input.CatererID,
			EventDate:       input.EventDate,
			StartTime:       input.StartTime,
			EndTime:         input.EndTime,
			GuestCount:      input.GuestCount,
			EventType:       input.EventType,
			Status:          constants.BOOKING_PENDING,
			PriceType:       input.PriceType,
			VenueAmount:     quote.VenueAmount,
			CatererAmount:   quote.CatererAmount,
			TotalAmount:     quote.TotalAmount,
			PaymentStatus:   constants.PAYMENT_PENDING,
			SpecialRequests: input.SpecialRequests,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return err
	}

	created, err := loadBooking(database.DB, booking.ID)
	if err != nil {
		return err
	}
	notifyBooking(c, created, model.EventBookingCreated, "New booking "+created.ReferenceCode, bookingOwnerIDs(venue, caterer)...)
	utils.SendBookingConfirmationEmail(user.Email, bookingEmail(created, user))

	logger.L().Info("booking created",
		zap.String("bookingId", created.ID),
		zap.String("reference", created.ReferenceCode),
		zap.String("userId", user.ID),
		zap.Float64("total", created.TotalAmount))
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, created, "Booking created successfully")
}

func GetBooking(c *fiber.Ctx) error {
	booking, ok, err := findBooking(c)
	if !ok {
		return err
	}
	if !canViewBooking(helper.GetCurrentUser(c), booking) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_AUTHORIZED_BOOKING, nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

// UpdateBooking lets the booker reshape a pending booking. The merged plan is re-checked and re-priced.
func UpdateBooking(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.UpdateBookingInput)

	booking, ok, err := findBooking(c)
	if !ok {
		return err
	}
	if booking.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_AUTHORIZED_BOOKING, nil)
	}
	if booking.Status != constants.BOOKING_PENDING {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_NOT_EDITABLE, nil)
	}

	plan := bookingPlan{
		VenueID:   booking.VenueID,
		CatererID: booking.CatererID,
		EventDate: booking.EventDate,
		StartTime: valueOr(input.StartTime, booking.StartTime),
		EndTime:   valueOr(input.EndTime, booking.EndTime),
		Guests:    valueOr(input.GuestCount, booking.GuestCount),
		PriceType: valueOr(input.PriceType, booking.PriceType),
		ExcludeID: booking.ID,
	}
	if input.EventDate != nil {
		plan.EventDate = *input.EventDate
	}
	if _, err := utils.HoursBetween(plan.StartTime, plan.EndTime); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_TIME_ORDER, err)
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		_, _, quote, err := checkBookingPlan(tx, plan)
		if err != nil {
			return err
		}
		updates := map[string]any{
			"event_date":     plan.EventDate,
			"start_time":     plan.StartTime,
			"end_time":       plan.EndTime,
			"guest_count":    plan.Guests,
			"price_type":     plan.PriceType,
			"venue_amount":   quote.VenueAmount,
			"caterer_amount": quote.CatererAmount,
			"total_amount":   quote.TotalAmount,
		}
		if input.SpecialRequests != nil {
			updates["special_requests"] = utils.StringPtr(*input.SpecialRequests)
		}
		return tx.Model(&model.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error
	})
	if err != nil {
		return err
	}

	updated, err := loadBooking(database.DB, booking.ID)
	if err != nil {
		return err
	}
	logger.L().Info("booking updated", zap.String("bookingId", booking.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, updated, "Booking updated successfully")
}

func UpdateBookingStatus(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.UpdateBookingStatusInput)

	booking, ok, err := findBooking(c)
	if !ok {
		return err
	}
	if !helper.IsAdmin(user) && !ownsBookedListing(user, booking) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_AUTHORIZED_BOOKING, nil)
	}
	if !booking.CanTransitionTo(input.Status) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_BAD_TRANSITION, nil)
	}

	updates := map[string]any{"status": input.Status}
	if input.Status == constants.BOOKING_CANCELLED {
		updates["payment_intent_id"] = nil
		if input.Reason != nil {
			updates["cancellation_reason"] = utils.StringPtr(*input.Reason)
		}
		if booking.AmountPaid > 0 {
			updates["payment_status"] = constants.PAYMENT_REFUNDED
		}
	}
	if err := database.DB.Model(&model.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		return err
	}

	updated, err := loadBooking(database.DB, booking.ID)
	if err != nil {
		return err
	}
	notifyBooking(c, updated, model.EventBookingStatusChanged, "Booking "+updated.ReferenceCode+" is now "+updated.Status, updated.UserID)
	logger.L().Info("booking status changed",
		zap.String("bookingId", booking.ID),
		zap.String("from", booking.Status),
		zap.String("to", input.Status),
		zap.String("by", user.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, updated, "Booking status updated successfully")
}

// CancelBooking is the booker's cancellation. The record is kept.
func CancelBooking(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.CancelBookingInput)

	booking, ok, err := findBooking(c)
	if !ok {
		return err
	}
	if booking.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_AUTHORIZED_BOOKING, nil)
	}
	today := utils.Today(config.Location())
	if !booking.IsActive() || !today.Before(booking.EventDate) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_NOT_CANCELLABLE, nil)
	}

	updates := map[string]any{"status": constants.BOOKING_CANCELLED, "payment_intent_id": nil}
	if input.Reason != nil {
		updates["cancellation_reason"] = utils.StringPtr(*input.Reason)
	}
	if booking.PaymentStatus == constants.PAYMENT_PAID || booking.PaymentStatus == constants.PAYMENT_PARTIAL {
		updates["payment_status"] = constants.PAYMENT_REFUNDED
	}
	if err := database.DB.Model(&model.Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
		return err
	}

	updated, err := loadBooking(database.DB, booking.ID)
	if err != nil {
		return err
	}
	notifyBooking(c, updated, model.EventBookingCancelled, "Booking "+updated.ReferenceCode+" was cancelled", bookingOwnerIDs(updated.Venue, updated.Caterer)...)
	logger.L().Info("booking cancelled", zap.String("bookingId", booking.ID), zap.String("userId", user.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, updated, "Booking cancelled successfully")
}

func GetBookingQR(c *fiber.Ctx) error {
	booking, ok, err := findBooking(c)
	if !ok {
		return err
	}
	if !canViewBooking(helper.GetCurrentUser(c), booking) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_AUTHORIZED_BOOKING, nil)
	}
	if booking.Status != constants.BOOKING_CONFIRMED && booking.Status != constants.BOOKING_COMPLETED {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_QR_UNAVAILABLE, nil)
	}

	png, err := utils.GenerateQRCode(booking.ReferenceCode, 256)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+booking.ReferenceCode+`.png"`)
	return c.Status(fiber.StatusOK).Send(png)
}

func CreatePaymentIntent(c *fiber.Ctx) error {
	if !helper.PaymentsConfigured() {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.PAYMENTS_DISABLED, nil)
	}
	user := helper.GetCurrentUser(c)

	booking, ok, err := findBooking(c)
	if !ok {
		return err
	}
	if booking.UserID != user.ID {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_AUTHORIZED_BOOKING, nil)
	}
	if !booking.IsActive() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_NOT_PAYABLE, nil)
	}

	amount := helper.AdvanceAmount(booking, config.Float("BOOKING_ADVANCE_PERCENT"), c.QueryBool("full"))
	if amount <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.BOOKING_ALREADY_PAID, nil)
	}

	intent, err := helper.CreatePaymentIntent(booking, amount)
	if err != nil {
		return err
	}
	if err := database.DB.Model(&model.Booking{}).Where("id = ?", booking.ID).Update("payment_intent_id", intent.ID).Error; err != nil {
		return err
	}

	logger.L().Info("payment intent created",
		zap.String("bookingId", booking.ID),
		zap.String("intentId", intent.ID),
		zap.Float64("amount", amount))
	return utils.SuccessResponse(c, fiber.StatusOK, model.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          amount,
		Currency:        string(intent.Currency),
	})
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
