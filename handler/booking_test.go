package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

type bookingPage struct {
	Bookings   []model.Booking      `json:"bookings"`
	Pagination utils.PaginationMeta `json:"pagination"`
}

func (f *fixture) book(t *testing.T, token string, body map[string]any) (int, envelope) {
	t.Helper()
	if _, ok := body["eventType"]; !ok {
		body["eventType"] = "WEDDING"
	}
	return f.do(t, http.MethodPost, "/api/bookings", token, body)
}

func eventDay(days int) string {
	return utils.Today(config.Location()).AddDays(days).String()
}

func TestCreateBookingRules(t *testing.T) {
	f := setup(t)
	user, admin := f.token(t, f.user), f.token(t, f.admin)

	status, env := f.book(t, user, map[string]any{
		"venueId": f.royal.ID, "eventDate": eventDay(30), "startTime": "18:00", "endTime": "23:00", "guestCount": 300,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	booking := decode[model.Booking](t, env)
	assert.True(t, strings.HasPrefix(booking.ReferenceCode, "BK-"))
	assert.Equal(t, constants.BOOKING_PENDING, booking.Status)
	assert.Equal(t, constants.PAYMENT_PENDING, booking.PaymentStatus)
	assert.Equal(t, constants.PRICE_DAILY, booking.PriceType)
	assert.Equal(t, 150000.0, booking.TotalAmount)
	require.NotNil(t, booking.Venue)
	assert.Equal(t, "Royal Palace Banquet", booking.Venue.Name)

	status, env = f.book(t, admin, map[string]any{
		"venueId": f.royal.ID, "eventDate": eventDay(30), "startTime": "20:00", "endTime": "22:00", "guestCount": 100,
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, constants.BOOKING_CONFLICT, env.Error)

	status, env = f.book(t, user, map[string]any{
		"venueId": f.royal.ID, "eventDate": eventDay(30), "startTime": "10:00", "endTime": "14:00", "guestCount": 100, "priceType": "hourly",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	assert.Equal(t, 32000.0, decode[model.Booking](t, env).TotalAmount)

	status, env = f.book(t, user, map[string]any{
		"venueId": f.royal.ID, "eventDate": eventDay(31), "startTime": "18:00", "endTime": "23:00", "guestCount": 600,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.BOOKING_CAPACITY, env.Error)

	status, env = f.book(t, user, map[string]any{
		"catererId": f.catering.ID, "eventDate": eventDay(31), "startTime": "18:00", "endTime": "23:00", "guestCount": 50,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.BOOKING_MINIMUM_ORDER, env.Error)

	status, env = f.book(t, user, map[string]any{
		"venueId": f.royal.ID, "catererId": f.catering.ID, "eventDate": eventDay(32), "startTime": "18:00", "endTime": "23:00", "guestCount": 200,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	combo := decode[model.Booking](t, env)
	assert.Equal(t, 150000.0, combo.VenueAmount)
	assert.Equal(t, 300000.0, combo.CatererAmount)
	assert.Equal(t, 450000.0, combo.TotalAmount)

	invalid := []map[string]any{
		{"eventDate": eventDay(30), "startTime": "18:00", "endTime": "23:00", "guestCount": 10},
		{"venueId": f.royal.ID, "eventDate": eventDay(-1), "startTime": "18:00", "endTime": "23:00", "guestCount": 10},
		{"venueId": f.royal.ID, "eventDate": eventDay(30), "startTime": "23:00", "endTime": "18:00", "guestCount": 10},
		{"venueId": f.royal.ID, "eventDate": eventDay(30), "startTime": "18:00", "endTime": "23:00", "guestCount": 10, "eventType": "PARTY"},
	}
	for i, body := range invalid {
		status, _ := f.book(t, user, body)
		assert.Equal(t, fiber.StatusBadRequest, status, "case %d", i)
	}

	status, env = f.do(t, http.MethodGet, "/api/bookings", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 3, decode[bookingPage](t, env).Pagination.Total)

	status, env = f.do(t, http.MethodGet, "/api/bookings?status=CONFIRMED", user, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[bookingPage](t, env).Bookings)
}

func TestBookingLifecycle(t *testing.T) {
	f := setup(t)
	user, vendor := f.token(t, f.user), f.token(t, f.vendor)
	otherVendor := f.token(t, f.newUser(t, "vendor2@example.com", constants.ROLE_VENDOR))
	otherUser := f.token(t, f.newUser(t, "guest@example.com", constants.ROLE_USER))

	status, env := f.book(t, user, map[string]any{
		"venueId": f.royal.ID, "eventDate": eventDay(20), "startTime": "10:00", "endTime": "14:00", "guestCount": 100, "priceType": "hourly",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	booking := decode[model.Booking](t, env)
	path := "/api/bookings/" + booking.ID

	status, env = f.do(t, http.MethodPut, path, user, map[string]any{"endTime": "16:00", "guestCount": 150})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	updated := decode[model.Booking](t, env)
	assert.Equal(t, 48000.0, updated.TotalAmount)
	assert.Equal(t, 150, updated.GuestCount)

	status, _ = f.do(t, http.MethodPut, path, otherUser, map[string]any{"guestCount": 120})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = f.do(t, http.MethodGet, path, otherUser, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, constants.NOT_AUTHORIZED_BOOKING, env.Error)
	status, _ = f.do(t, http.MethodGet, path, vendor, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = f.do(t, http.MethodGet, path+"/qr", user, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = f.do(t, http.MethodPatch, path+"/status", user, map[string]any{"status": "CONFIRMED"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, constants.INSUFFICIENT_PERMISSIONS, env.Error)

	status, env = f.do(t, http.MethodPatch, path+"/status", otherVendor, map[string]any{"status": "CONFIRMED"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, constants.NOT_AUTHORIZED_BOOKING, env.Error)

	status, _ = f.do(t, http.MethodPatch, path+"/status", vendor, map[string]any{"status": "PENDING"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = f.do(t, http.MethodPatch, path+"/status", vendor, map[string]any{"status": "CONFIRMED"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Equal(t, constants.BOOKING_CONFIRMED, decode[model.Booking](t, env).Status)

	status, env = f.do(t, http.MethodPatch, path+"/status", vendor, map[string]any{"status": "CONFIRMED"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.BOOKING_BAD_TRANSITION, env.Error)

	status, env = f.do(t, http.MethodPut, path, user, map[string]any{"guestCount": 120})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.BOOKING_NOT_EDITABLE, env.Error)

	req := httptest.NewRequest(http.MethodGet, path+"/qr", nil)
	req.Header.Set("Authorization", "Bearer "+user)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	status, env = f.do(t, http.MethodGet, "/api/bookings/vendor", vendor, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Len(t, decode[bookingPage](t, env).Bookings, 1)
	status, env = f.do(t, http.MethodGet, "/api/bookings/vendor", otherVendor, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[bookingPage](t, env).Bookings)

	status, env = f.do(t, http.MethodDelete, path, user, map[string]any{"reason": "Plans changed"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	cancelled := decode[model.Booking](t, env)
	assert.Equal(t, constants.BOOKING_CANCELLED, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, "Plans changed", *cancelled.CancellationReason)

	status, env = f.do(t, http.MethodDelete, path, user, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.BOOKING_NOT_CANCELLABLE, env.Error)

	// the freed slot can be booked again
	status, env = f.book(t, otherUser, map[string]any{
		"venueId": f.royal.ID, "eventDate": eventDay(20), "startTime": "11:00", "endTime": "13:00", "guestCount": 80,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	rebooked := decode[model.Booking](t, env)

	// a vendor cancellation drops the open payment intent
	require.NoError(t, f.db.Model(&model.Booking{}).Where("id = ?", rebooked.ID).Update("payment_intent_id", "pi_open").Error)
	status, env = f.do(t, http.MethodPatch, "/api/bookings/"+rebooked.ID+"/status", vendor, map[string]any{"status": "CANCELLED", "reason": "Hall under renovation"})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	var stored model.Booking
	require.NoError(t, f.db.First(&stored, "id = ?", rebooked.ID).Error)
	assert.Equal(t, constants.BOOKING_CANCELLED, stored.Status)
	assert.Nil(t, stored.PaymentIntentID)
}

func TestCancelBookingOnEventDay(t *testing.T) {
	f := setup(t)
	booking := model.Booking{
		ReferenceCode: "BK-TODAY001",
		UserID:        f.user.ID,
		VenueID:       &f.royal.ID,
		EventDate:     utils.Today(config.Location()),
		StartTime:     "18:00",
		EndTime:       "22:00",
		GuestCount:    100,
		EventType:     "MEHNDI",
		Status:        constants.BOOKING_CONFIRMED,
		PriceType:     constants.PRICE_DAILY,
		TotalAmount:   150000,
		PaymentStatus: constants.PAYMENT_PENDING,
	}
	require.NoError(t, f.db.Create(&booking).Error)

	status, env := f.do(t, http.MethodDelete, "/api/bookings/"+booking.ID, f.token(t, f.user), map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.BOOKING_NOT_CANCELLABLE, env.Error)
}

func TestPayments(t *testing.T) {
	f := setup(t)
	user := f.token(t, f.user)

	status, env := f.book(t, user, map[string]any{
		"venueId": f.royal.ID, "catererId": f.catering.ID, "eventDate": eventDay(45), "startTime": "18:00", "endTime": "23:00", "guestCount": 200,
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	booking := decode[model.Booking](t, env)

	status, env = f.do(t, http.MethodPost, "/api/bookings/"+booking.ID+"/payment-intent", user, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, constants.PAYMENTS_DISABLED, env.Error)

	status, _ = f.do(t, http.MethodPost, "/api/payments/webhook", "", map[string]any{})
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	secret := "whsec_test_secret"
	config.Set("STRIPE_WEBHOOK_SECRET", secret)
	t.Cleanup(func() { config.Set("STRIPE_WEBHOOK_SECRET", "") })

	send := func(payload []byte, header string) (int, envelope) {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(string(payload)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", header)
		return f.doRaw(t, req)
	}
	event := func(eventType, intentID, bookingID string, amount int64) []byte {
		return []byte(fmt.Sprintf(`{"id":"evt_%s","object":"event","type":%q,"data":{"object":{"id":%q,"object":"payment_intent","amount_received":%d,"metadata":{"bookingId":%q}}}}`,
			intentID, eventType, intentID, amount, bookingID))
	}
	sign := func(payload []byte) string {
		return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
			Payload:   payload,
			Secret:    secret,
			Timestamp: time.Now(),
		}).Header
	}

	payload := event("payment_intent.succeeded", "pi_test_1", "", 11250000)
	status, env = send(payload, "t=1,v1=deadbeef")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.INVALID_WEBHOOK, env.Error)

	require.NoError(t, f.db.Model(&model.Booking{}).Where("id = ?", booking.ID).Update("payment_intent_id", "pi_test_1").Error)

	status, env = send(payload, sign(payload))
	require.Equal(t, fiber.StatusOK, status, env.Error)

	var stored model.Booking
	require.NoError(t, f.db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, 112500.0, stored.AmountPaid)
	assert.Equal(t, constants.PAYMENT_PARTIAL, stored.PaymentStatus)
	assert.Nil(t, stored.PaymentIntentID)

	// redelivery of the same event is a no-op
	status, _ = send(payload, sign(payload))
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, f.db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, 112500.0, stored.AmountPaid)

	other := event("payment_intent.payment_failed", "pi_test_2", booking.ID, 0)
	status, _ = send(other, sign(other))
	assert.Equal(t, fiber.StatusOK, status)

	// an older intent paid after a newer one replaced it on the booking
	require.NoError(t, f.db.Model(&model.Booking{}).Where("id = ?", booking.ID).Update("payment_intent_id", "pi_test_4").Error)
	older := event("payment_intent.succeeded", "pi_test_3", booking.ID, 2250000)
	status, _ = send(older, sign(older))
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, f.db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, 135000.0, stored.AmountPaid)
	require.NotNil(t, stored.PaymentIntentID)
	assert.Equal(t, "pi_test_4", *stored.PaymentIntentID)

	status, env = f.do(t, http.MethodDelete, "/api/bookings/"+booking.ID, user, map[string]any{})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.Equal(t, constants.PAYMENT_REFUNDED, decode[model.Booking](t, env).PaymentStatus)
	require.NoError(t, f.db.First(&stored, "id = ?", booking.ID).Error)
	assert.Nil(t, stored.PaymentIntentID)

	// money that lands after cancellation is recorded as refunded
	late := event("payment_intent.succeeded", "pi_test_4", booking.ID, 100000)
	status, _ = send(late, sign(late))
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, f.db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, constants.BOOKING_CANCELLED, stored.Status)
	assert.Equal(t, constants.PAYMENT_REFUNDED, stored.PaymentStatus)
	assert.Equal(t, 136000.0, stored.AmountPaid)

	var payments int64
	require.NoError(t, f.db.Model(&model.Payment{}).Where("booking_id = ?", booking.ID).Count(&payments).Error)
	assert.EqualValues(t, 3, payments)
}

func TestReviews(t *testing.T) {
	f := setup(t)
	user, vendor := f.token(t, f.user), f.token(t, f.vendor)
	stranger := f.token(t, f.newUser(t, "stranger@example.com", constants.ROLE_USER))

	status, env := f.do(t, http.MethodPost, "/api/reviews", user, map[string]any{
		"venueId": f.royal.ID, "rating": 5, "comment": "Wonderful evening and great service",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	review := decode[model.Review](t, env)

	status, env = f.do(t, http.MethodPost, "/api/reviews", user, map[string]any{
		"venueId": f.royal.ID, "rating": 3, "comment": "Trying to review a second time",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, constants.REVIEW_DUPLICATE, env.Error)

	status, env = f.do(t, http.MethodPost, "/api/reviews", vendor, map[string]any{
		"venueId": f.royal.ID, "rating": 4, "comment": "Solid hall, parking was tight",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)

	var venue model.Venue
	require.NoError(t, f.db.First(&venue, "id = ?", f.royal.ID).Error)
	assert.Equal(t, 4.5, venue.Rating)
	assert.Equal(t, 2, venue.ReviewCount)

	status, _ = f.do(t, http.MethodPost, "/api/reviews", user, map[string]any{
		"venueId": f.royal.ID, "catererId": f.catering.ID, "rating": 4, "comment": "Two targets at once",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	require.NoError(t, f.db.Model(&model.Venue{}).Where("id = ?", f.garden.ID).Update("is_active", false).Error)
	status, env = f.do(t, http.MethodPost, "/api/reviews", user, map[string]any{
		"venueId": f.garden.ID, "rating": 4, "comment": "This venue is no longer listed",
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, constants.VENUE_NOT_FOUND, env.Error)

	status, env = f.do(t, http.MethodGet, "/api/reviews?venueId="+f.royal.ID, "", nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	reviews := decode[struct {
		Reviews []model.Review `json:"reviews"`
	}](t, env).Reviews
	assert.Len(t, reviews, 2)

	status, _ = f.do(t, http.MethodGet, "/api/reviews", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = f.do(t, http.MethodDelete, "/api/reviews/"+review.ID, stranger, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, constants.NOT_AUTHORIZED_REVIEW, env.Error)

	status, _ = f.do(t, http.MethodDelete, "/api/reviews/"+review.ID, user, nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, f.db.First(&venue, "id = ?", f.royal.ID).Error)
	assert.Equal(t, 4.0, venue.Rating)
	assert.Equal(t, 1, venue.ReviewCount)
}

func TestContactMessages(t *testing.T) {
	f := setup(t)

	status, env := f.do(t, http.MethodPost, "/api/contact", "", map[string]any{
		"name": "Hina", "email": "hina@example.com", "phone": "03331234567",
		"subject": "Listing my hall", "message": "How do I list my banquet hall on the site?",
	})
	require.Equal(t, fiber.StatusCreated, status, env.Error)
	assert.NotEmpty(t, decode[map[string]string](t, env)["id"])

	status, _ = f.do(t, http.MethodPost, "/api/contact", "", map[string]any{
		"name": "Hina", "email": "hina@example.com", "phone": "12",
		"subject": "Listing my hall", "message": "How do I list my banquet hall on the site?",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	admin := f.token(t, f.admin)
	status, env = f.do(t, http.MethodGet, "/api/admin/contact-messages?isRead=false", admin, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	messages := decode[struct {
		Messages []model.ContactMessage `json:"messages"`
	}](t, env).Messages
	require.Len(t, messages, 1)

	status, env = f.do(t, http.MethodPatch, "/api/admin/contact-messages/"+messages[0].ID+"/read", admin, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	assert.True(t, decode[model.ContactMessage](t, env).IsRead)
}

func TestAdmin(t *testing.T) {
	f := setup(t)
	admin := f.token(t, f.admin)

	status, env := f.do(t, http.MethodGet, "/api/admin/dashboard", f.token(t, f.vendor), nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, constants.INSUFFICIENT_PERMISSIONS, env.Error)

	status, env = f.do(t, http.MethodGet, "/api/admin/dashboard", admin, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	stats := decode[struct {
		Users      map[string]int64 `json:"users"`
		TotalUsers int64            `json:"totalUsers"`
		Venues     struct {
			Total int64 `json:"total"`
		} `json:"venues"`
	}](t, env)
	assert.EqualValues(t, 1, stats.Users[constants.ROLE_USER])
	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 3, stats.Venues.Total)

	status, env = f.do(t, http.MethodPatch, "/api/admin/caterers/"+f.catering.ID+"/approval", admin, map[string]any{"isApproved": false})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	status, env = f.do(t, http.MethodGet, "/api/caterers", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[catererPage](t, env).Caterers, 1)

	status, env = f.do(t, http.MethodGet, "/api/admin/users?search=vendor", admin, nil)
	require.Equal(t, fiber.StatusOK, status, env.Error)
	users := decode[struct {
		Users []model.User `json:"users"`
	}](t, env).Users
	require.Len(t, users, 1)
	assert.Equal(t, f.vendor.ID, users[0].ID)

	userToken := f.token(t, f.user)
	status, env = f.do(t, http.MethodPatch, "/api/admin/users/"+f.user.ID, admin, map[string]any{"isActive": false})
	require.Equal(t, fiber.StatusOK, status, env.Error)
	status, env = f.do(t, http.MethodGet, "/api/auth/me", userToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, constants.ACCOUNT_DISABLED, env.Error)
}
