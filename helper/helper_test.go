package helper

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.Set("BCRYPT_COST", 4)
	db, err := database.Connect(sqlite.Open("file::memory:"), gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCalculateDistance(t *testing.T) {
	// Karachi to Lahore
	d := CalculateDistance(24.8607, 67.0011, 31.5204, 74.3587)
	assert.InDelta(t, 1030, d, 15)
	assert.Zero(t, CalculateDistance(24.86, 67.0, 24.86, 67.0))
}

func TestBoundingBoxAround(t *testing.T) {
	box := BoundingBoxAround(24.8607, 67.0011, 10)
	assert.Less(t, box.MinLat, 24.8607)
	assert.Greater(t, box.MaxLat, 24.8607)
	assert.Less(t, box.MinLng, 67.0011)
	assert.Greater(t, box.MaxLng, 67.0011)

	// every corner of the box is at least radius away along one axis
	assert.GreaterOrEqual(t, CalculateDistance(24.8607, 67.0011, box.MaxLat, 67.0011), 9.9)
	assert.GreaterOrEqual(t, CalculateDistance(24.8607, 67.0011, 24.8607, box.MaxLng), 9.9)
}

func TestPasswordHash(t *testing.T) {
	config.Set("BCRYPT_COST", 4)
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")
	config.Set("JWT_EXPIRES_IN", "7d")
	user := &model.User{DTO: model.DTO{ID: "u-1"}, Email: "a@b.com", Role: constants.ROLE_VENDOR}

	pair, err := GenerateTokenPair(user)
	require.NoError(t, err)

	claims, err := ParseToken(pair.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, constants.ROLE_VENDOR, claims.Role)
	assert.Equal(t, constants.JWT_TYPE_ACCESS, claims.Type)

	refresh, err := ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, constants.JWT_TYPE_REFRESH, refresh.Type)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u-1",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})
	s, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseToken(s)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	s, err = foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ParseToken(s)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestGenerateReferenceCode(t *testing.T) {
	code := GenerateReferenceCode()
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, code)
	assert.NotEqual(t, code, GenerateReferenceCode())
}

func TestQuoteBooking(t *testing.T) {
	venue := &model.Venue{PricePerDay: 150000, PricePerHour: utils.Ptr(8000.0)}
	caterer := &model.Caterer{PricePerPerson: 1500}

	q, err := QuoteBooking(venue, caterer, constants.PRICE_DAILY, "18:00", "23:00", 200)
	require.NoError(t, err)
	assert.Equal(t, 150000.0, q.VenueAmount)
	assert.Equal(t, 300000.0, q.CatererAmount)
	assert.Equal(t, 450000.0, q.TotalAmount)

	q, err = QuoteBooking(venue, nil, constants.PRICE_HOURLY, "18:00", "21:30", 200)
	require.NoError(t, err)
	assert.Equal(t, 28000.0, q.TotalAmount)

	_, err = QuoteBooking(&model.Venue{PricePerDay: 1}, nil, constants.PRICE_HOURLY, "18:00", "21:00", 10)
	assert.ErrorIs(t, err, ErrHourlyPricingUnavailable)

	_, err = QuoteBooking(venue, nil, constants.PRICE_HOURLY, "21:00", "18:00", 10)
	assert.Error(t, err)
}

func TestAdvanceAmountAndPaymentStatus(t *testing.T) {
	b := &model.Booking{TotalAmount: 100000}
	assert.Equal(t, 25000.0, AdvanceAmount(b, 25, false))
	assert.Equal(t, 100000.0, AdvanceAmount(b, 25, true))

	b.AmountPaid = 25000
	assert.Equal(t, 75000.0, AdvanceAmount(b, 25, false))

	b.AmountPaid = 100000
	assert.Zero(t, AdvanceAmount(b, 25, false))

	assert.Equal(t, constants.PAYMENT_PENDING, PaymentStatusFor(100, 0))
	assert.Equal(t, constants.PAYMENT_PARTIAL, PaymentStatusFor(100, 25))
	assert.Equal(t, constants.PAYMENT_PAID, PaymentStatusFor(100, 100))
}

func TestSignUploadParams(t *testing.T) {
	// documented Cloudinary example
	sig, err := SignUploadParams(map[string]string{
		"public_id": "sample_image",
		"timestamp": "1315060510",
		"eager":     "w_400,h_300,c_pad|w_260,h_200,c_crop",
	}, "abcd")
	require.NoError(t, err)
	assert.Equal(t, "bfd09f95f331f558cbd1320e67aa8d488770583e", sig)

	// empty values are not signed
	plain, err := SignUploadParams(map[string]string{"timestamp": "1"}, "s")
	require.NoError(t, err)
	withEmpty, err := SignUploadParams(map[string]string{"timestamp": "1", "folder": ""}, "s")
	require.NoError(t, err)
	assert.Equal(t, plain, withEmpty)
}

func TestUploadImageWithoutCloudinary(t *testing.T) {
	cld = nil
	_, err := UploadImage(context.Background(), nil, "venues/x", "")
	assert.ErrorIs(t, err, ErrCloudinaryDisabled)
}

func TestNotificationHub(t *testing.T) {
	hub := NewNotificationHub()
	ch, unsubscribe := hub.Subscribe("u-1")
	assert.Equal(t, 1, hub.Subscribers("u-1"))

	assert.Equal(t, 1, hub.Deliver("u-1", []byte("hello")))
	assert.Equal(t, 0, hub.Deliver("u-2", []byte("nobody")))
	assert.Equal(t, []byte("hello"), <-ch)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.Subscribers("u-1"))
	_, open := <-ch
	assert.False(t, open)
}

func TestNotificationHubConcurrentClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := NewNotificationHub()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, unsubscribe := hub.Subscribe("shared")
			defer unsubscribe()
			hub.Deliver("shared", []byte("ping"))
			<-ch
		}()
	}
	wg.Wait()
	assert.Zero(t, hub.Subscribers("shared"))
}

func TestPublishNotificationWithoutRedis(t *testing.T) {
	SetRedis(nil)
	ch, unsubscribe := Notifications.Subscribe("u-9")
	defer unsubscribe()

	PublishNotification(context.Background(), "u-9", model.NotificationEvent{
		Type:      model.EventBookingCreated,
		BookingID: "b-1",
		Status:    constants.BOOKING_PENDING,
	})

	select {
	case payload := <-ch:
		var ev model.NotificationEvent
		require.NoError(t, json.Unmarshal(payload, &ev))
		assert.Equal(t, model.EventBookingCreated, ev.Type)
		assert.Equal(t, "b-1", ev.BookingID)
		assert.False(t, ev.CreatedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestCachedWithoutRedis(t *testing.T) {
	SetRedis(nil)
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Karachi"}, nil
	}
	for i := 0; i < 2; i++ {
		v, err := Cached(context.Background(), "cities", LookupCacheTTL, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"Karachi"}, v)
	}
	assert.Equal(t, 2, calls)

	_, err := Cached(context.Background(), "x", time.Minute, func() (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "boom")
}

func TestInvalidateLookups(t *testing.T) {
	SetRedis(nil)
	n, err := InvalidateLookups(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	SetRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond}))
	t.Cleanup(CloseRedis)
	_, err = InvalidateLookups(context.Background())
	assert.Error(t, err)
}

func seedOwner(t *testing.T, db *gorm.DB) (model.User, model.City, model.Area) {
	t.Helper()
	owner := model.User{Email: "owner@test.pk", Password: "x", FirstName: "O", LastName: "W", Role: constants.ROLE_VENDOR, IsActive: true}
	require.NoError(t, db.Create(&owner).Error)
	city := model.City{Name: "Karachi", Country: "Pakistan"}
	require.NoError(t, db.Create(&city).Error)
	area := model.Area{Name: "DHA", CityID: city.ID}
	require.NoError(t, db.Create(&area).Error)
	return owner, city, area
}

func TestGenerateUniqueVenueSlug(t *testing.T) {
	db := openTestDB(t)
	owner, city, area := seedOwner(t, db)

	assert.Equal(t, "royal-palace", GenerateUniqueVenueSlug(db, "Royal Palace"))
	require.NoError(t, db.Create(&model.Venue{Name: "Royal Palace", Slug: "royal-palace", Address: "a", CityID: city.ID, AreaID: area.ID, Capacity: 1, OwnerID: owner.ID}).Error)
	assert.Equal(t, "royal-palace-1", GenerateUniqueVenueSlug(db, "Royal  Palace!"))
	assert.Equal(t, "royal-palace", GenerateUniqueCatererSlug(db, "Royal Palace"))
}

func TestRecalculateVenueRating(t *testing.T) {
	db := openTestDB(t)
	owner, city, area := seedOwner(t, db)
	venue := model.Venue{Name: "V", Slug: "v", Address: "a", CityID: city.ID, AreaID: area.ID, Capacity: 1, OwnerID: owner.ID}
	require.NoError(t, db.Create(&venue).Error)

	for i, rating := range []int{5, 4, 4} {
		u := model.User{Email: string(rune('a'+i)) + "@r.pk", Password: "x", FirstName: "R", LastName: "R", Role: constants.ROLE_USER}
		require.NoError(t, db.Create(&u).Error)
		require.NoError(t, db.Create(&model.Review{UserID: u.ID, VenueID: &venue.ID, Rating: rating, Comment: "lovely venue"}).Error)
	}

	require.NoError(t, RecalculateVenueRating(db, venue.ID))
	var got model.Venue
	require.NoError(t, db.First(&got, "id = ?", venue.ID).Error)
	assert.Equal(t, 4.3, got.Rating)
	assert.Equal(t, 3, got.ReviewCount)

	require.NoError(t, db.Where("venue_id = ?", venue.ID).Delete(&model.Review{}).Error)
	require.NoError(t, RecalculateVenueRating(db, venue.ID))
	require.NoError(t, db.First(&got, "id = ?", venue.ID).Error)
	assert.Zero(t, got.Rating)
	assert.Zero(t, got.ReviewCount)
}

func TestBookingJobs(t *testing.T) {
	db := openTestDB(t)
	owner, _, _ := seedOwner(t, db)
	today := utils.NewDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	mk := func(ref, status string, date utils.CustomDate) {
		require.NoError(t, db.Create(&model.Booking{
			ReferenceCode: ref, UserID: owner.ID, EventDate: date, StartTime: "18:00", EndTime: "22:00",
			GuestCount: 10, EventType: constants.EVENT_WEDDING, Status: status, PriceType: constants.PRICE_DAILY,
			TotalAmount: 1, PaymentStatus: constants.PAYMENT_PENDING,
		}).Error)
	}
	mk("BK-PAST-C", constants.BOOKING_CONFIRMED, today.AddDays(-1))
	mk("BK-TODAY-C", constants.BOOKING_CONFIRMED, today)
	mk("BK-PAST-P", constants.BOOKING_PENDING, today.AddDays(-2))
	mk("BK-NEXT-P", constants.BOOKING_PENDING, today.AddDays(3))

	n, err := CompletePastBookings(db, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = ExpireStalePendingBookings(db, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	status := func(ref string) model.Booking {
		var b model.Booking
		require.NoError(t, db.Where("reference_code = ?", ref).First(&b).Error)
		return b
	}
	assert.Equal(t, constants.BOOKING_COMPLETED, status("BK-PAST-C").Status)
	assert.Equal(t, constants.BOOKING_CONFIRMED, status("BK-TODAY-C").Status)
	expired := status("BK-PAST-P")
	assert.Equal(t, constants.BOOKING_CANCELLED, expired.Status)
	require.NotNil(t, expired.CancellationReason)
	assert.Equal(t, StaleBookingReason, *expired.CancellationReason)
	assert.Equal(t, constants.BOOKING_PENDING, status("BK-NEXT-P").Status)
}

func TestAuthTokens(t *testing.T) {
	db := openTestDB(t)
	owner, _, _ := seedOwner(t, db)

	tok, err := CreateAuthToken(db, owner.ID, constants.TOKEN_PASSWORD_RESET, time.Hour)
	require.NoError(t, err)
	assert.Len(t, tok.Token, 64)

	got, err := ConsumeAuthToken(db, tok.Token, constants.TOKEN_EMAIL_VERIFICATION)
	require.NoError(t, err)
	assert.Nil(t, got, "purpose must match")

	got, err = ConsumeAuthToken(db, tok.Token, constants.TOKEN_PASSWORD_RESET)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, owner.ID, got.UserID)

	got, err = ConsumeAuthToken(db, tok.Token, constants.TOKEN_PASSWORD_RESET)
	require.NoError(t, err)
	assert.Nil(t, got, "tokens are single use")

	_, err = CreateAuthToken(db, owner.ID, constants.TOKEN_PASSWORD_RESET, -time.Hour)
	require.NoError(t, err)
	n, err := PurgeExpiredAuthTokens(db, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestConsumeAuthTokenLosesRace(t *testing.T) {
	db := openTestDB(t)
	owner, _, _ := seedOwner(t, db)
	tok, err := CreateAuthToken(db, owner.ID, constants.TOKEN_PASSWORD_RESET, time.Hour)
	require.NoError(t, err)

	// another request consumes the token between our lookup and delete
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:concurrent_consume", func(tx *gorm.DB) {
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM auth_tokens WHERE id = ?", tok.ID).Error)
	}))

	got, err := ConsumeAuthToken(db, tok.Token, constants.TOKEN_PASSWORD_RESET)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestApplyPayment(t *testing.T) {
	db := openTestDB(t)
	owner, _, _ := seedOwner(t, db)
	intent := "pi_123"
	booking := model.Booking{
		ReferenceCode: "BK-PAY", UserID: owner.ID, EventDate: utils.NewDate(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)),
		StartTime: "18:00", EndTime: "22:00", GuestCount: 10, EventType: constants.EVENT_WEDDING,
		Status: constants.BOOKING_CONFIRMED, PriceType: constants.PRICE_DAILY, TotalAmount: 1000,
		PaymentStatus: constants.PAYMENT_PENDING, PaymentIntentID: &intent,
	}
	require.NoError(t, db.Create(&booking).Error)

	got, err := ApplyPayment(db, "pi_unknown", "", 100)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ApplyPayment(db, "pi_123", "", 400)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 400.0, got.AmountPaid)
	assert.Equal(t, constants.PAYMENT_PARTIAL, got.PaymentStatus)
	assert.Nil(t, got.PaymentIntentID)

	_, err = ApplyPayment(db, "pi_123", booking.ID, 400)
	assert.ErrorIs(t, err, ErrPaymentRecorded)

	got, err = ApplyPayment(db, "pi_456", booking.ID, 5000)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1000.0, got.AmountPaid)
	assert.Equal(t, constants.PAYMENT_PAID, got.PaymentStatus)

	var recorded int64
	require.NoError(t, db.Model(&model.Payment{}).Where("booking_id = ?", booking.ID).Count(&recorded).Error)
	assert.EqualValues(t, 2, recorded)

	assert.EqualValues(t, 250000, ToMinorUnits(2500))
	assert.Equal(t, 2500.5, FromMinorUnits(250050))
}

func TestApplyPaymentForSupersededIntent(t *testing.T) {
	db := openTestDB(t)
	owner, _, _ := seedOwner(t, db)
	first := "pi_first"
	booking := model.Booking{
		ReferenceCode: "BK-TWO", UserID: owner.ID, EventDate: utils.NewDate(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)),
		StartTime: "18:00", EndTime: "22:00", GuestCount: 10, EventType: constants.EVENT_WEDDING,
		Status: constants.BOOKING_PENDING, PriceType: constants.PRICE_DAILY, TotalAmount: 1000,
		PaymentStatus: constants.PAYMENT_PENDING, PaymentIntentID: &first,
	}
	require.NoError(t, db.Create(&booking).Error)
	require.NoError(t, db.Model(&model.Booking{}).Where("id = ?", booking.ID).Update("payment_intent_id", "pi_second").Error)

	got, err := ApplyPayment(db, "pi_first", booking.ID, 250)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 250.0, got.AmountPaid)
	assert.Equal(t, constants.PAYMENT_PARTIAL, got.PaymentStatus)
	require.NotNil(t, got.PaymentIntentID, "the newer intent stays open")
	assert.Equal(t, "pi_second", *got.PaymentIntentID)

	got, err = ApplyPayment(db, "pi_second", booking.ID, 750)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, constants.PAYMENT_PAID, got.PaymentStatus)
	assert.Nil(t, got.PaymentIntentID)
}

func TestApplyPaymentToCancelledBooking(t *testing.T) {
	db := openTestDB(t)
	owner, _, _ := seedOwner(t, db)
	booking := model.Booking{
		ReferenceCode: "BK-CXL", UserID: owner.ID, EventDate: utils.NewDate(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)),
		StartTime: "18:00", EndTime: "22:00", GuestCount: 10, EventType: constants.EVENT_WEDDING,
		Status: constants.BOOKING_CANCELLED, PriceType: constants.PRICE_DAILY, TotalAmount: 1000,
		PaymentStatus: constants.PAYMENT_PENDING,
	}
	require.NoError(t, db.Create(&booking).Error)

	got, err := ApplyPayment(db, "pi_late", booking.ID, 1000)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, constants.BOOKING_CANCELLED, got.Status)
	assert.Equal(t, constants.PAYMENT_REFUNDED, got.PaymentStatus)
	assert.Equal(t, 1000.0, got.AmountPaid)
}

func TestImagePublicID(t *testing.T) {
	url := "https://res.cloudinary.com/demo/image/upload/v1712/asaan-shaadi/hall-front.jpg"
	assert.Equal(t, "asaan-shaadi/hall-front", PublicIDFromURL(url))
	assert.Equal(t, "stored/id", ImagePublicID("stored/id", url))
	assert.Equal(t, "asaan-shaadi/hall-front", ImagePublicID("", url))
	assert.Empty(t, ImagePublicID("", "/uploads/hall.jpg"))
	assert.Empty(t, PublicIDFromURL("a/b"))
}
