package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"asaan_shaadi/constants"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNewPaginationMeta(t *testing.T) {
	m := NewPaginationMeta(1, 12, 30)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.False(t, m.HasPrev)

	m = NewPaginationMeta(3, 12, 30)
	assert.False(t, m.HasNext)
	assert.True(t, m.HasPrev)

	m = NewPaginationMeta(1, 12, 0)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)

	m = NewPaginationMeta(2, 10, 10)
	assert.Equal(t, 1, m.TotalPages)
	assert.False(t, m.HasNext)
}

func TestNormalizePagination(t *testing.T) {
	p, l := NormalizePagination(nil, nil, 12, 100)
	assert.Equal(t, 1, p)
	assert.Equal(t, 12, l)

	p, l = NormalizePagination(Ptr(4), Ptr(500), 12, 100)
	assert.Equal(t, 4, p)
	assert.Equal(t, 100, l)

	p, l = NormalizePagination(Ptr(0), Ptr(-3), 12, 100)
	assert.Equal(t, 1, p)
	assert.Equal(t, 12, l)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Parking", "Stage"}, SplitList(" Parking, ,Stage "))
	assert.Nil(t, SplitList(""))
}

func TestPhoneValidation(t *testing.T) {
	valid := []string{"03001234567", "+923001234567", "0300 1234567", "0300-1234567", "+14155552671"}
	for _, p := range valid {
		assert.True(t, IsValidMobilePhone(p), p)
	}
	invalid := []string{"12345", "abcdefghijk", "+92300", ""}
	for _, p := range invalid {
		assert.False(t, IsValidMobilePhone(p), p)
	}
	assert.True(t, IsValidPakistaniPhone("+92 300 1234567"))
	assert.False(t, IsValidPakistaniPhone("3001234"))
}

func TestCustomDateJSON(t *testing.T) {
	var payload struct {
		Date CustomDate `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-12-01"}`), &payload))
	assert.Equal(t, "2026-12-01", payload.Date.String())

	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-12-01T18:30:00Z"}`), &payload))
	assert.Equal(t, "2026-12-01", payload.Date.String())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"01/12/2026"}`), &payload))

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-12-01"}`, string(out))
}

func TestCustomDateScan(t *testing.T) {
	var d CustomDate
	require.NoError(t, d.Scan("2026-05-04"))
	assert.Equal(t, "2026-05-04", d.String())
	require.NoError(t, d.Scan([]byte("2026-05-05T00:00:00Z")))
	assert.Equal(t, "2026-05-05", d.String())
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := CustomDate{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = NewDate(d.AddDays(1).Time).Value()
	require.NoError(t, err)
	assert.Equal(t, "0001-01-02", v)
}

func TestClockHelpers(t *testing.T) {
	h, err := HoursBetween("18:00", "23:30")
	require.NoError(t, err)
	assert.Equal(t, 5.5, h)

	_, err = HoursBetween("20:00", "19:00")
	assert.Error(t, err)

	assert.True(t, ClockRangesOverlap("18:00", "22:00", "21:00", "23:00"))
	assert.False(t, ClockRangesOverlap("10:00", "14:00", "14:00", "18:00"))
	assert.True(t, ClockRangesOverlap("bad", "14:00", "14:00", "18:00"))
	assert.False(t, IsValidClock("25:00"))
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{gorm.ErrRecordNotFound, 404, constants.RESOURCE_NOT_FOUND},
		{fmt.Errorf("wrap: %w", gorm.ErrDuplicatedKey), 400, constants.DUPLICATE_VALUE},
		{gorm.ErrForeignKeyViolated, 400, constants.INVALID_REFERENCE},
		{&pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@b.com) already exists."}, 400, "Duplicate value for email"},
		{&pgconn.PgError{Code: "23503"}, 400, constants.INVALID_REFERENCE},
		{errors.New("UNIQUE constraint failed: users.email"), 400, "Duplicate value for email"},
		{fmt.Errorf("parse: %w", jwt.ErrTokenExpired), 401, constants.TOKEN_EXPIRED},
		{fmt.Errorf("parse: %w", jwt.ErrTokenMalformed), 401, constants.INVALID_TOKEN},
		{validator.ValidationErrors{}, 400, constants.VALIDATION_ERROR},
		{fiber.NewError(418, "teapot"), 418, "teapot"},
		{errors.New("boom"), 500, constants.INTERNAL_ERROR},
	}
	for _, tc := range cases {
		status, msg := MapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
	}
}

func TestResponses(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error { return SuccessResponse(c, 200, fiber.Map{"a": 1}) })
	app.Get("/fail", func(c *fiber.Ctx) error { return ErrorResponse(c, 404, "Venue not found", nil) })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":true,"data":{"a":1}}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"error":"Venue not found"}`, string(body))
}

func TestGenerateQRCode(t *testing.T) {
	png, err := GenerateQRCode("BK-12345678", 128)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestRenderTemplate(t *testing.T) {
	html, err := renderTemplate("booking_confirmation.html", BookingEmailData{
		ReferenceCode: "BK-1", CustomerName: "Ali", VenueName: "Royal Palace", TotalAmount: 150000,
	})
	require.NoError(t, err)
	assert.Contains(t, html, "BK-1")
	assert.Contains(t, html, "Royal Palace")
	assert.Contains(t, html, "PKR 150000")
}
