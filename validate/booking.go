package validate

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateBookingInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}

		if input.VenueID == nil && input.CatererID == nil {
			return fieldFailed(c, "venueId", constants.BOOKING_LISTING_REQUIRED)
		}
		if input.EventDate.IsZero() {
			return fieldFailed(c, "eventDate", "eventDate is required")
		}
		if input.EventDate.Before(utils.Today(config.Location())) {
			return fieldFailed(c, "eventDate", constants.BOOKING_DATE_PAST)
		}
		if _, err := utils.HoursBetween(input.StartTime, input.EndTime); err != nil {
			return fieldFailed(c, "endTime", constants.BOOKING_TIME_ORDER)
		}
		if input.PriceType == "" {
			input.PriceType = constants.PRICE_DAILY
		}

		c.Locals("input", input)
		return c.Next()
	}
}

// UpdateBooking checks the fields it can on its own. Dates and times are
// checked again against the stored booking by the handler.
func UpdateBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateBookingInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		if input.EventDate != nil && input.EventDate.Before(utils.Today(config.Location())) {
			return fieldFailed(c, "eventDate", constants.BOOKING_DATE_PAST)
		}
		if input.StartTime != nil && input.EndTime != nil {
			if _, err := utils.HoursBetween(*input.StartTime, *input.EndTime); err != nil {
				return fieldFailed(c, "endTime", constants.BOOKING_TIME_ORDER)
			}
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func UpdateBookingStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateBookingStatusInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

// CancelBooking accepts an empty body.
func CancelBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CancelBookingInput
		if len(c.Body()) > 0 {
			if ok, err := parseBody(c, &input); !ok {
				return err
			}
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func FilterBooking() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterBooking
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}
