package validate

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/model"

	"github.com/gofiber/fiber/v2"
)

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateReviewInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		if (input.VenueID == nil) == (input.CatererID == nil) {
			return fieldFailed(c, "venueId", constants.REVIEW_TARGET_REQUIRED)
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func FilterReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterReview
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		if (filter.VenueID == "") == (filter.CatererID == "") {
			return fieldFailed(c, "venueId", constants.REVIEW_TARGET_REQUIRED)
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}
