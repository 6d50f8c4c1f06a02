package validate

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
)

type idSetCheck struct {
	field   string
	table   any
	ids     []string
	message string
}

func checkIDSets(c *fiber.Ctx, checks ...idSetCheck) (bool, error) {
	for _, chk := range checks {
		ok, err := allExist(database.DB, chk.table, chk.ids)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fieldFailed(c, chk.field, chk.message)
		}
	}
	return true, nil
}

func CreateCaterer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateCatererInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		input.ContactEmail = utils.NormalizeEmail(input.ContactEmail)

		ok, err := checkIDSets(c,
			idSetCheck{"serviceAreaIds", &model.City{}, input.ServiceAreaIDs, constants.INVALID_SERVICE_AREAS},
			idSetCheck{"cuisineIds", &model.Cuisine{}, input.CuisineIDs, constants.INVALID_CUISINES},
			idSetCheck{"specialtyIds", &model.Specialty{}, input.SpecialtyIDs, constants.INVALID_SPECIALTIES},
		)
		if !ok {
			return err
		}
		input.ServiceAreaIDs = uniqueIDs(input.ServiceAreaIDs)
		input.CuisineIDs = uniqueIDs(input.CuisineIDs)
		input.SpecialtyIDs = uniqueIDs(input.SpecialtyIDs)

		c.Locals("input", input)
		return c.Next()
	}
}

func UpdateCaterer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateCatererInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		if input.ContactEmail != nil {
			*input.ContactEmail = utils.NormalizeEmail(*input.ContactEmail)
		}

		var checks []idSetCheck
		if input.ServiceAreaIDs != nil {
			checks = append(checks, idSetCheck{"serviceAreaIds", &model.City{}, *input.ServiceAreaIDs, constants.INVALID_SERVICE_AREAS})
		}
		if input.CuisineIDs != nil {
			checks = append(checks, idSetCheck{"cuisineIds", &model.Cuisine{}, *input.CuisineIDs, constants.INVALID_CUISINES})
		}
		if input.SpecialtyIDs != nil {
			checks = append(checks, idSetCheck{"specialtyIds", &model.Specialty{}, *input.SpecialtyIDs, constants.INVALID_SPECIALTIES})
		}
		if ok, err := checkIDSets(c, checks...); !ok {
			return err
		}
		for _, ids := range []*[]string{input.ServiceAreaIDs, input.CuisineIDs, input.SpecialtyIDs} {
			if ids != nil {
				*ids = uniqueIDs(*ids)
			}
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func FilterCaterer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterCaterer
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		filter.ServiceAreas = utils.QueryList(c, "serviceAreas")
		filter.Cuisines = utils.QueryList(c, "cuisine")

		if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
			return fieldFailed(c, "minPrice", "minPrice cannot be greater than maxPrice")
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}

func CreateMenuItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.MenuItemInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

func CreatePackage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.PackageInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		if input.MinimumGuests == 0 {
			input.MinimumGuests = 1
		}
		c.Locals("input", input)
		return c.Next()
	}
}
