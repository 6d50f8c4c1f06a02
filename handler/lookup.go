package handler

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"github.com/gofiber/fiber/v2"
)

// Lookup cache keys.
const (
	cacheKeyCities      = helper.LookupKeyPrefix + "cities"
	cacheKeyAmenities   = helper.LookupKeyPrefix + "amenities"
	cacheKeyCuisines    = helper.LookupKeyPrefix + "cuisines"
	cacheKeySpecialties = helper.LookupKeyPrefix + "specialties"
	cacheKeyAreasPrefix = helper.LookupKeyPrefix + "areas:"
)

func lookupList[T any](c *fiber.Ctx, key string, order string) error {
	items, err := helper.Cached(c.UserContext(), key, helper.LookupCacheTTL, func() ([]T, error) {
		items := []T{}
		err := database.DB.Order(order).Find(&items).Error
		return items, err
	})
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, fiber.StatusOK, items)
}

func GetCities(c *fiber.Ctx) error {
	return lookupList[model.City](c, cacheKeyCities, "name ASC")
}

func GetAmenities(c *fiber.Ctx) error {
	return lookupList[model.Amenity](c, cacheKeyAmenities, "name ASC")
}

func GetCuisines(c *fiber.Ctx) error {
	return lookupList[model.Cuisine](c, cacheKeyCuisines, "name ASC")
}

func GetSpecialties(c *fiber.Ctx) error {
	return lookupList[model.Specialty](c, cacheKeySpecialties, "name ASC")
}

func GetCityAreas(c *fiber.Ctx) error {
	cityID := c.Locals("inputId").(string)

	var count int64
	if err := database.DB.Model(&model.City{}).Where("id = ?", cityID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CITY_NOT_FOUND, nil)
	}

	areas, err := helper.Cached(c.UserContext(), cacheKeyAreasPrefix+cityID, helper.LookupCacheTTL, func() ([]model.Area, error) {
		areas := []model.Area{}
		err := database.DB.Where("city_id = ?", cityID).Order("name ASC").Find(&areas).Error
		return areas, err
	})
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, fiber.StatusOK, areas)
}
