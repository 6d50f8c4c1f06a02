package validate

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxImagesPerUpload = 10

var allowedImageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// areaInCity reports whether the area exists and belongs to the city.
func areaInCity(db *gorm.DB, cityID, areaID string) (bool, error) {
	var count int64
	err := db.Model(&model.Area{}).Where("id = ? AND city_id = ?", areaID, cityID).Count(&count).Error
	return count == 1, err
}

func cityExists(db *gorm.DB, cityID string) (bool, error) {
	var count int64
	err := db.Model(&model.City{}).Where("id = ?", cityID).Count(&count).Error
	return count == 1, err
}

// allExist reports whether every id in ids is a row of the given model.
func allExist(db *gorm.DB, table any, ids []string) (bool, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return true, nil
	}
	var count int64
	if err := db.Model(table).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(ids)), nil
}

func checkLocation(c *fiber.Ctx, cityID, areaID string) (bool, error) {
	ok, err := cityExists(database.DB, cityID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fieldFailed(c, "cityId", constants.CITY_NOT_FOUND)
	}
	ok, err = areaInCity(database.DB, cityID, areaID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fieldFailed(c, "areaId", constants.AREA_NOT_IN_CITY)
	}
	return true, nil
}

func CreateVenue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateVenueInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		input.ContactEmail = utils.NormalizeEmail(input.ContactEmail)

		if ok, err := checkLocation(c, input.CityID, input.AreaID); !ok {
			return err
		}
		ok, err := allExist(database.DB, &model.Amenity{}, input.AmenityIDs)
		if err != nil {
			return err
		}
		if !ok {
			return fieldFailed(c, "amenityIds", constants.INVALID_AMENITIES)
		}
		input.AmenityIDs = uniqueIDs(input.AmenityIDs)

		c.Locals("input", input)
		return c.Next()
	}
}

// UpdateVenue must run after ParamID so the stored venue can be used to resolve a partial location change.
func UpdateVenue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateVenueInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		if input.ContactEmail != nil {
			*input.ContactEmail = utils.NormalizeEmail(*input.ContactEmail)
		}

		if input.CityID != nil || input.AreaID != nil {
			var venue model.Venue
			if err := database.DB.Select("id", "city_id", "area_id").First(&venue, "id = ?", c.Locals("inputId")).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
				}
				return err
			}
			cityID, areaID := venue.CityID, venue.AreaID
			if input.CityID != nil {
				cityID = *input.CityID
			}
			if input.AreaID != nil {
				areaID = *input.AreaID
			}
			if ok, err := checkLocation(c, cityID, areaID); !ok {
				return err
			}
		}

		if input.AmenityIDs != nil {
			ok, err := allExist(database.DB, &model.Amenity{}, *input.AmenityIDs)
			if err != nil {
				return err
			}
			if !ok {
				return fieldFailed(c, "amenityIds", constants.INVALID_AMENITIES)
			}
			ids := uniqueIDs(*input.AmenityIDs)
			input.AmenityIDs = &ids
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func FilterVenue() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterVenue
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		filter.Amenities = utils.QueryList(c, "amenities")

		if filter.MinCapacity != nil && filter.MaxCapacity != nil && *filter.MinCapacity > *filter.MaxCapacity {
			return fieldFailed(c, "minCapacity", "minCapacity cannot be greater than maxCapacity")
		}
		if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
			return fieldFailed(c, "minPrice", "minPrice cannot be greater than maxPrice")
		}
		geo := 0
		for _, set := range []bool{filter.Lat != nil, filter.Lng != nil, filter.RadiusKm != nil} {
			if set {
				geo++
			}
		}
		if geo != 0 && geo != 3 {
			return fieldFailed(c, "radiusKm", "lat, lng and radiusKm must be provided together")
		}

		c.Locals("filter", filter)
		return c.Next()
	}
}

func FilterAvailability() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterAvailability
		if ok, err := parseQuery(c, &filter); !ok {
			return err
		}
		if filter.StartDate != "" && filter.EndDate != "" && filter.EndDate < filter.StartDate {
			return fieldFailed(c, "endDate", "endDate must not be before startDate")
		}
		c.Locals("filter", filter)
		return c.Next()
	}
}

func SetAvailability() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.SetAvailabilityInput
		if ok, err := parseBody(c, &input); !ok {
			return err
		}
		c.Locals("input", input)
		return c.Next()
	}
}

// UploadImages collects the multipart "images" files and checks count and extension.
func UploadImages() fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.NO_IMAGES_UPLOADED, err)
		}
		files := form.File["images"]
		if len(files) == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.NO_IMAGES_UPLOADED, nil)
		}
		if len(files) > maxImagesPerUpload {
			return fieldFailed(c, "images", "A maximum of 10 images can be uploaded at once")
		}
		for _, f := range files {
			ext := strings.ToLower(filepath.Ext(f.Filename))
			if !allowedImageExt[ext] {
				return fieldFailed(c, "images", "Only PNG, JPG, JPEG and WEBP images are allowed")
			}
		}
		c.Locals("files", files)
		return c.Next()
	}
}

// Files returns the uploads stored by UploadImages.
func Files(c *fiber.Ctx) []*multipart.FileHeader {
	files, _ := c.Locals("files").([]*multipart.FileHeader)
	return files
}
