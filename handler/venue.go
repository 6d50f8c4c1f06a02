package handler

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"asaan_shaadi/validate"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var venueSortColumns = map[string]string{
	"price":     "price_per_day",
	"rating":    "rating",
	"capacity":  "capacity",
	"name":      "name",
	"createdAt": "created_at",
}

func applyVenueFilters(query *gorm.DB, filter model.FilterVenue) *gorm.DB {
	if filter.City != "" {
		query = query.Where("venues.city_id IN (?)",
			database.DB.Model(&model.City{}).Select("id").Where("LOWER(name) LIKE ?", utils.ContainsPattern(filter.City)))
	}
	if filter.Area != "" {
		query = query.Where("venues.area_id IN (?)",
			database.DB.Model(&model.Area{}).Select("id").Where("LOWER(name) LIKE ?", utils.ContainsPattern(filter.Area)))
	}
	if filter.Search != "" {
		pattern := utils.ContainsPattern(filter.Search)
		query = query.Where("(LOWER(venues.name) LIKE ? OR LOWER(venues.description) LIKE ?)", pattern, pattern)
	}
	if filter.MinCapacity != nil {
		query = query.Where("venues.capacity >= ?", *filter.MinCapacity)
	}
	if filter.MaxCapacity != nil {
		query = query.Where("venues.capacity <= ?", *filter.MaxCapacity)
	}
	if filter.MinPrice != nil {
		query = query.Where("venues.price_per_day >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("venues.price_per_day <= ?", *filter.MaxPrice)
	}
	if filter.IsAirConditioned != nil {
		query = query.Where("venues.is_air_conditioned = ?", *filter.IsAirConditioned)
	}
	if len(filter.Amenities) > 0 {
		query = query.Where("venues.id IN (?)",
			database.DB.Table("venue_amenities").
				Select("venue_amenities.venue_id").
				Joins("JOIN amenities ON amenities.id = venue_amenities.amenity_id").
				Where("LOWER(amenities.name) IN ?", utils.Lower(filter.Amenities)))
	}
	if filter.Lat != nil && filter.Lng != nil && filter.RadiusKm != nil {
		box := helper.BoundingBoxAround(*filter.Lat, *filter.Lng, *filter.RadiusKm)
		query = query.Where("venues.latitude BETWEEN ? AND ? AND venues.longitude BETWEEN ? AND ?",
			box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	}
	return query
}

func GetVenues(c *fiber.Ctx) error {
	filter := c.Locals("filter").(model.FilterVenue)
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)

	query := database.DB.Model(&model.Venue{}).
		Where("venues.is_active = ? AND venues.is_approved = ?", true, true)
	query = applyVenueFilters(query, filter)

	sortColumn, ok := venueSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}

	var (
		total  int64
		venues []model.Venue
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		return query.Session(&gorm.Session{}).Count(&total).Error
	})
	g.Go(func() error {
		q := query.Session(&gorm.Session{}).
			Preload("City").
			Preload("Area").
			Preload("Amenities").
			Order(fmt.Sprintf("venues.%s %s", sortColumn, filter.Direction())).
			Order("venues.id")
		return utils.ApplyPagination(q, limit, page).Find(&venues).Error
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := attachVenueStats(database.DB, venues); err != nil {
		return err
	}
	if filter.Lat != nil && filter.Lng != nil {
		for i := range venues {
			if venues[i].Latitude == nil || venues[i].Longitude == nil {
				continue
			}
			d := utils.Round(helper.CalculateDistance(*filter.Lat, *filter.Lng, *venues[i].Latitude, *venues[i].Longitude), 2)
			venues[i].DistanceKm = &d
		}
	}
	if venues == nil {
		venues = []model.Venue{}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"venues":     venues,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

// GetMyVenues lists the caller's own venues, including inactive and unapproved ones.
func GetMyVenues(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	filter := c.Locals("filter").(model.Pagination)
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)

	query := database.DB.Model(&model.Venue{}).Where("owner_id = ?", user.ID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}
	var venues []model.Venue
	err := utils.ApplyPagination(query.Preload("City").Preload("Area").Preload("Amenities").Order("created_at DESC"), limit, page).
		Find(&venues).Error
	if err != nil {
		return err
	}
	if err := attachVenueStats(database.DB, venues); err != nil {
		return err
	}
	if venues == nil {
		venues = []model.Venue{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"venues":     venues,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

func loadVenueDetail(db *gorm.DB, id string) (*model.Venue, error) {
	var venue model.Venue
	err := db.
		Preload("City").
		Preload("Area").
		Preload("Owner", ownerColumns).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Preload("Amenities").
		Preload("Reviews", newestReviews).
		Preload("Reviews.User", reviewerColumns).
		First(&venue, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	venues := []model.Venue{venue}
	if err := attachVenueStats(db, venues); err != nil {
		return nil, err
	}
	return &venues[0], nil
}

func GetVenue(c *fiber.Ctx) error {
	id := c.Locals("inputId").(string)

	venue, err := loadVenueDetail(database.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
		}
		return err
	}
	if (!venue.IsActive || !venue.IsApproved) && !helper.CanManage(helper.GetCurrentUser(c), venue.OwnerID) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_AVAILABLE, nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, venue)
}

// findManagedVenue loads a venue the caller may manage. When ok is false the response is already written.
func findManagedVenue(c *fiber.Ctx, forbidden string) (venue *model.Venue, ok bool, err error) {
	var v model.Venue
	if err := database.DB.First(&v, "id = ?", c.Locals("inputId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, err)
		}
		return nil, false, err
	}
	if !helper.CanManage(helper.GetCurrentUser(c), v.OwnerID) {
		return nil, false, utils.ErrorResponse(c, fiber.StatusForbidden, forbidden, nil)
	}
	return &v, true, nil
}

func CreateVenue(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.CreateVenueInput)

	var venue model.Venue
	if err := copier.Copy(&venue, &input); err != nil {
		return err
	}
	venue.OwnerID = user.ID
	venue.IsActive = true
	venue.IsApproved = helper.IsAdmin(user)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		venue.Slug = helper.GenerateUniqueVenueSlug(tx, venue.Name)
		if len(input.AmenityIDs) > 0 {
			if err := tx.Where("id IN ?", input.AmenityIDs).Find(&venue.Amenities).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Amenities.*").Create(&venue).Error
	})
	if err != nil {
		return err
	}

	created, err := loadVenueDetail(database.DB, venue.ID)
	if err != nil {
		return err
	}
	logger.L().Info("venue created", zap.String("venueId", venue.ID), zap.String("ownerId", user.ID), zap.Bool("approved", venue.IsApproved))
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, created, "Venue created successfully")
}

func UpdateVenue(c *fiber.Ctx) error {
	input := c.Locals("input").(model.UpdateVenueInput)
	venue, ok, err := findManagedVenue(c, constants.NOT_AUTHORIZED_UPDATE_V)
	if !ok {
		return err
	}

	updates := map[string]any{}
	set := func(column string, value any, present bool) {
		if present {
			updates[column] = value
		}
	}
	set("name", deref(input.Name), input.Name != nil)
	set("description", deref(input.Description), input.Description != nil)
	set("address", deref(input.Address), input.Address != nil)
	set("city_id", deref(input.CityID), input.CityID != nil)
	set("area_id", deref(input.AreaID), input.AreaID != nil)
	set("capacity", deref(input.Capacity), input.Capacity != nil)
	set("price_per_day", deref(input.PricePerDay), input.PricePerDay != nil)
	set("price_per_hour", input.PricePerHour, input.PricePerHour != nil)
	set("is_air_conditioned", deref(input.IsAirConditioned), input.IsAirConditioned != nil)
	set("contact_person", deref(input.ContactPerson), input.ContactPerson != nil)
	set("contact_phone", deref(input.ContactPhone), input.ContactPhone != nil)
	set("contact_email", deref(input.ContactEmail), input.ContactEmail != nil)
	set("latitude", input.Latitude, input.Latitude != nil)
	set("longitude", input.Longitude, input.Longitude != nil)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(venue).Updates(updates).Error; err != nil {
				return err
			}
		}
		if input.AmenityIDs != nil {
			var amenities []model.Amenity
			if len(*input.AmenityIDs) > 0 {
				if err := tx.Where("id IN ?", *input.AmenityIDs).Find(&amenities).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(venue).Association("Amenities").Replace(amenities); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	updated, err := loadVenueDetail(database.DB, venue.ID)
	if err != nil {
		return err
	}
	logger.L().Info("venue updated", zap.String("venueId", venue.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, updated, "Venue updated successfully")
}

// DeleteVenue deactivates the venue. Bookings and reviews keep pointing at it.
func DeleteVenue(c *fiber.Ctx) error {
	venue, ok, err := findManagedVenue(c, constants.NOT_AUTHORIZED_DELETE_V)
	if !ok {
		return err
	}
	if err := database.DB.Model(venue).Update("is_active", false).Error; err != nil {
		return err
	}
	logger.L().Info("venue deactivated", zap.String("venueId", venue.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Venue deleted successfully")
}

func availabilityRange(filter model.FilterAvailability) (utils.CustomDate, utils.CustomDate) {
	start := utils.Today(config.Location())
	if d, err := utils.ParseDate(filter.StartDate); err == nil {
		start = d
	}
	end := start.AddDays(90)
	if d, err := utils.ParseDate(filter.EndDate); err == nil {
		end = d
	}
	return start, end
}

func GetVenueAvailability(c *fiber.Ctx) error {
	id := c.Locals("inputId").(string)
	filter := c.Locals("filter").(model.FilterAvailability)

	var count int64
	if err := database.DB.Model(&model.Venue{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.VENUE_NOT_FOUND, nil)
	}

	start, end := availabilityRange(filter)
	resp := model.VenueAvailabilityResponse{
		Blocked: []model.VenueAvailability{},
		Booked:  []model.BookedSlot{},
	}
	err := database.DB.
		Where("venue_id = ? AND is_available = ? AND date BETWEEN ? AND ?", id, false, start.String(), end.String()).
		Order("date ASC").
		Find(&resp.Blocked).Error
	if err != nil {
		return err
	}
	err = database.DB.Model(&model.Booking{}).
		Select("event_date AS date, start_time, end_time, status").
		Where("venue_id = ? AND status IN ? AND event_date BETWEEN ? AND ?", id,
			[]string{constants.BOOKING_PENDING, constants.BOOKING_CONFIRMED}, start.String(), end.String()).
		Order("event_date ASC, start_time ASC").
		Scan(&resp.Booked).Error
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"venueId":   id,
		"startDate": start,
		"endDate":   end,
		"blocked":   resp.Blocked,
		"booked":    resp.Booked,
	})
}

func SetVenueAvailability(c *fiber.Ctx) error {
	input := c.Locals("input").(model.SetAvailabilityInput)
	venue, ok, err := findManagedVenue(c, constants.NOT_AUTHORIZED_UPDATE_V)
	if !ok {
		return err
	}

	entries := make([]model.VenueAvailability, 0, len(input.Dates))
	dates := make([]string, 0, len(input.Dates))
	seen := map[string]int{}
	for _, d := range input.Dates {
		entry := model.VenueAvailability{VenueID: venue.ID, Date: d.Date, IsAvailable: d.IsAvailable, Note: d.Note}
		if i, dup := seen[d.Date.String()]; dup {
			entries[i] = entry
			continue
		}
		seen[d.Date.String()] = len(entries)
		entries = append(entries, entry)
		dates = append(dates, d.Date.String())
	}

	var saved []model.VenueAvailability
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "venue_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_available", "note", "updated_at"}),
		}).Create(&entries).Error
		if err != nil {
			return err
		}
		return tx.Where("venue_id = ? AND date IN ?", venue.ID, dates).Order("date ASC").Find(&saved).Error
	})
	if err != nil {
		return err
	}
	return utils.SuccessMessageResponse(c, fiber.StatusOK, saved, "Availability updated successfully")
}

func UploadVenueImages(c *fiber.Ctx) error {
	venue, ok, err := findManagedVenue(c, constants.NOT_AUTHORIZED_UPDATE_V)
	if !ok {
		return err
	}
	if helper.Cloudinary() == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.IMAGE_STORAGE_DISABLED, nil)
	}

	uploaded, err := uploadFiles(c, validate.Files(c), "venues/"+venue.ID)
	if err != nil {
		return err
	}

	var images []model.VenueImage
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var hasPrimary int64
		if err := tx.Model(&model.VenueImage{}).Where("venue_id = ? AND is_primary = ?", venue.ID, true).Count(&hasPrimary).Error; err != nil {
			return err
		}
		var maxOrder int
		if err := tx.Model(&model.VenueImage{}).Where("venue_id = ?", venue.ID).Select("COALESCE(MAX(sort_order), -1)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		for i, up := range uploaded {
			images = append(images, model.VenueImage{
				VenueID:   venue.ID,
				URL:       up.URL,
				PublicID:  up.PublicID,
				IsPrimary: hasPrimary == 0 && i == 0,
				SortOrder: maxOrder + 1 + i,
			})
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		return err
	}
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, images, "Images uploaded successfully")
}

func DeleteVenueImage(c *fiber.Ctx) error {
	venue, ok, err := findManagedVenue(c, constants.NOT_AUTHORIZED_UPDATE_V)
	if !ok {
		return err
	}

	var image model.VenueImage
	if err := database.DB.First(&image, "id = ? AND venue_id = ?", c.Locals("imageId"), venue.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.IMAGE_NOT_FOUND, err)
		}
		return err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&image).Error; err != nil {
			return err
		}
		if !image.IsPrimary {
			return nil
		}
		var next model.VenueImage
		err := tx.Where("venue_id = ?", venue.ID).Order("sort_order ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_primary", true).Error
	})
	if err != nil {
		return err
	}

	helper.DeleteImage(c.UserContext(), helper.ImagePublicID(image.PublicID, image.URL))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Image deleted successfully")
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
