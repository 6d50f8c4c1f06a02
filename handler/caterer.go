package handler

import (
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
)

var catererSortColumns = map[string]string{
	"price":     "price_per_person",
	"rating":    "rating",
	"name":      "name",
	"createdAt": "created_at",
}

func applyCatererFilters(query *gorm.DB, filter model.FilterCaterer) *gorm.DB {
	if len(filter.ServiceAreas) > 0 {
		query = query.Where("caterers.id IN (?)",
			database.DB.Table("caterer_service_areas").
				Select("caterer_service_areas.caterer_id").
				Joins("JOIN cities ON cities.id = caterer_service_areas.city_id").
				Where("LOWER(cities.name) IN ?", utils.Lower(filter.ServiceAreas)))
	}
	if len(filter.Cuisines) > 0 {
		query = query.Where("caterers.id IN (?)",
			database.DB.Table("caterer_cuisines").
				Select("caterer_cuisines.caterer_id").
				Joins("JOIN cuisines ON cuisines.id = caterer_cuisines.cuisine_id").
				Where("LOWER(cuisines.name) IN ?", utils.Lower(filter.Cuisines)))
	}
	if filter.Search != "" {
		pattern := utils.ContainsPattern(filter.Search)
		query = query.Where("(LOWER(caterers.name) LIKE ? OR LOWER(caterers.description) LIKE ?)", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("caterers.price_per_person >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("caterers.price_per_person <= ?", *filter.MaxPrice)
	}
	if filter.MinimumOrder != nil {
		query = query.Where("caterers.minimum_order <= ?", *filter.MinimumOrder)
	}
	return query
}

func GetCaterers(c *fiber.Ctx) error {
	filter := c.Locals("filter").(model.FilterCaterer)
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)

	query := database.DB.Model(&model.Caterer{}).
		Where("caterers.is_active = ? AND caterers.is_approved = ?", true, true)
	query = applyCatererFilters(query, filter)

	sortColumn, ok := catererSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}

	var (
		total    int64
		caterers []model.Caterer
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		return query.Session(&gorm.Session{}).Count(&total).Error
	})
	g.Go(func() error {
		q := query.Session(&gorm.Session{}).
			Preload("ServiceAreas").
			Preload("Cuisines").
			Preload("Specialties").
			Order(fmt.Sprintf("caterers.%s %s", sortColumn, filter.Direction())).
			Order("caterers.id")
		return utils.ApplyPagination(q, limit, page).Find(&caterers).Error
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := attachCatererStats(database.DB, caterers); err != nil {
		return err
	}
	if caterers == nil {
		caterers = []model.Caterer{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"caterers":   caterers,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

func GetMyCaterers(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	filter := c.Locals("filter").(model.Pagination)
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)

	query := database.DB.Model(&model.Caterer{}).Where("owner_id = ?", user.ID)
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}
	var caterers []model.Caterer
	err := utils.ApplyPagination(query.Preload("ServiceAreas").Preload("Cuisines").Preload("Specialties").Order("created_at DESC"), limit, page).
		Find(&caterers).Error
	if err != nil {
		return err
	}
	if err := attachCatererStats(database.DB, caterers); err != nil {
		return err
	}
	if caterers == nil {
		caterers = []model.Caterer{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"caterers":   caterers,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

func loadCatererDetail(db *gorm.DB, id string) (*model.Caterer, error) {
	var caterer model.Caterer
	err := db.
		Preload("Owner", ownerColumns).
		Preload("ServiceAreas").
		Preload("Cuisines").
		Preload("Specialties").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("category ASC, name ASC")
		}).
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("price_per_person ASC")
		}).
		Preload("Reviews", newestReviews).
		Preload("Reviews.User", reviewerColumns).
		First(&caterer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	caterers := []model.Caterer{caterer}
	if err := attachCatererStats(db, caterers); err != nil {
		return nil, err
	}
	return &caterers[0], nil
}

func GetCaterer(c *fiber.Ctx) error {
	id := c.Locals("inputId").(string)

	caterer, err := loadCatererDetail(database.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CATERER_NOT_FOUND, err)
		}
		return err
	}
	if (!caterer.IsActive || !caterer.IsApproved) && !helper.CanManage(helper.GetCurrentUser(c), caterer.OwnerID) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.CATERER_NOT_AVAILABLE, nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, caterer)
}

func findManagedCaterer(c *fiber.Ctx, forbidden string) (caterer *model.Caterer, ok bool, err error) {
	var ct model.Caterer
	if err := database.DB.First(&ct, "id = ?", c.Locals("inputId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, utils.ErrorResponse(c, fiber.StatusNotFound, constants.CATERER_NOT_FOUND, err)
		}
		return nil, false, err
	}
	if !helper.CanManage(helper.GetCurrentUser(c), ct.OwnerID) {
		return nil, false, utils.ErrorResponse(c, fiber.StatusForbidden, forbidden, nil)
	}
	return &ct, true, nil
}

func CreateCaterer(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.CreateCatererInput)

	var caterer model.Caterer
	if err := copier.Copy(&caterer, &input); err != nil {
		return err
	}
	caterer.OwnerID = user.ID
	caterer.IsActive = true
	caterer.IsApproved = helper.IsAdmin(user)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		caterer.Slug = helper.GenerateUniqueCatererSlug(tx, caterer.Name)
		if err := tx.Where("id IN ?", input.ServiceAreaIDs).Find(&caterer.ServiceAreas).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", input.CuisineIDs).Find(&caterer.Cuisines).Error; err != nil {
			return err
		}
		if len(input.SpecialtyIDs) > 0 {
			if err := tx.Where("id IN ?", input.SpecialtyIDs).Find(&caterer.Specialties).Error; err != nil {
				return err
			}
		}
		return tx.Omit("ServiceAreas.*", "Cuisines.*", "Specialties.*").Create(&caterer).Error
	})
	if err != nil {
		return err
	}

	created, err := loadCatererDetail(database.DB, caterer.ID)
	if err != nil {
		return err
	}
	logger.L().Info("caterer created", zap.String("catererId", caterer.ID), zap.String("ownerId", user.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, created, "Caterer created successfully")
}

func replaceAssociation(tx *gorm.DB, owner *model.Caterer, name string, table any, ids *[]string, dest any) error {
	if ids == nil {
		return nil
	}
	if len(*ids) > 0 {
		if err := tx.Model(table).Where("id IN ?", *ids).Find(dest).Error; err != nil {
			return err
		}
	}
	return tx.Model(owner).Association(name).Replace(dest)
}

func UpdateCaterer(c *fiber.Ctx) error {
	input := c.Locals("input").(model.UpdateCatererInput)
	caterer, ok, err := findManagedCaterer(c, constants.NOT_AUTHORIZED_UPDATE_C)
	if !ok {
		return err
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PricePerPerson != nil {
		updates["price_per_person"] = *input.PricePerPerson
	}
	if input.MinimumOrder != nil {
		updates["minimum_order"] = *input.MinimumOrder
	}
	if input.ContactPerson != nil {
		updates["contact_person"] = *input.ContactPerson
	}
	if input.ContactPhone != nil {
		updates["contact_phone"] = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = *input.ContactEmail
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(caterer).Updates(updates).Error; err != nil {
				return err
			}
		}
		var (
			cities      []model.City
			cuisines    []model.Cuisine
			specialties []model.Specialty
		)
		if err := replaceAssociation(tx, caterer, "ServiceAreas", &model.City{}, input.ServiceAreaIDs, &cities); err != nil {
			return err
		}
		if err := replaceAssociation(tx, caterer, "Cuisines", &model.Cuisine{}, input.CuisineIDs, &cuisines); err != nil {
			return err
		}
		return replaceAssociation(tx, caterer, "Specialties", &model.Specialty{}, input.SpecialtyIDs, &specialties)
	})
	if err != nil {
		return err
	}

	updated, err := loadCatererDetail(database.DB, caterer.ID)
	if err != nil {
		return err
	}
	logger.L().Info("caterer updated", zap.String("catererId", caterer.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, updated, "Caterer updated successfully")
}

func DeleteCaterer(c *fiber.Ctx) error {
	caterer, ok, err := findManagedCaterer(c, constants.NOT_AUTHORIZED_DELETE_C)
	if !ok {
		return err
	}
	if err := database.DB.Model(caterer).Update("is_active", false).Error; err != nil {
		return err
	}
	logger.L().Info("caterer deactivated", zap.String("catererId", caterer.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Caterer deleted successfully")
}

func CreateMenuItem(c *fiber.Ctx) error {
	input := c.Locals("input").(model.MenuItemInput)
	caterer, ok, err := findManagedCaterer(c, constants.NOT_AUTHORIZED_UPDATE_C)
	if !ok {
		return err
	}

	item := model.MenuItem{
		CatererID:   caterer.ID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		IsAvailable: input.IsAvailable == nil || *input.IsAvailable,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		return err
	}
	if !item.IsAvailable {
		// default:true would otherwise win over the zero value
		if err := database.DB.Model(&item).Update("is_available", false).Error; err != nil {
			return err
		}
	}
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, item, "Menu item added successfully")
}

func DeleteMenuItem(c *fiber.Ctx) error {
	caterer, ok, err := findManagedCaterer(c, constants.NOT_AUTHORIZED_UPDATE_C)
	if !ok {
		return err
	}
	res := database.DB.Where("id = ? AND caterer_id = ?", c.Locals("itemId"), caterer.ID).Delete(&model.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.MENU_ITEM_NOT_FOUND, nil)
	}
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Menu item deleted successfully")
}

func CreatePackage(c *fiber.Ctx) error {
	input := c.Locals("input").(model.PackageInput)
	caterer, ok, err := findManagedCaterer(c, constants.NOT_AUTHORIZED_UPDATE_C)
	if !ok {
		return err
	}

	pkg := model.CateringPackage{
		CatererID:      caterer.ID,
		Name:           input.Name,
		Description:    input.Description,
		PricePerPerson: input.PricePerPerson,
		MinimumGuests:  input.MinimumGuests,
		IsActive:       true,
	}
	if err := database.DB.Create(&pkg).Error; err != nil {
		return err
	}
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, pkg, "Package added successfully")
}

func DeletePackage(c *fiber.Ctx) error {
	caterer, ok, err := findManagedCaterer(c, constants.NOT_AUTHORIZED_UPDATE_C)
	if !ok {
		return err
	}
	res := database.DB.Where("id = ? AND caterer_id = ?", c.Locals("packageId"), caterer.ID).Delete(&model.CateringPackage{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.PACKAGE_NOT_FOUND, nil)
	}
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Package deleted successfully")
}

func UploadCatererImages(c *fiber.Ctx) error {
	caterer, ok, err := findManagedCaterer(c, constants.NOT_AUTHORIZED_UPDATE_C)
	if !ok {
		return err
	}
	if helper.Cloudinary() == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.IMAGE_STORAGE_DISABLED, nil)
	}

	uploaded, err := uploadFiles(c, validate.Files(c), "caterers/"+caterer.ID)
	if err != nil {
		return err
	}

	var images []model.CatererImage
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var hasPrimary int64
		if err := tx.Model(&model.CatererImage{}).Where("caterer_id = ? AND is_primary = ?", caterer.ID, true).Count(&hasPrimary).Error; err != nil {
			return err
		}
		var maxOrder int
		if err := tx.Model(&model.CatererImage{}).Where("caterer_id = ?", caterer.ID).Select("COALESCE(MAX(sort_order), -1)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		for i, up := range uploaded {
			images = append(images, model.CatererImage{
				CatererID: caterer.ID,
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
