package handler

import (
	"asaan_shaadi/constants"
	"asaan_shaadi/database"
	"asaan_shaadi/helper"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"asaan_shaadi/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func GetReviews(c *fiber.Ctx) error {
	filter := c.Locals("filter").(model.FilterReview)
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)

	query := database.DB.Model(&model.Review{})
	if filter.VenueID != "" {
		query = query.Where("venue_id = ?", filter.VenueID)
	} else {
		query = query.Where("caterer_id = ?", filter.CatererID)
	}

	var (
		total   int64
		reviews []model.Review
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		return query.Session(&gorm.Session{}).Count(&total).Error
	})
	g.Go(func() error {
		q := query.Session(&gorm.Session{}).Preload("User", reviewerColumns).Order("created_at DESC")
		return utils.ApplyPagination(q, limit, page).Find(&reviews).Error
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"reviews":    reviews,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

func recalculateRating(tx *gorm.DB, r *model.Review) error {
	if r.VenueID != nil {
		return helper.RecalculateVenueRating(tx, *r.VenueID)
	}
	return helper.RecalculateCatererRating(tx, *r.CatererID)
}

func CreateReview(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.CreateReviewInput)

	review := model.Review{
		UserID:    user.ID,
		VenueID:   input.VenueID,
		CatererID: input.CatererID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var (
			table    any = &model.Caterer{}
			targetID     = review.CatererID
			column       = "caterer_id"
			notFound     = constants.CATERER_NOT_FOUND
		)
		if review.VenueID != nil {
			table, targetID, column, notFound = &model.Venue{}, review.VenueID, "venue_id", constants.VENUE_NOT_FOUND
		}

		var active int64
		if err := tx.Model(table).Where("id = ? AND is_active = ?", *targetID, true).Count(&active).Error; err != nil {
			return err
		}
		if active == 0 {
			return fiber.NewError(fiber.StatusNotFound, notFound)
		}

		var existing int64
		if err := tx.Model(&model.Review{}).Where("user_id = ? AND "+column+" = ?", user.ID, *targetID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fiber.NewError(fiber.StatusBadRequest, constants.REVIEW_DUPLICATE)
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recalculateRating(tx, &review)
	})
	if err != nil {
		return err
	}

	if err := database.DB.Preload("User", reviewerColumns).First(&review, "id = ?", review.ID).Error; err != nil {
		return err
	}
	logger.L().Info("review created", zap.String("reviewId", review.ID), zap.String("userId", user.ID), zap.Int("rating", review.Rating))
	return utils.SuccessMessageResponse(c, fiber.StatusCreated, review, "Review created successfully")
}

func DeleteReview(c *fiber.Ctx) error {
	user := helper.GetCurrentUser(c)

	var review model.Review
	if err := database.DB.First(&review, "id = ?", c.Locals("inputId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.REVIEW_NOT_FOUND, err)
		}
		return err
	}
	if review.UserID != user.ID && !helper.IsAdmin(user) {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_AUTHORIZED_REVIEW, nil)
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recalculateRating(tx, &review)
	})
	if err != nil {
		return err
	}
	logger.L().Info("review deleted", zap.String("reviewId", review.ID), zap.String("by", user.ID))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, nil, "Review deleted successfully")
}
