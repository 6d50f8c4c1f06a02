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

type listingStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Pending int64 `json:"pending"`
}

type groupCount struct {
	Name  string
	Count int64
}

func countBy(db *gorm.DB, table any, column string) (map[string]int64, error) {
	var rows []groupCount
	err := db.Model(table).
		Select(column + " AS name, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Count
	}
	return out, nil
}

func countListings(db *gorm.DB, table any) (listingStats, error) {
	var s listingStats
	if err := db.Model(table).Count(&s.Total).Error; err != nil {
		return s, err
	}
	if err := db.Model(table).Where("is_active = ? AND is_approved = ?", true, true).Count(&s.Active).Error; err != nil {
		return s, err
	}
	err := db.Model(table).Where("is_active = ? AND is_approved = ?", true, false).Count(&s.Pending).Error
	return s, err
}

// GetDashboard summarises users, listings, bookings and revenue for admins.
func GetDashboard(c *fiber.Ctx) error {
	db := database.DB

	type Stats struct {
		Users          map[string]int64 `json:"users"`
		TotalUsers     int64            `json:"totalUsers"`
		Venues         listingStats     `json:"venues"`
		Caterers       listingStats     `json:"caterers"`
		Bookings       map[string]int64 `json:"bookings"`
		TotalBookings  int64            `json:"totalBookings"`
		Revenue        float64          `json:"revenue"`
		UnreadMessages int64            `json:"unreadMessages"`
		RecentBookings []model.Booking  `json:"recentBookings"`
	}
	var stats Stats

	g := new(errgroup.Group)
	g.Go(func() (err error) {
		stats.Users, err = countBy(db, &model.User{}, "role")
		return err
	})
	g.Go(func() (err error) {
		stats.Venues, err = countListings(db, &model.Venue{})
		return err
	})
	g.Go(func() (err error) {
		stats.Caterers, err = countListings(db, &model.Caterer{})
		return err
	})
	g.Go(func() (err error) {
		stats.Bookings, err = countBy(db, &model.Booking{}, "status")
		return err
	})
	g.Go(func() error {
		return db.Model(&model.Booking{}).Select("COALESCE(SUM(amount_paid), 0)").Scan(&stats.Revenue).Error
	})
	g.Go(func() error {
		return db.Model(&model.ContactMessage{}).Where("is_read = ?", false).Count(&stats.UnreadMessages).Error
	})
	g.Go(func() error {
		return withBookingRelations(db).Order("created_at DESC").Limit(5).Find(&stats.RecentBookings).Error
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for _, role := range []string{constants.ROLE_USER, constants.ROLE_VENDOR, constants.ROLE_ADMIN} {
		stats.TotalUsers += stats.Users[role]
		if _, ok := stats.Users[role]; !ok {
			stats.Users[role] = 0
		}
	}
	for _, n := range stats.Bookings {
		stats.TotalBookings += n
	}
	stats.Revenue = utils.Round(stats.Revenue, 2)
	if stats.RecentBookings == nil {
		stats.RecentBookings = []model.Booking{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}

func GetUsers(c *fiber.Ctx) error {
	filter := c.Locals("filter").(model.FilterUser)
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)

	query := database.DB.Model(&model.User{})
	if filter.Search != "" {
		pattern := utils.ContainsPattern(filter.Search)
		query = query.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern, pattern)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var (
		total int64
		users []model.User
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		return query.Session(&gorm.Session{}).Count(&total).Error
	})
	g.Go(func() error {
		return utils.ApplyPagination(query.Session(&gorm.Session{}).Order("created_at DESC"), limit, page).Find(&users).Error
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if users == nil {
		users = []model.User{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"users":      users,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

func UpdateUser(c *fiber.Ctx) error {
	admin := helper.GetCurrentUser(c)
	input := c.Locals("input").(model.AdminUpdateUserInput)

	user, err := helper.GetUserByID(database.DB, c.Locals("inputId").(string))
	if err != nil {
		return err
	}
	if user == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.USER_NOT_FOUND, nil)
	}

	updates := map[string]any{}
	if input.Role != nil {
		updates["role"] = *input.Role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsVerified != nil {
		updates["is_verified"] = *input.IsVerified
	}
	if len(updates) > 0 {
		if err := database.DB.Model(user).Updates(updates).Error; err != nil {
			return err
		}
	}

	updated, err := helper.GetUserByID(database.DB, user.ID)
	if err != nil {
		return err
	}
	logger.L().Info("user updated by admin", zap.String("userId", user.ID), zap.String("by", admin.ID), zap.Any("changes", updates))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, updated, "User updated successfully")
}

func setApproval(c *fiber.Ctx, table any, notFound, label string) error {
	input := c.Locals("input").(model.ApprovalInput)
	id := c.Locals("inputId").(string)

	res := database.DB.Model(table).Where("id = ?", id).Update("is_approved", *input.IsApproved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, notFound, nil)
	}

	message := label + " approved successfully"
	if !*input.IsApproved {
		message = label + " approval revoked"
	}
	logger.L().Info("listing approval changed", zap.String("listing", label), zap.String("id", id), zap.Bool("approved", *input.IsApproved))
	return utils.SuccessMessageResponse(c, fiber.StatusOK, fiber.Map{"id": id, "isApproved": *input.IsApproved}, message)
}

func ApproveVenue(c *fiber.Ctx) error {
	return setApproval(c, &model.Venue{}, constants.VENUE_NOT_FOUND, "Venue")
}

func ApproveCaterer(c *fiber.Ctx) error {
	return setApproval(c, &model.Caterer{}, constants.CATERER_NOT_FOUND, "Caterer")
}

func GetContactMessages(c *fiber.Ctx) error {
	filter := c.Locals("filter").(model.FilterContactMessage)
	page, limit := utils.NormalizePagination(filter.Page, filter.Limit, constants.DEFAULT_LIMIT, constants.MAX_LIMIT)

	query := database.DB.Model(&model.ContactMessage{})
	if filter.IsRead != nil {
		query = query.Where("is_read = ?", *filter.IsRead)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}
	var messages []model.ContactMessage
	if err := utils.ApplyPagination(query.Order("created_at DESC"), limit, page).Find(&messages).Error; err != nil {
		return err
	}
	if messages == nil {
		messages = []model.ContactMessage{}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"messages":   messages,
		"pagination": utils.NewPaginationMeta(page, limit, total),
	})
}

func MarkContactMessageRead(c *fiber.Ctx) error {
	var msg model.ContactMessage
	if err := database.DB.First(&msg, "id = ?", c.Locals("inputId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, constants.MESSAGE_NOT_FOUND, err)
		}
		return err
	}
	if err := database.DB.Model(&msg).Update("is_read", true).Error; err != nil {
		return err
	}
	msg.IsRead = true
	return utils.SuccessMessageResponse(c, fiber.StatusOK, msg, "Message marked as read")
}
