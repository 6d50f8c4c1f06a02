package database

import (
	"asaan_shaadi/config"
	"asaan_shaadi/constants"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedUser struct {
	Email    string
	Password string
	Role     string
}

// DemoUsers lists the seeded accounts and their plain passwords.
var DemoUsers = []SeedUser{
	{Email: "admin@asaanshaadi.com", Password: "admin123", Role: constants.ROLE_ADMIN},
	{Email: "vendor@asaanshaadi.com", Password: "vendor123", Role: constants.ROLE_VENDOR},
	{Email: "user@asaanshaadi.com", Password: "user123", Role: constants.ROLE_USER},
}

func f64(v float64) *float64 { return &v }

// SeedData inserts demo reference data, users and listings. Rows are matched by
// their natural keys so running it again changes nothing.
func SeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		cities := []model.City{
			{Name: "Karachi", Province: "Sindh", Country: "Pakistan", Latitude: 24.8607, Longitude: 67.0011},
			{Name: "Lahore", Province: "Punjab", Country: "Pakistan", Latitude: 31.5204, Longitude: 74.3587},
			{Name: "Islamabad", Province: "Federal Capital Territory", Country: "Pakistan", Latitude: 33.6844, Longitude: 73.0479},
		}
		for i := range cities {
			if err := tx.Where(model.City{Name: cities[i].Name}).FirstOrCreate(&cities[i]).Error; err != nil {
				return fmt.Errorf("seed city %s: %w", cities[i].Name, err)
			}
		}
		karachi, lahore := cities[0], cities[1]

		areas := []model.Area{
			{Name: "DHA", CityID: karachi.ID, PostCode: "75500"},
			{Name: "Clifton", CityID: karachi.ID, PostCode: "75600"},
			{Name: "Gulshan", CityID: karachi.ID, PostCode: "75300"},
			{Name: "DHA", CityID: lahore.ID, PostCode: "54000"},
			{Name: "Gulberg", CityID: lahore.ID, PostCode: "54660"},
		}
		for i := range areas {
			if err := tx.Where(model.Area{Name: areas[i].Name, CityID: areas[i].CityID}).FirstOrCreate(&areas[i]).Error; err != nil {
				return fmt.Errorf("seed area %s: %w", areas[i].Name, err)
			}
		}

		amenities := []model.Amenity{
			{Name: "Parking", Description: "Dedicated parking space for guests", Category: "Facilities", Icon: "car"},
			{Name: "Air Conditioning", Description: "Climate controlled environment", Category: "Comfort", Icon: "snowflake"},
			{Name: "Sound System", Description: "Professional audio equipment", Category: "Entertainment", Icon: "speaker"},
			{Name: "Stage", Description: "Elevated platform for performances", Category: "Entertainment", Icon: "stage"},
			{Name: "Bridal Room", Description: "Private room for bride preparation", Category: "Facilities", Icon: "door"},
		}
		for i := range amenities {
			if err := tx.Where(model.Amenity{Name: amenities[i].Name}).FirstOrCreate(&amenities[i]).Error; err != nil {
				return fmt.Errorf("seed amenity %s: %w", amenities[i].Name, err)
			}
		}

		cuisines := []model.Cuisine{
			{Name: "Pakistani", Description: "Traditional Pakistani dishes", Origin: "Pakistan"},
			{Name: "Continental", Description: "European style cuisine", Origin: "Europe"},
			{Name: "Chinese", Description: "Chinese cuisine and flavors", Origin: "China"},
			{Name: "Indian", Description: "Traditional Indian dishes", Origin: "India"},
		}
		for i := range cuisines {
			if err := tx.Where(model.Cuisine{Name: cuisines[i].Name}).FirstOrCreate(&cuisines[i]).Error; err != nil {
				return fmt.Errorf("seed cuisine %s: %w", cuisines[i].Name, err)
			}
		}

		specialties := []model.Specialty{
			{Name: "Biryani", Description: "Traditional rice dish", Category: "Main Course"},
			{Name: "BBQ", Description: "Grilled meat specialties", Category: "Main Course"},
			{Name: "Live Cooking", Description: "Food prepared in front of guests", Category: "Service"},
			{Name: "Vegetarian", Description: "Plant-based dishes only", Category: "Dietary"},
		}
		for i := range specialties {
			if err := tx.Where(model.Specialty{Name: specialties[i].Name}).FirstOrCreate(&specialties[i]).Error; err != nil {
				return fmt.Errorf("seed specialty %s: %w", specialties[i].Name, err)
			}
		}

		profiles := map[string][3]string{
			constants.ROLE_ADMIN:  {"Admin", "User", "+92 300 0000000"},
			constants.ROLE_VENDOR: {"Vendor", "User", "+92 300 1111111"},
			constants.ROLE_USER:   {"John", "Doe", "+92 300 2222222"},
		}
		users := make(map[string]model.User, len(DemoUsers))
		for _, du := range DemoUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(du.Password), bcryptCost())
			if err != nil {
				return err
			}
			p := profiles[du.Role]
			user := model.User{
				Email:      du.Email,
				Password:   string(hash),
				FirstName:  p[0],
				LastName:   p[1],
				Phone:      p[2],
				Role:       du.Role,
				IsVerified: true,
				IsActive:   true,
			}
			if err := tx.Where(model.User{Email: du.Email}).FirstOrCreate(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", du.Email, err)
			}
			users[du.Role] = user
		}
		vendor, admin := users[constants.ROLE_VENDOR], users[constants.ROLE_ADMIN]

		venues := []model.Venue{
			{
				Name:             "Royal Palace Banquet",
				Description:      "Elegant banquet hall perfect for grand wedding celebrations with luxurious interiors and professional service.",
				Address:          "Plot 123, DHA Phase 5, Karachi",
				CityID:           karachi.ID,
				AreaID:           areas[0].ID,
				Capacity:         500,
				PricePerDay:      150000,
				PricePerHour:     f64(8000),
				IsAirConditioned: true,
				ContactPerson:    "Ahmed Khan",
				ContactPhone:     "+92 300 1234567",
				ContactEmail:     "contact@royalpalace.com",
				Latitude:         f64(24.8607),
				Longitude:        f64(67.0011),
				OwnerID:          vendor.ID,
				Rating:           4.8,
				ReviewCount:      124,
			},
			{
				Name:             "Garden View Hall",
				Description:      "Beautiful outdoor venue with garden views, perfect for intimate wedding ceremonies and receptions.",
				Address:          "Block 15, Gulshan-e-Iqbal, Karachi",
				CityID:           karachi.ID,
				AreaID:           areas[2].ID,
				Capacity:         300,
				PricePerDay:      80000,
				PricePerHour:     f64(4500),
				IsAirConditioned: false,
				ContactPerson:    "Fatima Ali",
				ContactPhone:     "+92 300 2345678",
				ContactEmail:     "info@gardenview.com",
				Latitude:         f64(24.9056),
				Longitude:        f64(67.0822),
				OwnerID:          vendor.ID,
				Rating:           4.5,
				ReviewCount:      89,
			},
			{
				Name:             "Crystal Ballroom",
				Description:      "Luxurious ballroom with crystal chandeliers and premium amenities for sophisticated wedding celebrations.",
				Address:          "Sea View, Clifton Block 4, Karachi",
				CityID:           karachi.ID,
				AreaID:           areas[1].ID,
				Capacity:         800,
				PricePerDay:      250000,
				PricePerHour:     f64(12000),
				IsAirConditioned: true,
				ContactPerson:    "Hassan Sheikh",
				ContactPhone:     "+92 300 3456789",
				ContactEmail:     "bookings@crystalballroom.com",
				Latitude:         f64(24.8138),
				Longitude:        f64(67.0299),
				OwnerID:          admin.ID,
				Rating:           4.9,
				ReviewCount:      156,
			},
		}
		venueAmenities := [][]model.Amenity{
			{amenities[0], amenities[1], amenities[2]},
			{amenities[0], amenities[1], amenities[2]},
			{amenities[0], amenities[1], amenities[2], amenities[4]},
		}
		for i := range venues {
			venues[i].Slug = slug.Make(venues[i].Name)
			venues[i].IsActive = true
			venues[i].IsApproved = true
			created, err := firstOrCreateBySlug(tx, &venues[i], venues[i].Slug)
			if err != nil {
				return fmt.Errorf("seed venue %s: %w", venues[i].Name, err)
			}
			if created {
				if err := tx.Model(&venues[i]).Association("Amenities").Append(venueAmenities[i]); err != nil {
					return err
				}
			}
		}

		caterers := []model.Caterer{
			{
				Name:           "Royal Catering Services",
				Description:    "Premium catering with authentic Pakistani and continental cuisine, serving delicious meals for over 10 years.",
				PricePerPerson: 1500,
				MinimumOrder:   100,
				ContactPerson:  "Muhammad Tariq",
				ContactPhone:   "+92 300 4567890",
				ContactEmail:   "orders@royalcatering.com",
				OwnerID:        vendor.ID,
				Rating:         4.7,
				ReviewCount:    89,
			},
			{
				Name:           "Spice Garden Catering",
				Description:    "Fresh ingredients, authentic flavors, exceptional service. Specializing in traditional Pakistani and Indian cuisine.",
				PricePerPerson: 1200,
				MinimumOrder:   50,
				ContactPerson:  "Ayesha Khan",
				ContactPhone:   "+92 300 5678901",
				ContactEmail:   "info@spicegarden.com",
				OwnerID:        admin.ID,
				Rating:         4.5,
				ReviewCount:    156,
			},
		}
		for i := range caterers {
			caterers[i].Slug = slug.Make(caterers[i].Name)
			caterers[i].IsActive = true
			caterers[i].IsApproved = true
			created, err := firstOrCreateBySlug(tx, &caterers[i], caterers[i].Slug)
			if err != nil {
				return fmt.Errorf("seed caterer %s: %w", caterers[i].Name, err)
			}
			if !created {
				continue
			}
			if err := tx.Model(&caterers[i]).Association("ServiceAreas").Append([]model.City{karachi, lahore}); err != nil {
				return err
			}
			if err := tx.Model(&caterers[i]).Association("Cuisines").Append([]model.Cuisine{cuisines[0], cuisines[1]}); err != nil {
				return err
			}
			if err := tx.Model(&caterers[i]).Association("Specialties").Append([]model.Specialty{specialties[0], specialties[1]}); err != nil {
				return err
			}
		}

		logger.L().Info("database seeding completed",
			zap.Int("cities", len(cities)),
			zap.Int("venues", len(venues)),
			zap.Int("caterers", len(caterers)))
		return nil
	})
}

// firstOrCreateBySlug loads the row with the given slug into dest, creating it when absent.
func firstOrCreateBySlug[T any](tx *gorm.DB, dest *T, s string) (bool, error) {
	var existing T
	err := tx.Where("slug = ?", s).First(&existing).Error
	if err == nil {
		*dest = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := tx.Omit("Amenities", "ServiceAreas", "Cuisines", "Specialties").Create(dest).Error; err != nil {
		return false, err
	}
	return true, nil
}

func bcryptCost() int {
	cost := config.Int("BCRYPT_COST")
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}
