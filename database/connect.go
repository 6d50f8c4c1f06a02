package database

import (
	"asaan_shaadi/config"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDB opens the Postgres connection from configuration and stores it in DB.
func ConnectDB() error {
	logLevel := gormlogger.Warn
	if config.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	db, err := Connect(postgres.Open(config.DatabaseDSN()), logLevel)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	DB = db
	logger.L().Info("connection opened to database")
	return nil
}

func Connect(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.AuthToken{},
		&model.City{},
		&model.Area{},
		&model.Amenity{},
		&model.Cuisine{},
		&model.Specialty{},
		&model.Venue{},
		&model.VenueImage{},
		&model.VenueAvailability{},
		&model.Caterer{},
		&model.CatererImage{},
		&model.MenuItem{},
		&model.CateringPackage{},
		&model.Booking{},
		&model.Payment{},
		&model.Review{},
		&model.ContactMessage{},
	)
	if err != nil {
		logger.L().Error("database migration failed", zap.Error(err))
		return err
	}
	logger.L().Info("database migrated")
	return nil
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
