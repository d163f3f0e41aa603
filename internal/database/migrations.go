package database

import (
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
)

// RunMigrations applies the schema. AutoMigrate is additive, so this is safe
// to run on every boot.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Ride{},
		&models.Booking{},
		&models.Review{},
		&models.OTP{},
		&models.Notification{},
		&models.UserReport{},
	)
}
