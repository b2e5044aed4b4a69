package database

import (
	"gorm.io/gorm"

	"github.com/uniforum/uniforum/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.EmailOTP{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Vote{},
	)
}
