package database

import (
	"github.com/gymconnect/gymconnect-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Gym{},
		&models.Membership{},
		&models.Booking{},
	)
	if err != nil {
		return err
	}

	// Update users table
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS phone_number text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS role text DEFAULT 'user'",
			"ADD COLUMN IF NOT EXISTS is_active boolean DEFAULT true",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('user', 'gym_owner', 'admin'))`)
	}

	// Bookings predate the cancellation metadata columns in early deployments
	if db.Migrator().HasTable(&models.Booking{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS cancellation_reason text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS cancelled_by text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS cancelled_at timestamptz",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE bookings " + column).Error; err != nil {
				return err
			}
		}

		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'confirmed', 'completed', 'cancelled'))`)
	}

	return nil
}
