package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/E-m-i-n-e-n-c-e/hello-truck/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the owner, session, and OTP challenge tables for
// both roles.
func AutoMigrate(db *gorm.DB) error {
	if err := repositories.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate auth tables: %w", err)
	}
	return nil
}
