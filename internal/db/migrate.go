package db

import (
	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations on the global connection
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB creates the client-state tables on db
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.StorageEntry{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
