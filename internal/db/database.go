package db

import (
	"fmt"

	"github.com/ikkim/edubooks-storefront/config"
	appLogger "github.com/ikkim/edubooks-storefront/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// A single session writes a handful of keys.
const (
	maxIdleConns = 2
	maxOpenConns = 5
)

var DB *gorm.DB

// Initialize opens the postgres client-state store. Callers run Migrate next.
func Initialize(cfg *config.DatabaseConfig) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("postgres client-state store %s@%s: %w", cfg.DBName, cfg.Host, err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)

	appLogger.Info("Client-state store ready", map[string]interface{}{
		"driver":   "database",
		"host":     cfg.Host,
		"database": cfg.DBName,
	})
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
