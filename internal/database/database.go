package database

import (
	"fmt"
	"time"

	"trading-journal/internal/config"
	"trading-journal/internal/logger"
	"trading-journal/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase opens the journal database, migrates the schema and seeds
// the default member and instrument types.
func NewDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	slow := time.Duration(cfg.Database.SlowQueryMs) * time.Millisecond
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{
		Logger: logger.NewGormLogger(log, slow),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	if err := Seed(db, cfg.Journal); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the journal tables. Existing rows are kept.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Member{}, &models.InstrumentType{}, &models.Trade{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Seed populates the members table with the configured default member when
// it is empty, and makes sure every configured instrument type exists.
func Seed(db *gorm.DB, cfg config.Journal) error {
	var members int64
	if err := db.Model(&models.Member{}).Count(&members).Error; err != nil {
		return fmt.Errorf("failed to count members: %w", err)
	}
	if members == 0 && cfg.DefaultMember != "" {
		member := models.Member{Name: cfg.DefaultMember, Active: true}
		if err := db.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to create default member '%s': %w", cfg.DefaultMember, err)
		}
	}

	for _, name := range cfg.InstrumentTypes {
		it := models.InstrumentType{Name: name}
		if err := db.FirstOrCreate(&it, models.InstrumentType{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to populate instrument type '%s': %w", name, err)
		}
	}

	return nil
}
