package db

import (
	"fmt"
	"time"

	"github.com/squadworks/backoffice/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Requester{},
		&models.Project{},
		&models.Task{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.BillingPeriod{},
		&models.Delivery{},
		&models.DeliveryItem{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedCurrentBillingPeriod upserts an open billing period for the current
// month so new deliveries have somewhere to land.
func SeedCurrentBillingPeriod(db *gorm.DB, now time.Time) error {
	period := models.BillingPeriod{
		ID:    models.NewID(),
		Month: int(now.Month()),
		Year:  now.Year(),
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month"}, {Name: "year"}},
		DoNothing: true,
	}).Create(&period)
	if result.Error != nil {
		return fmt.Errorf("db: seed billing period %d/%d: %w", period.Month, period.Year, result.Error)
	}
	return nil
}
