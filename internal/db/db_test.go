package db

import (
	"testing"
	"time"

	"github.com/squadworks/backoffice/internal/config"
	"github.com/squadworks/backoffice/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "10.0.0.5",
		Port: 3307,
		Name: "backoffice_prod",
		User: "billing",
	}
	want := "billing@tcp(10.0.0.5:3307)/backoffice_prod?parseTime=true&charset=utf8mb4"
	if got := DSN(cfg); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}

	cfg.Password = "hunter2"
	want = "billing:hunter2@tcp(10.0.0.5:3307)/backoffice_prod?parseTime=true&charset=utf8mb4"
	if got := DSN(cfg); got != want {
		t.Errorf("DSN with password = %q, want %q", got, want)
	}
}

func TestAutoMigrate_CreatesAllTables(t *testing.T) {
	gdb := testDB(t)

	for _, model := range AllModels() {
		if !gdb.Migrator().HasTable(model) {
			t.Errorf("table for %T not created", model)
		}
	}
}

func TestSeedCurrentBillingPeriod_Idempotent(t *testing.T) {
	gdb := testDB(t)
	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

	if err := SeedCurrentBillingPeriod(gdb, now); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := SeedCurrentBillingPeriod(gdb, now); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var count int64
	if err := gdb.Model(&models.BillingPeriod{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("billing period count = %d, want 1", count)
	}

	var period models.BillingPeriod
	if err := gdb.First(&period).Error; err != nil {
		t.Fatalf("load period: %v", err)
	}
	if period.Month != 3 || period.Year != 2026 {
		t.Errorf("period = %d/%d, want 3/2026", period.Month, period.Year)
	}
	if period.Closed {
		t.Error("seeded period should be open")
	}
}

func TestDeliveryCascade_DeleteRemovesItems(t *testing.T) {
	gdb := testDB(t)

	delivery := models.Delivery{
		ID:     models.NewID(),
		TaskID: models.NewID(),
		Status: "PENDING",
		Items: []models.DeliveryItem{
			{ID: models.NewID(), Status: "PENDING"},
			{ID: models.NewID(), Status: "DEVELOPMENT"},
		},
	}
	if err := gdb.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery: %v", err)
	}

	if err := gdb.Select("Items").Delete(&delivery).Error; err != nil {
		t.Fatalf("delete delivery: %v", err)
	}

	var items int64
	if err := gdb.Model(&models.DeliveryItem{}).Where("delivery_id = ?", delivery.ID).Count(&items).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 0 {
		t.Errorf("items remaining after parent delete = %d, want 0", items)
	}
}
