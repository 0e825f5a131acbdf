package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"maintdeck/internal/config"
	"maintdeck/internal/models"
)

// Connect opens the connection pool and hands the caller an explicit handle.
// The handle is injected into stores and services at construction and closed
// by the composition root at shutdown.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	slog.Info("Database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.System{},
		&models.DowntimeWindow{},
		&models.AuditLogEntry{},
	)
}

// SeedSystems fills the registry table with a couple of rows for development
// setups where the registry service has not populated it yet.
func SeedSystems(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.System{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	systems := []models.System{
		{Name: "billing-api", URL: "https://billing.internal.example.com"},
		{Name: "customer-portal", URL: "https://portal.example.com"},
		{Name: "notification-hub", URL: "https://notify.internal.example.com"},
	}
	if err := db.Create(&systems).Error; err != nil {
		return err
	}
	slog.Info("Seeded registry systems", "count", len(systems))
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
