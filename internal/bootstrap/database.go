package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/emickson/mobile-action-bar-backend/internal/config"
	"github.com/emickson/mobile-action-bar-backend/internal/models"
	"github.com/emickson/mobile-action-bar-backend/internal/repository"
)

// MigrateAndSeed ensures required tables exist and inserts baseline rows.
func MigrateAndSeed(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedDefaults(db); err != nil {
		return fmt.Errorf("seed defaults failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.Setting{},
	}
}

// seedDefaults leaves an empty gateway row so admins have something to edit.
// An empty value still reads as "not configured".
func seedDefaults(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return repository.NewSettingRepository(tx).EnsureDefault(config.GatewayConfigKey, "")
	})
}
