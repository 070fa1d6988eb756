package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emickson/mobile-action-bar-backend/internal/config"
	"github.com/emickson/mobile-action-bar-backend/internal/models"
	"github.com/emickson/mobile-action-bar-backend/internal/payment"
)

// SettingRepository reads the key-value settings table. Writes belong to the
// admin tooling; this side only seeds missing rows.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns the raw value of a setting.
func (r *SettingRepository) Get(name string) (string, error) {
	var s models.Setting
	if err := r.db.Where("name = ?", name).First(&s).Error; err != nil {
		return "", err
	}
	return s.Value, nil
}

// GetGatewayConfig decodes the gateway blob stored under name.
// A missing row is reported as config.ErrNoGatewayConfig.
func (r *SettingRepository) GetGatewayConfig(name string) (*payment.GatewayConfig, error) {
	raw, err := r.Get(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, config.ErrNoGatewayConfig
	}
	if err != nil {
		return nil, fmt.Errorf("load setting %s: %w", name, err)
	}
	return config.ParseGatewayConfig([]byte(raw))
}

// EnsureDefault inserts name=value unless a row already exists.
func (r *SettingRepository) EnsureDefault(name, value string) error {
	var count int64
	if err := r.db.Model(&models.Setting{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.Create(&models.Setting{Name: name, Value: value}).Error
}
