package repository

import (
	"context"
	"errors"
	"time"

	"promptvault/internal/cache"
	"promptvault/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository stores admin-managed key/value settings.
type SettingRepository interface {
	// Get returns nil when the key has never been set.
	Get(ctx context.Context, key string) (*string, error)
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository returns a SettingRepository backed by db.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// cachedSetting distinguishes a cached absence from a cached empty string.
type cachedSetting struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

func (r *settingRepository) Get(ctx context.Context, key string) (*string, error) {
	var entry cachedSetting
	err := cache.Aside(ctx, cache.SettingKey(key), &entry, cache.SettingTTL, func() error {
		var s models.SystemSetting
		err := readDB(r.db).WithContext(ctx).Where(map[string]any{"key": key}).First(&s).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = cachedSetting{}
			return nil
		case err != nil:
			return err
		}
		entry = cachedSetting{Found: true, Value: s.Value}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !entry.Found {
		return nil, nil
	}
	return &entry.Value, nil
}

func (r *settingRepository) All(ctx context.Context) (map[string]string, error) {
	settings := map[string]string{}
	err := cache.Aside(ctx, cache.SettingsAllKey, &settings, cache.SettingTTL, func() error {
		var rows []models.SystemSetting
		if err := readDB(r.db).WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			settings[row.Key] = row.Value
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return settings, nil
}

// Set creates or overwrites a setting.
func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&models.SystemSetting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateSetting(ctx, key)
	return nil
}
