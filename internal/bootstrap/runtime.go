// Package bootstrap wires the runtime dependencies shared by the server and
// the operator commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"promptvault/internal/cache"
	"promptvault/internal/config"
	"promptvault/internal/database"
	"promptvault/internal/models"
	"promptvault/internal/seed"
	"promptvault/internal/validation"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InitRuntime connects to the database and Redis, then runs the development
// bootstraps the config enables. Redis is optional: the returned client is
// nil when it cannot be reached.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	ctx := context.Background()
	if err := EnsureDevAdmin(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}
	if err := seedIfEmpty(ctx, cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return db, r, nil
}

// EnsureDevAdmin creates the configured admin account in development, or
// grants admin to an existing account with that username.
func EnsureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "admin"
	}
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("DEV_ADMIN_USERNAME: %w", err)
	}
	if cfg.DevAdminPassword == "" {
		return errors.New("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}
	if err := validation.ValidatePassword(cfg.DevAdminPassword); err != nil {
		return fmt.Errorf("DEV_ADMIN_PASSWORD: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		findErr := tx.Where("username_key = ?", models.UsernameKey(username)).First(&existing).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			return tx.Omit(clause.Associations).Create(&models.User{
				Username:    username,
				DisplayName: "Administrator",
				Password:    string(hash),
				IsAdmin:     true,
				IsVerified:  true,
			}).Error
		case findErr != nil:
			return findErr
		case existing.IsAdmin:
			return nil
		default:
			return tx.Model(&models.User{}).Where("id = ?", existing.ID).Update("is_admin", true).Error
		}
	})
	if err != nil {
		return err
	}

	slog.Info("development admin bootstrap ensured", slog.String("username", username))
	return nil
}

// seedIfEmpty applies SEED_PRESET when the database holds no prompts yet.
func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	preset := strings.TrimSpace(cfg.SeedPreset)
	if preset == "" {
		return nil
	}
	if cfg.IsProduction() {
		slog.Warn("SEED_PRESET ignored in production", slog.String("preset", preset))
		return nil
	}

	var prompts int64
	if err := db.WithContext(ctx).Model(&models.Prompt{}).Count(&prompts).Error; err != nil {
		return err
	}
	if prompts > 0 {
		return nil
	}

	s, err := seed.NewSeeder(db, seed.Options{})
	if err != nil {
		return err
	}
	_, err = s.ApplyPreset(ctx, preset)
	return err
}
