package service

import (
	"context"

	"promptvault/internal/models"
	"promptvault/internal/repository"
	"promptvault/internal/validation"
)

const maxSettingValueLen = 4096

type SettingService struct {
	repo    repository.SettingRepository
	isAdmin func(ctx context.Context, userID string) (bool, error)
}

func NewSettingService(
	repo repository.SettingRepository,
	isAdmin func(ctx context.Context, userID string) (bool, error),
) *SettingService {
	return &SettingService{repo: repo, isAdmin: isAdmin}
}

// Get returns nil for a key that was never set.
func (s *SettingService) Get(ctx context.Context, key string) (*string, error) {
	if err := validation.ValidateSettingKey(key); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	return s.repo.Get(ctx, key)
}

func (s *SettingService) All(ctx context.Context) (map[string]string, error) {
	return s.repo.All(ctx)
}

// Set upserts a setting. Only admins may write.
func (s *SettingService) Set(ctx context.Context, requesterID, key, value string) error {
	if requesterID == "" {
		return models.NewUnauthorizedError("Authentication required")
	}
	admin, err := s.isAdmin(ctx, requesterID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Admin access required")
	}
	if err := validation.ValidateSettingKey(key); err != nil {
		return models.NewValidationError(err.Error())
	}
	if len(value) > maxSettingValueLen {
		return models.NewValidationError("Setting value too long (max 4096 bytes)")
	}
	return s.repo.Set(ctx, key, value)
}
