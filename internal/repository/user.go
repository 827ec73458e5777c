// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"promptvault/internal/cache"
	"promptvault/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameWithPrompts(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.User, error)
	ListAdmins(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func newestPrompts(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// GetByUsername matches case-insensitively.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := readDB(r.db).WithContext(ctx).
		Where("username_key = ?", models.UsernameKey(username)).
		First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) GetByUsernameWithPrompts(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := readDB(r.db).WithContext(ctx).
		Preload("Prompts", newestPrompts).
		Where("username_key = ?", models.UsernameKey(username)).
		First(&user).Error
	if err != nil {
		return nil, notFoundOr(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateError("Username already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateError("Username already exists")
		}
		return models.NewInternalError(err)
	}
	// prompts embed their author
	cache.InvalidatePrompts(ctx)
	return nil
}

func (r *userRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_admin", isAdmin)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// Delete removes the user with everything they own. Rows are deleted
// explicitly so the result does not depend on foreign key enforcement.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		promptIDs := tx.Model(&models.Prompt{}).Select("id").Where("author_id = ?", id)

		// Prompts by other authors that lose one of their scores below.
		var rated []string
		err := tx.Model(&models.PromptRating{}).
			Distinct("prompt_id").
			Where("user_id = ? AND prompt_id NOT IN (?)", id, promptIDs).
			Order("prompt_id").
			Pluck("prompt_id", &rated).Error
		if err != nil {
			return err
		}
		for _, promptID := range rated {
			if err := lockPrompt(tx, promptID); err != nil {
				return err
			}
		}

		for _, m := range []any{&models.Favorite{}, &models.PromptRating{}, &models.PromptInteraction{}} {
			if err := tx.Where("user_id = ? OR prompt_id IN (?)", id, promptIDs).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Prompt{}).Error; err != nil {
			return err
		}
		for _, promptID := range rated {
			if _, err := recomputeRating(tx, promptID); err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("User", id)
		}
		return nil
	})
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePrompts(ctx)
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := readDB(r.db).WithContext(ctx).
		Preload("Prompts", newestPrompts).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("is_admin = ?", true).Order("username_key").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
