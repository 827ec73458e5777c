package repository

import (
	"context"

	"promptvault/internal/models"

	"gorm.io/gorm"
)

// FeedbackRepository persists messages addressed to the admins.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context) ([]models.Feedback, error)
	SetRead(ctx context.Context, id string, read bool) (*models.Feedback, error)
	Delete(ctx context.Context, id string) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository returns a FeedbackRepository backed by db.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns all feedback, newest first.
func (r *feedbackRepository) List(ctx context.Context) ([]models.Feedback, error) {
	items := []models.Feedback{}
	if err := readDB(r.db).WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *feedbackRepository) SetRead(ctx context.Context, id string, read bool) (*models.Feedback, error) {
	result := r.db.WithContext(ctx).Model(&models.Feedback{}).Where("id = ?", id).Update("read", read)
	if result.Error != nil {
		return nil, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Feedback", id)
	}
	var item models.Feedback
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, notFoundOr(err, "Feedback", id)
	}
	return &item, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Feedback{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Feedback", id)
	}
	return nil
}
