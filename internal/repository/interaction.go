package repository

import (
	"context"
	"errors"

	"promptvault/internal/aggregate"
	"promptvault/internal/cache"
	"promptvault/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingSummary is the recomputed aggregate after a rating submission.
type RatingSummary struct {
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"ratingCount"`
}

// InteractionRepository persists favorites, ratings and counted views/copies.
type InteractionRepository interface {
	RecordInteraction(ctx context.Context, promptID, userID string, kind models.InteractionKind) (bool, error)
	Rate(ctx context.Context, promptID, userID string, score int) (*RatingSummary, error)
	ToggleFavorite(ctx context.Context, userID, promptID string) (bool, error)
	FavoriteCount(ctx context.Context, promptID string) (int64, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository returns an InteractionRepository backed by db.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

// lockPrompt loads the prompt id inside tx. On postgres the row stays locked
// until the transaction ends.
func lockPrompt(tx *gorm.DB, promptID string) error {
	query := tx.Model(&models.Prompt{}).Select("id").Where("id = ?", promptID)
	if isPostgres(tx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p models.Prompt
	if err := query.Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Prompt", promptID)
		}
		return err
	}
	return nil
}

// recomputeRating rewrites the prompt's rating columns from the scores
// stored for it. The caller holds the prompt lock.
func recomputeRating(tx *gorm.DB, promptID string) (*RatingSummary, error) {
	var scores []int
	if err := tx.Model(&models.PromptRating{}).Where("prompt_id = ?", promptID).Pluck("score", &scores).Error; err != nil {
		return nil, err
	}
	var summary RatingSummary
	summary.Rating, summary.RatingCount = aggregate.SummarizeRatings(scores)

	err := tx.Model(&models.Prompt{}).
		Where("id = ?", promptID).
		UpdateColumns(map[string]any{
			"rating":       summary.Rating,
			"rating_count": summary.RatingCount,
		}).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func wrapTxError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}

// RecordInteraction increments the view or copy counter. A signed-in user is
// counted at most once per prompt and kind; anonymous calls always count.
func (r *interactionRepository) RecordInteraction(ctx context.Context, promptID, userID string, kind models.InteractionKind) (bool, error) {
	if !kind.Valid() {
		return false, models.NewValidationError("unknown interaction kind")
	}
	counted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if userID != "" {
			if err := lockPrompt(tx, promptID); err != nil {
				return err
			}
			result := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.PromptInteraction{UserID: userID, PromptID: promptID, Kind: kind})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil
			}
		}
		col := kind.CounterColumn()
		result := tx.Model(&models.Prompt{}).
			Where("id = ?", promptID).
			UpdateColumn(col, gorm.Expr(col+" + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Prompt", promptID)
		}
		counted = true
		return nil
	})
	if err != nil {
		return false, wrapTxError(err)
	}
	return counted, nil
}

// Rate stores one score per user and prompt and rewrites the prompt's
// aggregate from the full score set.
func (r *interactionRepository) Rate(ctx context.Context, promptID, userID string, score int) (*RatingSummary, error) {
	var summary RatingSummary
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPrompt(tx, promptID); err != nil {
			return err
		}
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "prompt_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
			}).
			Create(&models.PromptRating{UserID: userID, PromptID: promptID, Score: score}).Error
		if err != nil {
			return err
		}

		recomputed, err := recomputeRating(tx, promptID)
		if err != nil {
			return err
		}
		summary = *recomputed
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}
	cache.InvalidatePrompts(ctx)
	return &summary, nil
}

// ToggleFavorite flips the favorite relation and returns the new state.
func (r *interactionRepository) ToggleFavorite(ctx context.Context, userID, promptID string) (bool, error) {
	var favorited bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPrompt(tx, promptID); err != nil {
			return err
		}
		removed := tx.Where("user_id = ? AND prompt_id = ?", userID, promptID).Delete(&models.Favorite{})
		if removed.Error != nil {
			return removed.Error
		}
		if removed.RowsAffected > 0 {
			favorited = false
			return nil
		}
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Favorite{UserID: userID, PromptID: promptID}).Error; err != nil {
			return err
		}
		favorited = true
		return nil
	})
	if err != nil {
		return false, wrapTxError(err)
	}
	cache.InvalidatePrompts(ctx)
	return favorited, nil
}

func (r *interactionRepository) FavoriteCount(ctx context.Context, promptID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("prompt_id = ?", promptID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
