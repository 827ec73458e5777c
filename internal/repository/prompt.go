package repository

import (
	"context"
	"time"

	"promptvault/internal/cache"
	"promptvault/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PromptRepository defines persistence operations for prompts.
type PromptRepository interface {
	Create(ctx context.Context, prompt *models.Prompt) error
	GetByID(ctx context.Context, id string, viewerID string) (*models.Prompt, error)
	List(ctx context.Context, viewerID string) ([]*models.Prompt, error)
	Update(ctx context.Context, prompt *models.Prompt) error
	UpdateDescription(ctx context.Context, id, description string) error
	Delete(ctx context.Context, id string) (bool, error)
}

type promptRepository struct {
	db      *gorm.DB
	feedTTL time.Duration
}

// NewPromptRepository creates a prompt repository. feedTTL bounds how long
// the shared feed stays cached; zero selects cache.PromptsListTTL.
func NewPromptRepository(db *gorm.DB, feedTTL time.Duration) PromptRepository {
	if feedTTL <= 0 {
		feedTTL = cache.PromptsListTTL
	}
	return &promptRepository{db: db, feedTTL: feedTTL}
}

const favoriteCountColumn = "(SELECT COUNT(*) FROM favorites WHERE favorites.prompt_id = prompts.id) AS favorite_count"

// applyPromptDetails selects the derived favorite columns and, for a viewer,
// their favorite flag and own score.
func applyPromptDetails(db *gorm.DB, viewerID string) *gorm.DB {
	query := db.Model(&models.Prompt{})
	if viewerID == "" {
		query = query.Select("prompts.*, " + favoriteCountColumn)
	} else {
		query = query.Select("prompts.*, "+favoriteCountColumn+", "+
			"EXISTS(SELECT 1 FROM favorites WHERE favorites.prompt_id = prompts.id AND favorites.user_id = ?) AS is_favorited, "+
			"COALESCE((SELECT score FROM prompt_ratings WHERE prompt_ratings.prompt_id = prompts.id AND prompt_ratings.user_id = ?), 0) AS user_rating",
			viewerID, viewerID)
	}
	return query.Preload("Author")
}

func (r *promptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(prompt).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePrompts(ctx)
	return nil
}

func (r *promptRepository) GetByID(ctx context.Context, id string, viewerID string) (*models.Prompt, error) {
	var prompt models.Prompt
	err := applyPromptDetails(readDB(r.db).WithContext(ctx), viewerID).
		Where("prompts.id = ?", id).
		First(&prompt).Error
	if err != nil {
		return nil, notFoundOr(err, "Prompt", id)
	}
	return &prompt, nil
}

// List returns the feed newest first. The viewer-independent part is served
// through the cache and isFavorited and userRating are overlaid per call.
func (r *promptRepository) List(ctx context.Context, viewerID string) ([]*models.Prompt, error) {
	var prompts []*models.Prompt
	err := cache.Aside(ctx, cache.PromptsListKey, &prompts, r.feedTTL, func() error {
		return applyPromptDetails(readDB(r.db).WithContext(ctx), "").
			Order("prompts.created_at DESC").
			Find(&prompts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if prompts == nil {
		prompts = []*models.Prompt{}
	}
	if viewerID == "" || len(prompts) == 0 {
		return prompts, nil
	}

	var favorited []string
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", viewerID).
		Pluck("prompt_id", &favorited).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	set := make(map[string]struct{}, len(favorited))
	for _, id := range favorited {
		set[id] = struct{}{}
	}
	var scores []struct {
		PromptID string
		Score    int
	}
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.PromptRating{}).
		Select("prompt_id", "score").
		Where("user_id = ?", viewerID).
		Scan(&scores).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	own := make(map[string]int, len(scores))
	for _, s := range scores {
		own[s.PromptID] = s.Score
	}

	for _, p := range prompts {
		_, p.IsFavorited = set[p.ID]
		p.UserRating = own[p.ID]
	}
	return prompts, nil
}

// Update overwrites the author-editable fields only.
func (r *promptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	result := r.db.WithContext(ctx).Model(&models.Prompt{}).
		Where("id = ?", prompt.ID).
		Select("title", "content", "description", "model", "model_url", "image_url", "category", "tags", "updated_at").
		Updates(map[string]any{
			"title":       prompt.Title,
			"content":     prompt.Content,
			"description": prompt.Description,
			"model":       prompt.Model,
			"model_url":   prompt.ModelURL,
			"image_url":   prompt.ImageURL,
			"category":    prompt.Category,
			"tags":        prompt.Tags,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Prompt", prompt.ID)
	}
	cache.InvalidatePrompts(ctx)
	return nil
}

func (r *promptRepository) UpdateDescription(ctx context.Context, id, description string) error {
	result := r.db.WithContext(ctx).Model(&models.Prompt{}).
		Where("id = ?", id).
		UpdateColumn("description", description)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidatePrompts(ctx)
	}
	return nil
}

// Delete hard-deletes the prompt and its relation rows. It reports whether
// a prompt was removed.
func (r *promptRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Favorite{}, &models.PromptRating{}, &models.PromptInteraction{}} {
			if err := tx.Where("prompt_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&models.Prompt{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if deleted {
		cache.InvalidatePrompts(ctx)
	}
	return deleted, nil
}
