package seed

import (
	"context"
	"fmt"
	"log/slog"

	"promptvault/internal/cache"
	"promptvault/internal/models"
	"promptvault/internal/repository"

	"gorm.io/gorm"
)

// Result counts what one run inserted.
type Result struct {
	Users     int
	Prompts   int
	Ratings   int
	Favorites int
	Feedback  int
	Settings  int
}

// Seeder fills the database from a preset. Users and prompts are written
// through the factory; ratings, favorites, feedback and settings go through
// the repositories so derived columns stay consistent.
type Seeder struct {
	db           *gorm.DB
	factory      *Factory
	catalog      *Catalog
	interactions repository.InteractionRepository
	feedback     repository.FeedbackRepository
	settings     repository.SettingRepository
}

// NewSeeder builds a Seeder over db using the embedded presets.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	factory, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	return &Seeder{
		db:           db,
		factory:      factory,
		catalog:      catalog,
		interactions: repository.NewInteractionRepository(db),
		feedback:     repository.NewFeedbackRepository(db),
		settings:     repository.NewSettingRepository(db),
	}, nil
}

// Catalog exposes the loaded presets.
func (s *Seeder) Catalog() *Catalog {
	return s.catalog
}

// ClearAll removes every row the application owns, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	slog.Info("clearing existing data")
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{
			&models.PromptInteraction{},
			&models.PromptRating{},
			&models.Favorite{},
			&models.Prompt{},
			&models.Feedback{},
			&models.SystemSetting{},
			&models.User{},
		} {
			if err := tx.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	cache.InvalidatePrompts(ctx)
	return nil
}

// ApplyPreset runs the named preset from the embedded catalog.
func (s *Seeder) ApplyPreset(ctx context.Context, name string) (*Result, error) {
	preset, err := s.catalog.Preset(name)
	if err != nil {
		return nil, err
	}
	slog.Info("applying seed preset",
		slog.String("preset", name),
		slog.Int("users", preset.Users),
		slog.Int("prompts", preset.Prompts),
	)
	return s.Run(ctx, preset)
}

// Run inserts the amounts described by p. When the users table is empty the
// first seeded account becomes an admin, mirroring registration.
func (s *Seeder) Run(ctx context.Context, p Preset) (*Result, error) {
	res := &Result{}
	if p.Users < 1 {
		return nil, fmt.Errorf("preset needs at least one user")
	}
	if p.MaxDays > 0 {
		s.factory.opts.MaxDays = p.MaxDays
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	users := make([]*models.User, 0, p.Users)
	for i := 0; i < p.Users; i++ {
		makeAdmin := existing == 0 && i == 0
		u, err := s.factory.CreateUser(func(u *models.User) { u.IsAdmin = makeAdmin })
		if err != nil {
			return res, err
		}
		users = append(users, u)
	}
	res.Users = len(users)

	prompts := make([]*models.Prompt, 0, p.Prompts)
	for i := 0; i < p.Prompts; i++ {
		author := users[i%len(users)]
		var built *models.Prompt
		if i < len(s.catalog.Prompts) {
			built = s.factory.BuildCuratedPrompt(author, s.catalog.Prompts[i])
		} else {
			built = s.factory.BuildPrompt(author)
		}
		prompt, err := s.factory.CreatePrompt(built)
		if err != nil {
			return res, err
		}
		prompts = append(prompts, prompt)
	}
	res.Prompts = len(prompts)
	cache.InvalidatePrompts(ctx)

	for _, prompt := range prompts {
		for _, ui := range s.factory.Pick(len(users), p.RatingsPerPrompt) {
			if _, err := s.interactions.Rate(ctx, prompt.ID, users[ui].ID, s.factory.Score()); err != nil {
				return res, fmt.Errorf("rate prompt %s: %w", prompt.ID, err)
			}
			res.Ratings++
		}
	}

	if len(prompts) > 0 {
		for _, user := range users {
			for _, pi := range s.factory.Pick(len(prompts), p.FavoritesPerUser) {
				if _, err := s.interactions.ToggleFavorite(ctx, user.ID, prompts[pi].ID); err != nil {
					return res, fmt.Errorf("favorite prompt %s: %w", prompts[pi].ID, err)
				}
				res.Favorites++
			}
		}
	}

	for i := 0; i < p.Feedback; i++ {
		fb := &models.Feedback{
			From:    users[i%len(users)].Username,
			Message: s.factory.FeedbackMessage(),
		}
		if err := s.feedback.Create(ctx, fb); err != nil {
			return res, fmt.Errorf("create feedback: %w", err)
		}
		res.Feedback++
	}

	for key, value := range s.catalog.Settings {
		if err := s.settings.Set(ctx, key, value); err != nil {
			return res, fmt.Errorf("set %s: %w", key, err)
		}
		res.Settings++
	}

	slog.Info("seeding completed",
		slog.Int("users", res.Users),
		slog.Int("prompts", res.Prompts),
		slog.Int("ratings", res.Ratings),
		slog.Int("favorites", res.Favorites),
		slog.Int("feedback", res.Feedback),
	)
	return res, nil
}
