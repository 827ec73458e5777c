package service

import (
	"context"
	"errors"
	"testing"

	"promptvault/internal/models"
	"promptvault/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn                  func(context.Context, string) (*models.User, error)
	getByUsernameFn            func(context.Context, string) (*models.User, error)
	getByUsernameWithPromptsFn func(context.Context, string) (*models.User, error)
	createFn                   func(context.Context, *models.User) error
	updateFn                   func(context.Context, *models.User) error
	setAdminFn                 func(context.Context, string, bool) error
	deleteFn                   func(context.Context, string) error
	countFn                    func(context.Context) (int64, error)
	listFn                     func(context.Context) ([]models.User, error)
	listAdminsFn               func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByUsernameWithPrompts(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameWithPromptsFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	return s.setAdminFn(ctx, id, isAdmin)
}
func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.listAdminsFn(ctx)
}

func noopUserRepo() *userRepoStub {
	notFound := func(_ context.Context, key string) (*models.User, error) {
		return nil, models.NewNotFoundError("User", key)
	}
	return &userRepoStub{
		getByIDFn:                  notFound,
		getByUsernameFn:            notFound,
		getByUsernameWithPromptsFn: notFound,
		createFn:                   func(context.Context, *models.User) error { return nil },
		updateFn:                   func(context.Context, *models.User) error { return nil },
		setAdminFn:                 func(context.Context, string, bool) error { return nil },
		deleteFn:                   func(context.Context, string) error { return nil },
		countFn:                    func(context.Context) (int64, error) { return 0, nil },
		listFn:                     func(context.Context) ([]models.User, error) { return nil, nil },
		listAdminsFn:               func(context.Context) ([]models.User, error) { return nil, nil },
	}
}

type promptRepoStub struct {
	createFn            func(context.Context, *models.Prompt) error
	getByIDFn           func(context.Context, string, string) (*models.Prompt, error)
	listFn              func(context.Context, string) ([]*models.Prompt, error)
	updateFn            func(context.Context, *models.Prompt) error
	updateDescriptionFn func(context.Context, string, string) error
	deleteFn            func(context.Context, string) (bool, error)
}

func (s *promptRepoStub) Create(ctx context.Context, p *models.Prompt) error {
	return s.createFn(ctx, p)
}
func (s *promptRepoStub) GetByID(ctx context.Context, id, viewerID string) (*models.Prompt, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *promptRepoStub) List(ctx context.Context, viewerID string) ([]*models.Prompt, error) {
	return s.listFn(ctx, viewerID)
}
func (s *promptRepoStub) Update(ctx context.Context, p *models.Prompt) error {
	return s.updateFn(ctx, p)
}
func (s *promptRepoStub) UpdateDescription(ctx context.Context, id, description string) error {
	return s.updateDescriptionFn(ctx, id, description)
}
func (s *promptRepoStub) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func noopPromptRepo() *promptRepoStub {
	return &promptRepoStub{
		createFn: func(_ context.Context, p *models.Prompt) error {
			p.ID = "p-new"
			return nil
		},
		getByIDFn: func(_ context.Context, id, _ string) (*models.Prompt, error) {
			return nil, models.NewNotFoundError("Prompt", id)
		},
		listFn:              func(context.Context, string) ([]*models.Prompt, error) { return []*models.Prompt{}, nil },
		updateFn:            func(context.Context, *models.Prompt) error { return nil },
		updateDescriptionFn: func(context.Context, string, string) error { return nil },
		deleteFn:            func(context.Context, string) (bool, error) { return true, nil },
	}
}

type interactionRepoStub struct {
	recordFn        func(context.Context, string, string, models.InteractionKind) (bool, error)
	rateFn          func(context.Context, string, string, int) (*repository.RatingSummary, error)
	toggleFn        func(context.Context, string, string) (bool, error)
	favoriteCountFn func(context.Context, string) (int64, error)
}

func (s *interactionRepoStub) RecordInteraction(ctx context.Context, promptID, userID string, kind models.InteractionKind) (bool, error) {
	return s.recordFn(ctx, promptID, userID, kind)
}
func (s *interactionRepoStub) Rate(ctx context.Context, promptID, userID string, score int) (*repository.RatingSummary, error) {
	return s.rateFn(ctx, promptID, userID, score)
}
func (s *interactionRepoStub) ToggleFavorite(ctx context.Context, userID, promptID string) (bool, error) {
	return s.toggleFn(ctx, userID, promptID)
}
func (s *interactionRepoStub) FavoriteCount(ctx context.Context, promptID string) (int64, error) {
	return s.favoriteCountFn(ctx, promptID)
}

func noopInteractionRepo() *interactionRepoStub {
	return &interactionRepoStub{
		recordFn: func(context.Context, string, string, models.InteractionKind) (bool, error) { return true, nil },
		rateFn: func(_ context.Context, _, _ string, score int) (*repository.RatingSummary, error) {
			return &repository.RatingSummary{Rating: float64(score), RatingCount: 1}, nil
		},
		toggleFn:        func(context.Context, string, string) (bool, error) { return true, nil },
		favoriteCountFn: func(context.Context, string) (int64, error) { return 0, nil },
	}
}

func adminIf(ids ...string) func(context.Context, string) (bool, error) {
	return func(_ context.Context, userID string) (bool, error) {
		for _, id := range ids {
			if id == userID {
				return true, nil
			}
		}
		return false, nil
	}
}

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}
