package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"promptvault/internal/models"
	"promptvault/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_GetByUsernameQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		username      string
		mockBehavior  func()
		expectedError string
	}{
		{
			name:     "Success",
			username: "Alice",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "username_key"}).
					AddRow("u1", "Alice", "alice")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username_key = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs("alice", 1).
					WillReturnRows(rows)
			},
		},
		{
			name:     "Not Found",
			username: "ghost",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username_key = $1`)).
					WithArgs("ghost", 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: models.CodeNotFound,
		},
		{
			name:     "Driver Failure",
			username: "bob",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username_key = $1`)).
					WithArgs("bob", 1).
					WillReturnError(errors.New("connection refused"))
			},
			expectedError: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByUsername(ctx, tt.username)

			if tt.expectedError != "" {
				assert.True(t, models.HasCode(err, tt.expectedError), "got %v", err)
			} else if assert.NotNil(t, user) {
				assert.Equal(t, "Alice", user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.username_key")))
	assert.True(t, isUniqueConstraintError(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueConstraintError(errors.New("timeout")))
	assert.False(t, isUniqueConstraintError(nil))
}

func TestUserRepository_CreateDuplicateIgnoresCase(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "Alice", DisplayName: "A", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "ALICE", DisplayName: "B", Password: "y"})
	assert.True(t, models.HasCode(err, models.CodeDuplicate), "got %v", err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	found, err := repo.GetByUsername(ctx, "aLiCe")
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Username)
}

func TestUserRepository_ListIncludesPromptsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", true)
	older := testutil.CreatePrompt(t, db, alice, "older")
	newer := testutil.CreatePrompt(t, db, alice, "newer")
	require.NoError(t, db.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Len(t, users[0].Prompts, 2)
	assert.Equal(t, newer.ID, users[0].Prompts[0].ID)
	assert.Equal(t, []string{"test"}, []string(users[0].Prompts[0].Tags))

	profile, err := repo.GetByUsernameWithPrompts(ctx, "ALICE")
	require.NoError(t, err)
	assert.Len(t, profile.Prompts, 2)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", true)
	bob := testutil.CreateUser(t, db, "bob", false)
	bobPrompt := testutil.CreatePrompt(t, db, bob, "bob's")
	alicePrompt := testutil.CreatePrompt(t, db, alice, "alice's")

	_, err := interactions.ToggleFavorite(ctx, alice.ID, bobPrompt.ID)
	require.NoError(t, err)
	_, err = interactions.ToggleFavorite(ctx, bob.ID, alicePrompt.ID)
	require.NoError(t, err)
	_, err = interactions.Rate(ctx, bobPrompt.ID, alice.ID, 4)
	require.NoError(t, err)
	_, err = interactions.RecordInteraction(ctx, alicePrompt.ID, bob.ID, models.InteractionView)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, bob.ID))

	var count int64
	db.Model(&models.Prompt{}).Where("author_id = ?", bob.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Favorite{}).Where("user_id = ? OR prompt_id = ?", bob.ID, bobPrompt.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.PromptRating{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.PromptInteraction{}).Count(&count)
	assert.Zero(t, count)

	_, err = users.GetByID(ctx, alice.ID)
	assert.NoError(t, err)
	err = users.Delete(ctx, bob.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestUserRepository_DeleteRecomputesRatingsOnOtherPrompts(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", true)
	bob := testutil.CreateUser(t, db, "bob", false)
	carol := testutil.CreateUser(t, db, "carol", false)
	p := testutil.CreatePrompt(t, db, alice, "alice's")

	_, err := interactions.Rate(ctx, p.ID, bob.ID, 1)
	require.NoError(t, err)
	summary, err := interactions.Rate(ctx, p.ID, carol.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary.Rating)

	require.NoError(t, users.Delete(ctx, bob.ID))

	var stored models.Prompt
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, 5.0, stored.Rating)
	assert.Equal(t, 1, stored.RatingCount)

	require.NoError(t, users.Delete(ctx, carol.ID))
	require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
	assert.Zero(t, stored.Rating)
	assert.Zero(t, stored.RatingCount)
}

func TestUserRepository_SetAdminAndListAdmins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob", false)
	testutil.CreateUser(t, db, "alice", true)

	require.NoError(t, repo.SetAdmin(ctx, bob.ID, true))
	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "alice", admins[0].Username)

	err = repo.SetAdmin(ctx, "missing", true)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
