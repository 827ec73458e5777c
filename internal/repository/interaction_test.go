package repository

import (
	"context"
	"sync"
	"testing"

	"promptvault/internal/models"
	"promptvault/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionRepository_RateRecomputesMean(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)
	prompts := NewPromptRepository(db, 0)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", true)
	bob := testutil.CreateUser(t, db, "bob", false)
	carol := testutil.CreateUser(t, db, "carol", false)
	p := testutil.CreatePrompt(t, db, bob, "rated")

	summary, err := repo.Rate(ctx, p.ID, alice.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{Rating: 4, RatingCount: 1}, *summary)

	summary, err = repo.Rate(ctx, p.ID, bob.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{Rating: 3, RatingCount: 2}, *summary)

	// a resubmission overwrites instead of double counting
	summary, err = repo.Rate(ctx, p.ID, bob.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{Rating: 4.5, RatingCount: 2}, *summary)

	summary, err = repo.Rate(ctx, p.ID, carol.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{Rating: 4.7, RatingCount: 3}, *summary)

	got, err := prompts.GetByID(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 4.7, got.Rating)
	assert.Equal(t, 3, got.RatingCount)

	_, err = repo.Rate(ctx, "missing", alice.ID, 3)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	// the schema rejects out-of-range scores even without service checks
	_, err = repo.Rate(ctx, p.ID, alice.ID, 6)
	assert.Error(t, err)
}

func TestInteractionRepository_RecordInteraction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)
	prompts := NewPromptRepository(db, 0)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob", false)
	p := testutil.CreatePrompt(t, db, bob, "counted")

	counted, err := repo.RecordInteraction(ctx, p.ID, bob.ID, models.InteractionView)
	require.NoError(t, err)
	assert.True(t, counted)
	counted, err = repo.RecordInteraction(ctx, p.ID, bob.ID, models.InteractionView)
	require.NoError(t, err)
	assert.False(t, counted)
	counted, err = repo.RecordInteraction(ctx, p.ID, bob.ID, models.InteractionCopy)
	require.NoError(t, err)
	assert.True(t, counted)

	for i := 0; i < 3; i++ {
		counted, err = repo.RecordInteraction(ctx, p.ID, "", models.InteractionCopy)
		require.NoError(t, err)
		assert.True(t, counted)
	}

	got, err := prompts.GetByID(ctx, p.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ViewCount)
	assert.EqualValues(t, 4, got.CopyCount)

	_, err = repo.RecordInteraction(ctx, "missing", "", models.InteractionView)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	_, err = repo.RecordInteraction(ctx, "missing", bob.ID, models.InteractionView)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	_, err = repo.RecordInteraction(ctx, p.ID, bob.ID, "share")
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestInteractionRepository_ConcurrentAnonymousViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob", false)
	p := testutil.CreatePrompt(t, db, bob, "busy")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordInteraction(ctx, p.ID, "", models.InteractionView)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var views int64
	require.NoError(t, db.Model(&models.Prompt{}).Where("id = ?", p.ID).Pluck("view_count", &views).Error)
	assert.EqualValues(t, 20, views)
}

func TestInteractionRepository_ToggleFavoriteIsInvolution(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob", false)
	p := testutil.CreatePrompt(t, db, bob, "fav")

	before, err := repo.FavoriteCount(ctx, p.ID)
	require.NoError(t, err)

	on, err := repo.ToggleFavorite(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, on)
	mid, err := repo.FavoriteCount(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, mid)

	off, err := repo.ToggleFavorite(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, off)
	after, err := repo.FavoriteCount(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = repo.ToggleFavorite(ctx, bob.ID, "missing")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
