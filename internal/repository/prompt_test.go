package repository

import (
	"context"
	"testing"
	"time"

	"promptvault/internal/cache"
	"promptvault/internal/models"
	"promptvault/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestPromptRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPromptRepository(db, 0)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob", false)
	p := &models.Prompt{
		Title:    "Test",
		Content:  "1234567890",
		Model:    models.ParseModelRef("gpt-4o"),
		Tags:     models.NewTagList("a", " b ", ""),
		AuthorID: bob.ID,
	}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Title)
	assert.Equal(t, models.ModelGPT4o, got.Model.Known)
	assert.Equal(t, models.TagList{"a", "b"}, got.Tags)
	assert.Equal(t, models.CategoryOther, got.Category)
	assert.Zero(t, got.ViewCount)
	assert.Zero(t, got.CopyCount)
	assert.Zero(t, got.Rating)
	require.NotNil(t, got.Author)
	assert.Equal(t, "bob", got.Author.Username)

	_, err = repo.GetByID(ctx, "missing", "")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPromptRepository_ListAnnotatesViewer(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPromptRepository(db, 0)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", true)
	bob := testutil.CreateUser(t, db, "bob", false)
	older := testutil.CreatePrompt(t, db, bob, "older")
	newer := testutil.CreatePrompt(t, db, alice, "newer")
	require.NoError(t, db.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)

	_, err := interactions.ToggleFavorite(ctx, bob.ID, older.ID)
	require.NoError(t, err)
	_, err = interactions.ToggleFavorite(ctx, alice.ID, older.ID)
	require.NoError(t, err)

	list, err := repo.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.False(t, list[0].IsFavorited)
	assert.Zero(t, list[0].FavoriteCount)
	assert.True(t, list[1].IsFavorited)
	assert.EqualValues(t, 2, list[1].FavoriteCount)

	anon, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.False(t, anon[1].IsFavorited)

	single, err := repo.GetByID(ctx, older.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, single.IsFavorited)
	assert.EqualValues(t, 2, single.FavoriteCount)
}

func TestPromptRepository_ListEmpty(t *testing.T) {
	repo := NewPromptRepository(setupTestDB(t), 0)
	list, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPromptRepository_FeedCache(t *testing.T) {
	mr := withRedis(t)
	db := setupTestDB(t)
	repo := NewPromptRepository(db, time.Minute)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob", false)
	p := testutil.CreatePrompt(t, db, bob, "cached")

	list, err := repo.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(cache.PromptsListKey))
	ttl := mr.TTL(cache.PromptsListKey)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	// counters do not invalidate the shared feed
	counted, err := interactions.RecordInteraction(ctx, p.ID, "", models.InteractionView)
	require.NoError(t, err)
	assert.True(t, counted)
	list, err = repo.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, list[0].ViewCount)

	// the viewer overlay is never cached
	favorited, err := interactions.ToggleFavorite(ctx, bob.ID, p.ID)
	require.NoError(t, err)
	require.True(t, favorited)
	assert.False(t, mr.Exists(cache.PromptsListKey))
	list, err = repo.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, list[0].IsFavorited)
	assert.EqualValues(t, 1, list[0].ViewCount)
	anon, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.False(t, anon[0].IsFavorited)

	p.Title = "renamed"
	require.NoError(t, repo.Update(ctx, p))
	assert.False(t, mr.Exists(cache.PromptsListKey))
}

func TestPromptRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPromptRepository(db, 0)
	interactions := NewInteractionRepository(db)
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob", false)
	p := testutil.CreatePrompt(t, db, bob, "draft")
	_, err := interactions.Rate(ctx, p.ID, bob.ID, 5)
	require.NoError(t, err)

	p.Title = "final"
	p.Tags = models.NewTagList("x", "y")
	p.Category = models.CategoryCoding
	p.ViewCount = 999
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, models.TagList{"x", "y"}, got.Tags)
	assert.Equal(t, models.CategoryCoding, got.Category)
	assert.Zero(t, got.ViewCount, "counters are not author-editable")
	assert.Equal(t, 5.0, got.Rating)

	require.NoError(t, repo.UpdateDescription(ctx, p.ID, "A summary."))
	got, err = repo.GetByID(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "A summary.", got.Description)

	err = repo.Update(ctx, &models.Prompt{ID: "missing", Title: "x"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	deleted, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	var ratings int64
	db.Model(&models.PromptRating{}).Count(&ratings)
	assert.Zero(t, ratings)
}
