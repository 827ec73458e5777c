// Package testutil provides shared fixtures for tests that need a real schema.
package testutil

import (
	"context"
	"testing"

	"promptvault/internal/database"
	"promptvault/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewSQLiteDB returns an auto-migrated in-memory database closed at test end.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is "password".
func CreateUser(t testing.TB, db *gorm.DB, username string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Username:    username,
		DisplayName: username,
		Password:    string(hash),
		IsAdmin:     isAdmin,
	}
	require.NoError(t, db.WithContext(context.Background()).Omit(clause.Associations).Create(u).Error)
	return u
}

// CreatePrompt inserts a minimal valid prompt owned by author.
func CreatePrompt(t testing.TB, db *gorm.DB, author *models.User, title string) *models.Prompt {
	t.Helper()
	p := &models.Prompt{
		Title:    title,
		Content:  "Explain " + title + " step by step.",
		AuthorID: author.ID,
		Category: models.CategoryOther,
		Tags:     models.NewTagList("test"),
	}
	require.NoError(t, db.WithContext(context.Background()).Omit(clause.Associations).Create(p).Error)
	return p
}
