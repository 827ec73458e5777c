package server

import (
	"net/http"
	"testing"

	"promptvault/internal/models"
	"promptvault/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUsers_IncludePromptsWithoutPasswords(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "author", false)
	testutil.CreatePrompt(t, env.db, author, "Listed")
	testutil.CreateUser(t, env.db, "lurker", false)

	status, raw := env.do(t, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, status)
	users := decodeList(t, raw)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password")
		if u["username"] == "author" {
			assert.Len(t, u["prompts"], 1)
		}
	}

	status, body := env.doJSON(t, http.MethodGet, "/api/users/AUTHOR", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "author", body["username"])
	assert.Len(t, body["prompts"], 1)

	status, body = env.doJSON(t, http.MethodGet, "/api/users/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "root", true)
	member := testutil.CreateUser(t, env.db, "member", false)

	status, body := env.doJSON(t, http.MethodPut, "/api/users/profile", tokenFor(t, member), map[string]any{
		"displayName":  "Member One",
		"gender":       "female",
		"instagramUrl": "https://instagram.com/member",
	})
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "Member One", user["displayName"])
	assert.Equal(t, "https://instagram.com/member", user["instagramUrl"])

	status, body = env.doJSON(t, http.MethodPut, "/api/users/profile", tokenFor(t, member), map[string]any{
		"linkedinUrl": "linkedin.com/in/member",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "linkedinUrl")

	status, _ = env.doJSON(t, http.MethodPut, "/api/users/profile", tokenFor(t, member), map[string]any{
		"username": "root", "bio": "taken over",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.doJSON(t, http.MethodPut, "/api/users/profile", tokenFor(t, admin), map[string]any{
		"username": "member", "bio": "edited by admin",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "edited by admin", body["user"].(map[string]any)["bio"])

	status, _ = env.doJSON(t, http.MethodPut, "/api/users/profile", "", map[string]any{"bio": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPromoteAndDemote(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "root", true)
	member := testutil.CreateUser(t, env.db, "member", false)

	status, _ := env.doJSON(t, http.MethodPost, "/api/users/root/demote", tokenFor(t, member), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.doJSON(t, http.MethodPost, "/api/users/member/promote", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["user"].(map[string]any)["isAdmin"])

	status, body = env.doJSON(t, http.MethodPost, "/api/users/root/demote", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	// The promoted member can now demote the original admin.
	status, _ = env.doJSON(t, http.MethodPost, "/api/users/root/demote", tokenFor(t, member), nil)
	assert.Equal(t, http.StatusOK, status)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", admin.ID).Error)
	assert.False(t, stored.IsAdmin)

	status, _ = env.doJSON(t, http.MethodPost, "/api/users/ghost/promote", tokenFor(t, member), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := testutil.CreateUser(t, env.db, "root", true)
	member := testutil.CreateUser(t, env.db, "member", false)

	status, _ := env.doJSON(t, http.MethodDelete, "/api/users/root", tokenFor(t, member), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.doJSON(t, http.MethodDelete, "/api/users/ghost", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.doJSON(t, http.MethodDelete, "/api/users/member", tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, status)
}
