package service

import (
	"context"
	"strings"
	"testing"

	"promptvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(repo *userRepoStub) *UserService {
	svc := NewUserService(repo)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func strPtr(s string) *string { return &s }

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("first account is admin", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var created *models.User
		repo.createFn = func(_ context.Context, u *models.User) error {
			created = u
			return nil
		}
		user, err := newTestUserService(repo).Register(context.Background(), RegisterInput{
			Username: "alice", Password: "pw", DisplayName: "Alice",
		})
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
		require.NotNil(t, created)
		assert.NotEqual(t, "pw", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("pw")))
	})

	t.Run("later accounts are not admin", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.countFn = func(context.Context) (int64, error) { return 1, nil }
		user, err := newTestUserService(repo).Register(context.Background(), RegisterInput{
			Username: "bob", Password: "pw", DisplayName: "Bob",
		})
		require.NoError(t, err)
		assert.False(t, user.IsAdmin)
	})

	t.Run("admin username is always admin", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.countFn = func(context.Context) (int64, error) { return 7, nil }
		user, err := newTestUserService(repo).Register(context.Background(), RegisterInput{
			Username: "Admin", Password: "pw", DisplayName: "Root",
		})
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
	})

	t.Run("duplicate username ignores case", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
			if strings.EqualFold(name, "alice") {
				return &models.User{ID: "u1", Username: "alice"}, nil
			}
			return nil, models.NewNotFoundError("User", name)
		}
		_, err := newTestUserService(repo).Register(context.Background(), RegisterInput{
			Username: "ALICE", Password: "pw", DisplayName: "Dup",
		})
		assertCode(t, err, models.CodeDuplicate)
	})

	t.Run("missing fields are reported together", func(t *testing.T) {
		t.Parallel()
		_, err := newTestUserService(noopUserRepo()).Register(context.Background(), RegisterInput{})
		assertValidationError(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "username")
		assert.Contains(t, appErr.Fields, "password")
		assert.Contains(t, appErr.Fields, "displayName")
	})

	t.Run("invalid gender", func(t *testing.T) {
		t.Parallel()
		_, err := newTestUserService(noopUserRepo()).Register(context.Background(), RegisterInput{
			Username: "carol", Password: "pw", DisplayName: "Carol", Gender: "robot",
		})
		assertValidationError(t, err)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		if models.UsernameKey(name) == "alice" {
			return &models.User{ID: "u1", Username: "Alice", Password: string(hash)}, nil
		}
		return nil, models.NewNotFoundError("User", name)
	}
	svc := newTestUserService(repo)

	user, err := svc.Login(context.Background(), "aLiCe", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = svc.Login(context.Background(), "alice", "wrong")
	assertCode(t, err, models.CodeUnauthorized)
	_, err = svc.Login(context.Background(), "nobody", "secret")
	assertCode(t, err, models.CodeUnauthorized)
	_, err = svc.Login(context.Background(), "", "")
	assertCode(t, err, models.CodeUnauthorized)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	users := map[string]*models.User{
		"u-alice": {ID: "u-alice", Username: "alice", UsernameKey: "alice", IsAdmin: true},
		"u-bob":   {ID: "u-bob", Username: "bob", UsernameKey: "bob", Bio: "old bio"},
	}
	newRepo := func() (*userRepoStub, *models.User) {
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
			if u, ok := users[id]; ok {
				cp := *u
				return &cp, nil
			}
			return nil, models.NewNotFoundError("User", id)
		}
		repo.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
			for _, u := range users {
				if u.UsernameKey == models.UsernameKey(name) {
					cp := *u
					return &cp, nil
				}
			}
			return nil, models.NewNotFoundError("User", name)
		}
		saved := &models.User{}
		repo.updateFn = func(_ context.Context, u *models.User) error {
			*saved = *u
			return nil
		}
		return repo, saved
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		t.Parallel()
		repo, saved := newRepo()
		user, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{
			RequesterID: "u-bob",
			DisplayName: strPtr("Bobby"),
			Gender:      strPtr("male"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Bobby", user.DisplayName)
		assert.Equal(t, "old bio", saved.Bio)
		assert.Equal(t, "male", saved.Gender)
	})

	t.Run("own username is accepted", func(t *testing.T) {
		t.Parallel()
		repo, _ := newRepo()
		_, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{
			RequesterID: "u-bob",
			Username:    "BOB",
			Bio:         strPtr("new"),
		})
		require.NoError(t, err)
	})

	t.Run("non-admin cannot edit someone else", func(t *testing.T) {
		t.Parallel()
		repo, _ := newRepo()
		_, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{
			RequesterID: "u-bob",
			Username:    "alice",
			Bio:         strPtr("hacked"),
		})
		assertCode(t, err, models.CodeForbidden)
	})

	t.Run("admin can edit someone else", func(t *testing.T) {
		t.Parallel()
		repo, saved := newRepo()
		_, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{
			RequesterID: "u-alice",
			Username:    "bob",
			Bio:         strPtr("moderated"),
		})
		require.NoError(t, err)
		assert.Equal(t, "u-bob", saved.ID)
		assert.Equal(t, "moderated", saved.Bio)
	})

	t.Run("social links must be http", func(t *testing.T) {
		t.Parallel()
		repo, _ := newRepo()
		_, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{
			RequesterID:  "u-bob",
			InstagramURL: strPtr("javascript:alert(1)"),
		})
		assertValidationError(t, err)
	})

	t.Run("clearing the avatar restores the default", func(t *testing.T) {
		t.Parallel()
		repo, saved := newRepo()
		_, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{
			RequesterID: "u-bob",
			AvatarURL:   strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, models.DefaultAvatarURL("bob"), saved.AvatarURL)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		repo, _ := newRepo()
		_, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{
			RequesterID: "u-bob",
			Bio:         strPtr(strings.Repeat("x", 501)),
		})
		assertValidationError(t, err)
	})

	t.Run("deleted requester", func(t *testing.T) {
		t.Parallel()
		repo, _ := newRepo()
		_, err := newTestUserService(repo).UpdateProfile(context.Background(), UpdateProfileInput{RequesterID: "gone"})
		assertCode(t, err, models.CodeUnauthorized)
	})
}

func TestUserService_AdminOperations(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		switch id {
		case "u-alice":
			return &models.User{ID: id, Username: "alice", IsAdmin: true}, nil
		case "u-bob":
			return &models.User{ID: id, Username: "bob"}, nil
		}
		return nil, models.NewNotFoundError("User", id)
	}
	repo.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		return repo.getByIDFn(context.Background(), "u-"+models.UsernameKey(name))
	}
	var deleted string
	repo.deleteFn = func(_ context.Context, id string) error {
		deleted = id
		return nil
	}
	svc := newTestUserService(repo)
	ctx := context.Background()

	assertCode(t, svc.DeleteUser(ctx, "u-bob", "alice"), models.CodeForbidden)
	require.NoError(t, svc.DeleteUser(ctx, "u-alice", "bob"))
	assert.Equal(t, "u-bob", deleted)
	assertCode(t, svc.DeleteUser(ctx, "u-alice", "ghost"), models.CodeNotFound)

	promoted, err := svc.SetAdmin(ctx, "u-alice", "bob", true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	_, err = svc.SetAdmin(ctx, "u-alice", "alice", false)
	assertValidationError(t, err)
	_, err = svc.SetAdmin(ctx, "u-bob", "alice", false)
	assertCode(t, err, models.CodeForbidden)

	ok, err := svc.IsAdmin(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = svc.IsAdmin(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
