package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, r *StoreUserRepository, username, email string) models.User {
	t.Helper()
	u, err := r.Register(context.Background(), models.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
		FullName:        "Full " + username,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := NewStoreUserRepository(newTestStore(t))

	u := register(t, users, "johndoe", "john@example.com")
	assert.NotEmpty(t, u.ID)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "password123", u.PasswordHash)

	got, err := users.Authenticate(ctx, "JOHN@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "john@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	users := NewStoreUserRepository(newTestStore(t))
	register(t, users, "johndoe", "john@example.com")

	for _, req := range []models.RegisterRequest{
		{Username: "JohnDoe", Email: "other@example.com", Password: "password123", FullName: "X"},
		{Username: "other", Email: "john@example.com", Password: "password123", FullName: "X"},
	} {
		_, err := users.Register(ctx, req)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	}
}

func TestSearchAndSuggestions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "a", "b", "c")
	users := NewStoreUserRepository(s)
	require.NoError(t, NewStoreFollowRepository(s).Follow(ctx, "a", "b"))

	found, err := users.SearchUsers(ctx, "USER", "a")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "b", found[0].ID)
	assert.Equal(t, "c", found[1].ID)

	found, err = users.SearchUsers(ctx, "user_c", "a")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = users.SearchUsers(ctx, " ", "a")
	require.NoError(t, err)
	assert.Empty(t, found)

	suggested, err := users.Suggestions(ctx, "a", 5)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Equal(t, "c", suggested[0].ID)
}

func TestUpdateProfileAndPresence(t *testing.T) {
	ctx := context.Background()
	users := NewStoreUserRepository(newTestStore(t, "a"))

	bio := "hello there"
	name := " New Name "
	u, err := users.UpdateProfile(ctx, "a", models.UpdateProfileRequest{Bio: &bio, FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "hello there", u.Bio)
	assert.Equal(t, "New Name", u.FullName)

	bad := "not a url"
	_, err = users.UpdateProfile(ctx, "a", models.UpdateProfileRequest{ProfilePicture: &bad})
	require.ErrorIs(t, err, store.ErrInvalid)

	u, err = users.SetPresence(ctx, "a", false)
	require.NoError(t, err)
	assert.False(t, u.IsOnline)
	require.NotNil(t, u.LastSeen)

	u, err = users.SetPresence(ctx, "a", true)
	require.NoError(t, err)
	assert.True(t, u.IsOnline)
}

func TestEnsureExternalUser(t *testing.T) {
	ctx := context.Background()
	users := NewStoreUserRepository(newTestStore(t))
	existing := register(t, users, "johndoe", "john@example.com")

	got, err := users.EnsureExternalUser(ctx, "John@Example.com", "John")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.ID)

	created, err := users.EnsureExternalUser(ctx, "jane.roe@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "janeroe", created.Username)
	assert.Equal(t, "janeroe", created.FullName)

	_, err = users.Authenticate(ctx, "jane.roe@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
