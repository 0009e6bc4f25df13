package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabshare-backend-go/internal/models"
)

func TestGetOrCreate(t *testing.T) {
	t.Run("creates missing profile", func(t *testing.T) {
		repo := &fakeUserRepo{users: make(map[string]*models.User)}
		svc := NewUserService(repo)

		user, created, err := svc.GetOrCreate(context.Background(), "u1", "u1@example.com", "User One", "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "u1@example.com", user.Email)
		assert.NotNil(t, repo.users["u1"])
	})

	t.Run("returns existing profile", func(t *testing.T) {
		repo := &fakeUserRepo{users: map[string]*models.User{
			"u1": {ID: "u1", Email: "old@example.com"},
		}}
		svc := NewUserService(repo)

		user, created, err := svc.GetOrCreate(context.Background(), "u1", "new@example.com", "", "")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "old@example.com", user.Email)
	})
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	svc := NewUserService(repo)

	_, err := svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
