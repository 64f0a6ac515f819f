package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "workouttracker/internal/errors"
	"workouttracker/internal/model"
	"workouttracker/internal/repository"
)

func TestUserService_GetUser(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.User{ID: id, Username: "alice"}, nil)

		user, err := NewUserService(repo, nil).GetUser(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		repo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

		_, err := NewUserService(repo, nil).GetUser(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("List", mock.Anything).Return([]model.User{{Username: "alice"}, {Username: "bob"}}, nil)

	users, err := NewUserService(repo, nil).ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
