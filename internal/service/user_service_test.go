package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invtrack/internal/auth"
	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
)

func TestUserService_CreateUser(t *testing.T) {
	t.Run("hashes the password and defaults the role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		user, err := NewUserService(repo).CreateUser(context.Background(), CreateUserInput{
			Username: "clerk",
			Email:    "clerk@example.com",
			Password: "secret1",
		})

		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.NotEqual(t, "secret1", user.PasswordHash)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "secret1"))
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		repo := new(MockUserRepository)

		_, err := NewUserService(repo).CreateUser(context.Background(), CreateUserInput{
			Username: "clerk",
			Password: "secret1",
			Role:     model.Role("owner"),
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("passes duplicate errors through", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrDuplicateUser)

		_, err := NewUserService(repo).CreateUser(context.Background(), CreateUserInput{
			Username: "admin",
			Password: "secret1",
			Role:     model.RoleAdmin,
		})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	id := uuid.New()
	existing := func() *model.User {
		return &model.User{ID: id, Username: "clerk", Email: "clerk@example.com", Role: model.RoleUser, PasswordHash: "old"}
	}

	t.Run("changes only the given fields", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "clerk" && u.Role == model.RoleManager && u.PasswordHash == "old"
		})).Return(nil)

		role := model.RoleManager
		user, err := NewUserService(repo).UpdateUser(context.Background(), id, UpdateUserInput{Role: &role})

		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, user.Role)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(existing(), nil)

		role := model.Role("root")
		_, err := NewUserService(repo).UpdateUser(context.Background(), id, UpdateUserInput{Role: &role})

		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, apperrors.ErrUserNotFound)

		name := "x"
		_, err := NewUserService(repo).UpdateUser(context.Background(), id, UpdateUserInput{Username: &name})

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
