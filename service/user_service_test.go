// service/user_service_test.go
package service

import (
	"context"
	"database/sql"
	"shop-api/model"
	"shop-api/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.User), args.Error(1)
}
func (m *mockUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *mockUserRepo) DeleteUser(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		var saved *model.User
		mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			saved = u
			return true
		})).Return(nil).Once()

		userService := NewUserService(mockRepo)
		_, err := userService.CreateUser(context.Background(), "alice", " Alice@Example.COM ", "password123", "")

		assert.NoError(t, err)
		assert.Equal(t, "alice@example.com", saved.Email, "email should be normalized before persisting")
		assert.Equal(t, string(model.RoleUser), saved.Role, "role should default to user")
		assert.NotEqual(t, "password123", saved.Password, "plaintext must never be persisted")
		assert.True(t, CheckPasswordHash("password123", saved.Password))
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("CreateUser", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail).Once()

		userService := NewUserService(mockRepo)
		_, err := userService.CreateUser(context.Background(), "bob", "alice@example.com", "password123", "user")

		assert.Equal(t, ErrDuplicateEmail, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid role", func(t *testing.T) {
		mockRepo := new(mockUserRepo)

		userService := NewUserService(mockRepo)
		_, err := userService.CreateUser(context.Background(), "eve", "eve@example.com", "password123", "superuser")

		assert.Equal(t, ErrInvalidRole, err)
		mockRepo.AssertNotCalled(t, "CreateUser")
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Run("new password is re-hashed and replaces the old one", func(t *testing.T) {
		oldHash, err := HashPassword("oldpassword1")
		assert.NoError(t, err)

		existing := &model.User{ID: 3, Username: "carol", Email: "carol@example.com", Password: oldHash, Role: "user"}

		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", mock.Anything, 3).Return(existing, nil).Once()
		var saved *model.User
		mockRepo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			saved = u
			return true
		})).Return(nil).Once()

		newPassword := "newpassword1"
		userService := NewUserService(mockRepo)
		_, err = userService.UpdateUser(context.Background(), 3, model.UpdateUserRequest{Password: &newPassword})

		assert.NoError(t, err)
		assert.False(t, CheckPasswordHash("oldpassword1", saved.Password), "old plaintext must no longer authenticate")
		assert.True(t, CheckPasswordHash("newpassword1", saved.Password))
		mockRepo.AssertExpectations(t)
	})

	t.Run("absent fields are left untouched", func(t *testing.T) {
		existing := &model.User{ID: 4, Username: "dan", Email: "dan@example.com", Password: "hash", Role: "user"}

		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", mock.Anything, 4).Return(existing, nil).Once()
		var saved *model.User
		mockRepo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			saved = u
			return true
		})).Return(nil).Once()

		newName := "daniel"
		userService := NewUserService(mockRepo)
		_, err := userService.UpdateUser(context.Background(), 4, model.UpdateUserRequest{Username: &newName})

		assert.NoError(t, err)
		assert.Equal(t, "daniel", saved.Username)
		assert.Equal(t, "dan@example.com", saved.Email)
		assert.Equal(t, "hash", saved.Password)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", mock.Anything, 99).Return(nil, sql.ErrNoRows).Once()

		userService := NewUserService(mockRepo)
		_, err := userService.UpdateUser(context.Background(), 99, model.UpdateUserRequest{})

		assert.Equal(t, ErrUserNotFound, err)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("DeleteUser", mock.Anything, 2).Return(nil).Once()

		userService := NewUserService(mockRepo)
		err := userService.DeleteUser(context.Background(), 1, 2)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("self deletion is refused regardless of role", func(t *testing.T) {
		mockRepo := new(mockUserRepo)

		userService := NewUserService(mockRepo)
		err := userService.DeleteUser(context.Background(), 1, 1)

		assert.Equal(t, ErrSelfDeletion, err)
		mockRepo.AssertNotCalled(t, "DeleteUser")
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("DeleteUser", mock.Anything, 42).Return(sql.ErrNoRows).Once()

		userService := NewUserService(mockRepo)
		err := userService.DeleteUser(context.Background(), 1, 42)

		assert.Equal(t, ErrUserNotFound, err)
	})
}
