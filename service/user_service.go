package service

import (
	"context"
	"database/sql"
	"errors"
	"shop-api/logger"
	"shop-api/model"
	"shop-api/repository"
	"strings"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	ErrSelfDeletion   = errors.New("you cannot delete your own account")
	ErrInvalidRole    = errors.New("invalid role specified")
)

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser hashes the plaintext password and persists a new user. The
// plaintext is discarded immediately after hashing and is never logged.
func (s *UserService) CreateUser(ctx context.Context, username, email, password, role string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if role == "" {
		role = string(model.RoleUser)
	}
	if role != string(model.RoleAdmin) && role != string(model.RoleUser) {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    normalizeEmail(email),
		Password: hashedPassword,
		Role:     role,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User created")
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return s.userRepo.GetAllUsers(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser applies a partial update: nil fields in the request leave the
// stored value untouched. A new password is re-hashed before persisting.
func (s *UserService) UpdateUser(ctx context.Context, id int, req model.UpdateUserRequest) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hashedPassword, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashedPassword
	}
	if req.Role != nil {
		if *req.Role != string(model.RoleAdmin) && *req.Role != string(model.RoleUser) {
			return nil, ErrInvalidRole
		}
		user.Role = *req.Role
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User updated")
	return user, nil
}

// DeleteUser removes a user. The identity behind the current session may not
// delete itself, regardless of role.
func (s *UserService) DeleteUser(ctx context.Context, callerID, targetID int) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if callerID == targetID {
		return ErrSelfDeletion
	}

	if err := s.userRepo.DeleteUser(ctx, targetID); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}

	logger.Log.WithField("user_id", targetID).Info("User deleted")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
