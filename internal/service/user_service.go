package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"invtrack/internal/auth"
	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

// CreateUserInput carries the fields of a new user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// UpdateUserInput carries the fields to change. Nil fields are left alone.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *model.Role
}

// UserService manages user accounts.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.ErrInvalidRole
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
