package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"invtrack/internal/auth"
	apperrors "invtrack/internal/errors"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

// ErrInvalidCredentials is returned when username or password is incorrect.
var ErrInvalidCredentials = errors.New("Invalid username or password")

// TokenIssuer issues signed tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID, username string, role model.Role) (string, error)
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token    string     `json:"token"`
	UserID   uuid.UUID  `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	issuer TokenIssuer
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, issuer TokenIssuer) AuthService {
	return &authService{
		users:  users,
		issuer: issuer,
	}
}

// Login checks the credentials and issues a token carrying the user's id,
// username and role. Unknown users and wrong passwords fail alike.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
