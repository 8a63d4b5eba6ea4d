package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"stockledger/internal/core/apperror"
	"stockledger/internal/core/id"
	"stockledger/pkg/logger"
)

// Service provides authentication logic.
type Service struct {
	users UserRepository
	jwt   *JWTService
}

// NewService creates a new auth service.
func NewService(users UserRepository, jwt *JWTService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates a new API account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	if username == "" {
		return nil, apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           id.New(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, *User, error) {
	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, nil, apperror.NewUnauthorized("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Username, user.IsAdmin)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "record login failed", "user_id", user.ID, "error", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "username", user.Username)

	return &Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, user, nil
}
