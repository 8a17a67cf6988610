package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-portal/internal/auth"
	"github.com/spec-kit/incident-portal/internal/domain"
	"github.com/spec-kit/incident-portal/internal/repository"
	"github.com/spec-kit/incident-portal/pkg/apperrors"
)

// AuthService coordinates the login flow. Identity is selected by username
// lookup only; there are no credentials to verify.
type AuthService struct {
	users    repository.UserRepository
	sessions auth.SessionStore
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, sessions auth.SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Login resolves a user by username and issues a session token.
func (s *AuthService) Login(ctx context.Context, username string) (*domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewUnauthorized("invalid username")
		}
		return nil, "", apperrors.MapError(err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", apperrors.MapError(err)
	}
	return user, token, nil
}

// Logout revokes the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
