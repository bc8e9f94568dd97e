package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/articlehub-be/internal/apperrors"
	"github.com/isdelr/articlehub-be/internal/auth"
	"github.com/isdelr/articlehub-be/internal/models"
	"github.com/isdelr/articlehub-be/internal/repository"
)

// ErrInvalidCredentials is returned for any failed login, whether the email
// is unknown or the password is wrong.
var ErrInvalidCredentials = fmt.Errorf("Invalid credentials: %w", apperrors.ErrUnauthenticated)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
	User        models.User
}

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}

// AuthService checks credentials and issues access tokens.
type AuthService struct {
	users  repository.UserStore
	hasher *PasswordHasher
	tokens *auth.TokenService
	events EventServiceProvider
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, hasher *PasswordHasher, tokens *auth.TokenService, events EventServiceProvider) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, events: events}
}

// Login verifies a user's credentials and issues a token carrying the user's
// current permissions.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	log.Info().Str("email", email).Msg("Login attempt")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return LoginResult{}, err
	}

	// Compare even for unknown emails so both failures take the same time.
	ok, cmpErr := s.hasher.Compare(ctx, user.PasswordHash, password)
	if cmpErr != nil {
		return LoginResult{}, cmpErr
	}
	if err != nil || !ok {
		log.Warn().Str("email", email).Msg("Login failed: invalid credentials")
		s.events.Record(ctx, EventLoginFailed, LevelWarn,
			fmt.Sprintf("Failed login for %s", email), nil, nil)
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return LoginResult{}, err
	}

	user.PasswordHash = ""
	log.Info().Str("user_id", user.ID).Interface("permissions", user.Roles()).Msg("Login successful")
	return LoginResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		ExpiresIn:   s.tokens.TTL(),
		User:        user,
	}, nil
}
